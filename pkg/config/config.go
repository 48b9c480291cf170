package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Admission     AdmissionConfig
	Notifications NotificationsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdmissionConfig tunes the provisioning pipeline.
type AdmissionConfig struct {
	InstituteName        string
	EmailDomain          string
	PasswordLength       int
	IdentifierAttempts   int
	AvailabilityCacheTTL time.Duration
}

// NotificationsConfig controls credential delivery.
type NotificationsConfig struct {
	Enabled     bool
	Provider    string
	FromName    string
	FromAddress string
	SendGridKey string
	Workers     int
	MaxRetries  int
	RetryDelay  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	passwordLength := v.GetInt("ADMISSION_PASSWORD_LENGTH")
	if passwordLength < 8 {
		passwordLength = 8
	}
	cfg.Admission = AdmissionConfig{
		InstituteName:        v.GetString("ADMISSION_INSTITUTE_NAME"),
		EmailDomain:          v.GetString("ADMISSION_EMAIL_DOMAIN"),
		PasswordLength:       passwordLength,
		IdentifierAttempts:   v.GetInt("ADMISSION_IDENTIFIER_ATTEMPTS"),
		AvailabilityCacheTTL: parseDuration(v.GetString("ADMISSION_AVAILABILITY_CACHE_TTL"), time.Minute),
	}

	cfg.Notifications = NotificationsConfig{
		Enabled:     v.GetBool("NOTIFICATIONS_ENABLED"),
		Provider:    v.GetString("NOTIFICATIONS_PROVIDER"),
		FromName:    v.GetString("NOTIFICATIONS_FROM_NAME"),
		FromAddress: v.GetString("NOTIFICATIONS_FROM_ADDRESS"),
		SendGridKey: v.GetString("SENDGRID_API_KEY"),
		Workers:     v.GetInt("NOTIFICATIONS_WORKERS"),
		MaxRetries:  v.GetInt("NOTIFICATIONS_MAX_RETRIES"),
		RetryDelay:  parseDuration(v.GetString("NOTIFICATIONS_RETRY_DELAY"), 5*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "nursing_college")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "nursing-college-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ADMISSION_INSTITUTE_NAME", "Nursing College")
	v.SetDefault("ADMISSION_EMAIL_DOMAIN", "nursingcollege.ac.in")
	v.SetDefault("ADMISSION_PASSWORD_LENGTH", 10)
	v.SetDefault("ADMISSION_IDENTIFIER_ATTEMPTS", 10)
	v.SetDefault("ADMISSION_AVAILABILITY_CACHE_TTL", "1m")

	v.SetDefault("NOTIFICATIONS_ENABLED", true)
	v.SetDefault("NOTIFICATIONS_PROVIDER", "console")
	v.SetDefault("NOTIFICATIONS_FROM_NAME", "Nursing College Admissions")
	v.SetDefault("NOTIFICATIONS_FROM_ADDRESS", "admissions@nursingcollege.ac.in")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("NOTIFICATIONS_WORKERS", 2)
	v.SetDefault("NOTIFICATIONS_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATIONS_RETRY_DELAY", "5s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
