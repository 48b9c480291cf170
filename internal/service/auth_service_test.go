package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
)

type mockAccountRepo struct {
	accounts   map[string]models.Account
	lastLogins []string
	updatedPw  map[string]string
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username || a.Email == username {
			acc := a
			return &acc, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := m.accounts[id]; ok {
		acc := a
		return &acc, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatedPw == nil {
		m.updatedPw = make(map[string]string)
	}
	m.updatedPw[id] = passwordHash
	return nil
}

func testAccount(t *testing.T, password string) models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return models.Account{
		ID:                 "a1",
		Username:           "NUR2025001",
		Email:              "priyas001@nursingcollege.ac.in",
		PasswordHash:       string(hash),
		Role:               models.RoleStudent,
		Active:             true,
		MustChangePassword: true,
	}
}

func newAuthService(repo *mockAccountRepo) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		Secret:     "test_secret",
		Expiration: time.Hour,
		Issuer:     "nursing-college-api",
	})
}

func TestAuthLogin(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]models.Account{"a1": testAccount(t, "Aa1!secure")}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "NUR2025001", Password: "Aa1!secure"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, res.MustChangePassword)
	assert.Equal(t, "a1", res.Account.ID)
	assert.Contains(t, repo.lastLogins, "a1")

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.AccountID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthLoginByCollegeEmail(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]models.Account{"a1": testAccount(t, "Aa1!secure")}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "priyas001@nursingcollege.ac.in", Password: "Aa1!secure"})
	require.NoError(t, err)
	assert.Equal(t, "NUR2025001", res.Account.Username)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]models.Account{"a1": testAccount(t, "Aa1!secure")}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "NUR2025001", Password: "wrong"})
	require.Error(t, err)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	account := testAccount(t, "Aa1!secure")
	account.Active = false
	repo := &mockAccountRepo{accounts: map[string]models.Account{"a1": account}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "NUR2025001", Password: "Aa1!secure"})
	require.Error(t, err)
}

func TestAuthChangePassword(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]models.Account{"a1": testAccount(t, "Aa1!secure")}}
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), "a1", models.ChangePasswordRequest{
		OldPassword: "Aa1!secure",
		NewPassword: "Bb2@rotated",
	})
	require.NoError(t, err)
	require.Contains(t, repo.updatedPw, "a1")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedPw["a1"]), []byte("Bb2@rotated")))
}

func TestAuthChangePasswordWrongOld(t *testing.T) {
	repo := &mockAccountRepo{accounts: map[string]models.Account{"a1": testAccount(t, "Aa1!secure")}}
	svc := newAuthService(repo)

	err := svc.ChangePassword(context.Background(), "a1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "Bb2@rotated",
	})
	require.Error(t, err)
	assert.Empty(t, repo.updatedPw)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockAccountRepo{})
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
