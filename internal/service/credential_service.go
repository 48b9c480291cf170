package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type collegeEmailChecker interface {
	CollegeEmailInUse(ctx context.Context, email string) (bool, error)
}

// Password character classes. The symbol set is intentionally small so the
// issued credential survives copy-paste and verbal hand-off.
const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%&*"
)

// Credentials is the one-time secret bundle returned to the caller. The
// plaintext password is never persisted.
type Credentials struct {
	CollegeEmail string
	Password     string
}

// CredentialService derives college email addresses and issues one-time
// passwords for newly admitted enrollees.
type CredentialService struct {
	emails         collegeEmailChecker
	domain         string
	passwordLength int
	logger         *zap.Logger
}

// NewCredentialService constructs the credential issuer.
func NewCredentialService(emails collegeEmailChecker, domain string, passwordLength int, logger *zap.Logger) *CredentialService {
	if passwordLength < 8 {
		passwordLength = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{emails: emails, domain: domain, passwordLength: passwordLength, logger: logger}
}

// Issue produces an unused college email and a policy-compliant password.
func (s *CredentialService) Issue(ctx context.Context, firstName, lastName, enrollmentNo string) (*Credentials, error) {
	email, err := s.deriveEmail(ctx, firstName, lastName, enrollmentNo)
	if err != nil {
		return nil, err
	}

	password, err := s.generatePassword()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
	}

	return &Credentials{CollegeEmail: email, Password: password}, nil
}

// deriveEmail walks a fixed list of derivation strategies and returns the
// first unused address. The final strategy is keyed off the enrollment
// number and a timestamp fragment, which terminates without unbounded retry.
func (s *CredentialService) deriveEmail(ctx context.Context, firstName, lastName, enrollmentNo string) (string, error) {
	for _, strategy := range s.emailCandidates(firstName, lastName, enrollmentNo) {
		candidate, err := strategy()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive college email")
		}
		inUse, err := s.emails.CollegeEmailInUse(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify college email")
		}
		if !inUse {
			return candidate, nil
		}
		s.logger.Debug("college email taken, trying next format", zap.String("candidate", candidate))
	}
	return "", appErrors.Clone(appErrors.ErrCollisionExhausted, "could not derive an unused college email")
}

func (s *CredentialService) emailCandidates(firstName, lastName, enrollmentNo string) []func() (string, error) {
	first := normalizeNamePart(firstName)
	last := normalizeNamePart(lastName)
	suffix := enrollmentNo
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}

	return []func() (string, error){
		func() (string, error) {
			local := first
			if last != "" {
				local += last[:1]
			}
			return fmt.Sprintf("%s%s@%s", local, suffix, s.domain), nil
		},
		func() (string, error) {
			n, err := rand.Int(rand.Reader, big.NewInt(90))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s%s%02d@%s", first, last, n.Int64()+10, s.domain), nil
		},
		func() (string, error) {
			return fmt.Sprintf("%s%d@%s", strings.ToLower(enrollmentNo), time.Now().UnixNano()%10000, s.domain), nil
		},
	}
}

// normalizeNamePart lowercases and strips everything but ASCII letters.
func normalizeNamePart(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// generatePassword builds a password holding at least one character of each
// required class, fills the rest from the full alphabet, then shuffles so
// the guaranteed characters are not predictably positioned.
func (s *CredentialService) generatePassword() (string, error) {
	alphabet := lowerChars + upperChars + digitChars + symbolChars

	chars := make([]byte, 0, s.passwordLength)
	for _, class := range []string{upperChars, lowerChars, digitChars, symbolChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < s.passwordLength {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates with crypto/rand.
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := n.Int64()
		chars[i], chars[j] = chars[j], chars[i]
	}

	return string(chars), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

// HashPassword produces the bcrypt hash persisted on the account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
