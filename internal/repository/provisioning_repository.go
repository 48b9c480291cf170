package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pqUniqueViolation = "23505"

// UniqueViolationError surfaces which constraint rejected the commit so the
// coordinator can report a precise duplicate-identity error.
type UniqueViolationError struct {
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint violated: %s", e.Constraint)
}

// AsUniqueViolation extracts a UniqueViolationError when present.
func AsUniqueViolation(err error) (*UniqueViolationError, bool) {
	var uve *UniqueViolationError
	if errors.As(err, &uve) {
		return uve, true
	}
	return nil, false
}

// ProvisioningRepository persists the account + enrollee pair created by the
// admission pipeline. The pair is committed in one transaction: neither
// record may ever exist without the other.
type ProvisioningRepository struct {
	db *sqlx.DB
}

// NewProvisioningRepository constructs a ProvisioningRepository.
func NewProvisioningRepository(db *sqlx.DB) *ProvisioningRepository {
	return &ProvisioningRepository{db: db}
}

// CreateEnrollee inserts the account and enrollee atomically. A unique
// constraint rejection from either insert (the residual race the pre-checks
// cannot close) rolls back the whole pair and is returned as a
// UniqueViolationError.
func (r *ProvisioningRepository) CreateEnrollee(ctx context.Context, account *models.Account, enrollee *models.Enrollee) error {
	now := time.Now().UTC()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if enrollee.ID == "" {
		enrollee.ID = uuid.NewString()
	}
	enrollee.AccountID = account.ID
	if enrollee.CreatedAt.IsZero() {
		enrollee.CreatedAt = now
	}
	enrollee.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin provisioning tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const accountQuery = `INSERT INTO accounts (id, username, email, password_hash, role, active, must_change_password, created_at, updated_at)
        VALUES (:id, :username, :email, :password_hash, :role, :active, :must_change_password, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, accountQuery, account); err != nil {
		return wrapUnique(err, "create account")
	}

	const enrolleeQuery = `INSERT INTO enrollees (id, enrollment_no, account_id, course_id, first_name, last_name,
        personal_email, college_email, phone, admission_year, current_term, status,
        gender, birth_date, address, guardian_name, created_at, updated_at)
        VALUES (:id, :enrollment_no, :account_id, :course_id, :first_name, :last_name,
        :personal_email, :college_email, :phone, :admission_year, :current_term, :status,
        :gender, :birth_date, :address, :guardian_name, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, enrolleeQuery, enrollee); err != nil {
		return wrapUnique(err, "create enrollee")
	}

	if err = tx.Commit(); err != nil {
		return wrapUnique(err, "commit provisioning tx")
	}
	return nil
}

func wrapUnique(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return fmt.Errorf("%s: %w", op, &UniqueViolationError{Constraint: pqErr.Constraint})
	}
	return fmt.Errorf("%s: %w", op, err)
}
