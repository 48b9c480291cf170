package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
)

// EnrolleeRepository manages persistence for enrollee profiles.
type EnrolleeRepository struct {
	db *sqlx.DB
}

// NewEnrolleeRepository constructs an EnrolleeRepository.
func NewEnrolleeRepository(db *sqlx.DB) *EnrolleeRepository {
	return &EnrolleeRepository{db: db}
}

const enrolleeColumns = `e.id, e.enrollment_no, e.account_id, e.course_id, e.first_name, e.last_name,
        e.personal_email, e.college_email, e.phone, e.admission_year, e.current_term, e.status,
        e.gender, e.birth_date, e.address, e.guardian_name, e.created_at, e.updated_at`

// List returns enrollees matching the provided filters.
func (r *EnrolleeRepository) List(ctx context.Context, filter models.EnrolleeFilter) ([]models.EnrolleeDetail, int, error) {
	base := "FROM enrollees e JOIN courses c ON c.id = e.course_id"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.AdmissionYear != "" {
		conditions = append(conditions, fmt.Sprintf("e.admission_year = $%d", len(args)+1))
		args = append(args, filter.AdmissionYear)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.first_name) LIKE $%d OR LOWER(e.last_name) LIKE $%d OR LOWER(e.enrollment_no) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"enrollment_no": "e.enrollment_no",
		"last_name":     "e.last_name",
		"created_at":    "e.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "e.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s, c.code AS course_code, c.name AS course_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, enrolleeColumns, base, column, order, size, offset)

	var enrollees []models.EnrolleeDetail
	if err := r.db.SelectContext(ctx, &enrollees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollees: %w", err)
	}
	return enrollees, total, nil
}

// FindByID fetches an enrollee detail by ID.
func (r *EnrolleeRepository) FindByID(ctx context.Context, id string) (*models.EnrolleeDetail, error) {
	query := fmt.Sprintf(`SELECT %s, c.code AS course_code, c.name AS course_name
        FROM enrollees e JOIN courses c ON c.id = e.course_id WHERE e.id = $1`, enrolleeColumns)
	var detail models.EnrolleeDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CountByCourseAndYear returns how many enrollees exist for a course code
// and admission year. The allocator derives its candidate sequence from
// this count.
func (r *EnrolleeRepository) CountByCourseAndYear(ctx context.Context, courseCode, year string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollees e JOIN courses c ON c.id = e.course_id WHERE c.code = $1 AND e.admission_year = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseCode, year); err != nil {
		return 0, fmt.Errorf("count enrollees by course and year: %w", err)
	}
	return count, nil
}

// ExistsByEnrollmentNo checks whether an enrollment number is taken.
func (r *EnrolleeRepository) ExistsByEnrollmentNo(ctx context.Context, enrollmentNo string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM enrollees WHERE enrollment_no = $1 LIMIT 1", enrollmentNo); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment no: %w", err)
	}
	return true, nil
}

// ExistsByPersonalEmail checks whether a personal email is already registered.
func (r *EnrolleeRepository) ExistsByPersonalEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM enrollees WHERE personal_email = $1 LIMIT 1", email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check personal email: %w", err)
	}
	return true, nil
}

// ExistsByPhone checks whether a phone number is already registered.
func (r *EnrolleeRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM enrollees WHERE phone = $1 LIMIT 1", phone); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check phone: %w", err)
	}
	return true, nil
}

// CollegeEmailInUse checks both the enrollee and account tables so a derived
// address can never collide with any existing identity.
func (r *EnrolleeRepository) CollegeEmailInUse(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 WHERE EXISTS (SELECT 1 FROM enrollees WHERE college_email = $1) OR EXISTS (SELECT 1 FROM accounts WHERE email = $1)`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check college email: %w", err)
	}
	return true, nil
}

// UpdateStatus transitions an enrollee to a new lifecycle status.
func (r *EnrolleeRepository) UpdateStatus(ctx context.Context, id string, status models.EnrolleeStatus) error {
	const query = `UPDATE enrollees SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update enrollee status: %w", err)
	}
	return nil
}
