package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
)

// ErrSeatLimitReached is returned by ReserveSeat when the course is full.
var ErrSeatLimitReached = errors.New("seat limit reached")

// CourseRepository manages persistence for course records, including the
// seat counter mutated by the admission pipeline.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching the provided filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	baseQuery := `FROM courses WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.AdmissionYear != "" {
		conditions = append(conditions, fmt.Sprintf("admission_year = $%d", len(args)+1))
		args = append(args, filter.AdmissionYear)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"code":       true,
		"name":       true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "code"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, code, name, seats_total, seats_filled, duration_terms, admission_year, active, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// FindByID fetches a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, code, name, seats_total, seats_filled, duration_terms, admission_year, active, created_at, updated_at FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// FindByCode fetches a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	const query = `SELECT id, code, name, seats_total, seats_filled, duration_terms, admission_year, active, created_at, updated_at FROM courses WHERE code = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by code: %w", err)
	}
	return &course, nil
}

// ExistsByCode checks if a course with the given code exists.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM courses WHERE code = $1 LIMIT 1", code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, code, name, seats_total, seats_filled, duration_terms, admission_year, active, created_at, updated_at)
        VALUES (:id, :code, :name, :seats_total, :seats_filled, :duration_terms, :admission_year, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// ReserveSeat atomically claims one seat. The conditional increment is a
// single statement so two racing reservations of the last seat cannot both
// succeed. Returns ErrSeatLimitReached when the course is full and
// sql.ErrNoRows when the course does not exist.
func (r *CourseRepository) ReserveSeat(ctx context.Context, id string) error {
	const query = `UPDATE courses SET seats_filled = seats_filled + 1, updated_at = $2 WHERE id = $1 AND seats_filled < seats_total`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reserve seat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seat rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM courses WHERE id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return fmt.Errorf("reserve seat existence check: %w", err)
	}
	return ErrSeatLimitReached
}

// ReleaseSeat returns a previously reserved seat. Guarded so compensation
// can never drive the counter negative.
func (r *CourseRepository) ReleaseSeat(ctx context.Context, id string) error {
	const query = `UPDATE courses SET seats_filled = seats_filled - 1, updated_at = $2 WHERE id = $1 AND seats_filled > 0`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}
