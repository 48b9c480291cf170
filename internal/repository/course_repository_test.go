package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "seats_total", "seats_filled", "duration_terms", "admission_year", "active", "created_at", "updated_at"}).
		AddRow("c1", "NUR", "B.Sc Nursing", 60, 12, 8, "2025", true, time.Now(), time.Now())
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, seats_total, seats_filled, duration_terms, admission_year, active, created_at, updated_at FROM courses WHERE 1=1 ORDER BY code ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(courseRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery("SELECT id, code, name, .+ FROM courses WHERE id = \\$1").
		WithArgs("c1").
		WillReturnRows(courseRows())

	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "NUR", course.Code)
	assert.Equal(t, 48, course.SeatsAvailable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryReserveSeat(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET seats_filled = seats_filled + 1, updated_at = $2 WHERE id = $1 AND seats_filled < seats_total")).
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReserveSeat(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryReserveSeatFull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET seats_filled = seats_filled + 1")).
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE id = $1 LIMIT 1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := repo.ReserveSeat(context.Background(), "c1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSeatLimitReached))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryReserveSeatUnknownCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET seats_filled = seats_filled + 1")).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	err := repo.ReserveSeat(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryReleaseSeat(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET seats_filled = seats_filled - 1, updated_at = $2 WHERE id = $1 AND seats_filled > 0")).
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReleaseSeat(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Code: "GNM", Name: "General Nursing and Midwifery", SeatsTotal: 40, DurationTerms: 6, AdmissionYear: "2025", Active: true}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
