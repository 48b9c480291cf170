package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type mockCourseRepo struct {
	courses map[string]models.Course
	byCode  map[string]bool
	created []models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	list := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		list = append(list, c)
	}
	return list, len(list), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return m.byCode[code], nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = "generated"
	}
	if m.courses == nil {
		m.courses = make(map[string]models.Course)
	}
	m.courses[course.ID] = *course
	m.created = append(m.created, *course)
	return nil
}

// mockCache stores marshalled JSON like the redis-backed implementation.
type mockCache struct {
	entries map[string][]byte
	sets    int
	deletes []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	delete(m.entries, key)
	return nil
}

func sampleCourse() models.Course {
	return models.Course{
		ID:            "c1",
		Code:          "NUR",
		Name:          "B.Sc Nursing",
		SeatsTotal:    60,
		SeatsFilled:   12,
		DurationTerms: 8,
		AdmissionYear: "2025",
		Active:        true,
	}
}

func TestCourseCreate(t *testing.T) {
	repo := &mockCourseRepo{byCode: map[string]bool{}}
	svc := NewCourseService(repo, nil, time.Minute, nil, nil, zap.NewNop())

	course, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:          "GNM",
		Name:          "General Nursing and Midwifery",
		SeatsTotal:    40,
		DurationTerms: 6,
		AdmissionYear: "2025",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.True(t, course.Active)
	assert.Equal(t, 0, course.SeatsFilled)
}

func TestCourseCreateDuplicateCode(t *testing.T) {
	repo := &mockCourseRepo{byCode: map[string]bool{"NUR": true}}
	svc := NewCourseService(repo, nil, time.Minute, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:          "NUR",
		Name:          "B.Sc Nursing",
		SeatsTotal:    60,
		DurationTerms: 8,
		AdmissionYear: "2025",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCourseCreateRejectsLowercaseCode(t *testing.T) {
	repo := &mockCourseRepo{byCode: map[string]bool{}}
	svc := NewCourseService(repo, nil, time.Minute, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCourseRequest{
		Code:          "nur",
		Name:          "B.Sc Nursing",
		SeatsTotal:    60,
		DurationTerms: 8,
		AdmissionYear: "2025",
	})
	require.Error(t, err)
}

func TestCourseAvailabilityMissThenHit(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"c1": sampleCourse()}}
	cache := &mockCache{}
	svc := NewCourseService(repo, cache, time.Minute, nil, nil, zap.NewNop())

	availability, err := svc.Availability(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 48, availability.SeatsAvailable)
	assert.Equal(t, 1, cache.sets)

	// Mutate the backing store; a fresh hit must come from cache.
	course := repo.courses["c1"]
	course.SeatsFilled = 50
	repo.courses["c1"] = course

	cached, err := svc.Availability(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 48, cached.SeatsAvailable)
	assert.Equal(t, 1, cache.sets)
}

func TestCourseAvailabilityInvalidate(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"c1": sampleCourse()}}
	cache := &mockCache{}
	svc := NewCourseService(repo, cache, time.Minute, nil, nil, zap.NewNop())

	_, err := svc.Availability(context.Background(), "c1")
	require.NoError(t, err)

	svc.InvalidateAvailability(context.Background(), "c1")
	assert.Equal(t, []string{"course:availability:c1"}, cache.deletes)

	course := repo.courses["c1"]
	course.SeatsFilled = 13
	repo.courses["c1"] = course

	fresh, err := svc.Availability(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 47, fresh.SeatsAvailable)
}

func TestCourseAvailabilityUnknownCourse(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, time.Minute, nil, nil, zap.NewNop())

	_, err := svc.Availability(context.Background(), "missing")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
