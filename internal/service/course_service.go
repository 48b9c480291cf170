package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
}

// AvailabilityCache abstracts the cache backing the availability view. A nil
// cache disables caching without changing behaviour.
type AvailabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Code          string `json:"code" validate:"required,alpha,uppercase,min=2,max=6"`
	Name          string `json:"name" validate:"required"`
	SeatsTotal    int    `json:"seats_total" validate:"required,min=1"`
	DurationTerms int    `json:"duration_terms" validate:"required,min=1"`
	AdmissionYear string `json:"admission_year" validate:"required,len=4,numeric"`
}

// CourseService handles course use-cases around the admission pipeline.
type CourseService struct {
	repo      courseRepository
	cache     AvailabilityCache
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, cache AvailabilityCache, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, validator: validate, logger: logger}
}

// List returns courses and pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return courses, pagination, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course offering.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already used")
	}
	course := &models.Course{
		Code:          req.Code,
		Name:          req.Name,
		SeatsTotal:    req.SeatsTotal,
		SeatsFilled:   0,
		DurationTerms: req.DurationTerms,
		AdmissionYear: req.AdmissionYear,
		Active:        true,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Availability returns the seat availability view, served from cache when
// fresh enough. The cache is invalidated whenever the coordinator commits.
func (s *CourseService) Availability(ctx context.Context, id string) (*models.CourseAvailability, error) {
	key := availabilityCacheKey(id)
	if s.cache != nil {
		var cached models.CourseAvailability
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("availability cache read failed", zap.Error(err))
		}
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	availability := &models.CourseAvailability{
		CourseID:       course.ID,
		Code:           course.Code,
		SeatsTotal:     course.SeatsTotal,
		SeatsFilled:    course.SeatsFilled,
		SeatsAvailable: course.SeatsAvailable(),
		AsOf:           time.Now().UTC(),
	}
	if s.metrics != nil {
		s.metrics.SetSeatsFilled(course.Code, course.SeatsFilled)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, availability, s.cacheTTL); err != nil {
			s.logger.Warn("availability cache write failed", zap.Error(err))
		}
	}
	return availability, nil
}

// InvalidateAvailability drops the cached availability view for a course.
func (s *CourseService) InvalidateAvailability(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, availabilityCacheKey(id)); err != nil {
		s.logger.Warn("availability cache invalidation failed", zap.String("course_id", id), zap.Error(err))
	}
}

func availabilityCacheKey(courseID string) string {
	return fmt.Sprintf("course:availability:%s", courseID)
}
