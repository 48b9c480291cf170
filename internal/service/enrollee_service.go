package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/export"
)

type enrolleeRepository interface {
	List(ctx context.Context, filter models.EnrolleeFilter) ([]models.EnrolleeDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.EnrolleeDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrolleeStatus) error
}

// UpdateEnrolleeStatusRequest transitions an enrollee's lifecycle state.
type UpdateEnrolleeStatusRequest struct {
	Status models.EnrolleeStatus `json:"status" validate:"required"`
}

// EnrolleeService handles enrollee reads and lifecycle transitions layered
// on top of the transactional admission core.
type EnrolleeService struct {
	repo          enrolleeRepository
	csv           *export.CSVExporter
	letters       *export.LetterExporter
	instituteName string
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewEnrolleeService constructs the enrollee service.
func NewEnrolleeService(repo enrolleeRepository, instituteName string, validate *validator.Validate, logger *zap.Logger) *EnrolleeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrolleeService{
		repo:          repo,
		csv:           export.NewCSVExporter(),
		letters:       export.NewLetterExporter(),
		instituteName: instituteName,
		validator:     validate,
		logger:        logger,
	}
}

// List returns enrollees and pagination metadata.
func (s *EnrolleeService) List(ctx context.Context, filter models.EnrolleeFilter) ([]models.EnrolleeDetail, *models.Pagination, error) {
	enrollees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollees")
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
	return enrollees, pagination, nil
}

// Get returns detailed enrollee information.
func (s *EnrolleeService) Get(ctx context.Context, id string) (*models.EnrolleeDetail, error) {
	enrollee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollee")
	}
	return enrollee, nil
}

// UpdateStatus transitions an enrollee to a new lifecycle status.
func (s *EnrolleeService) UpdateStatus(ctx context.Context, id string, req UpdateEnrolleeStatusRequest) (*models.EnrolleeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !models.ValidStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown enrollee status")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollee status")
	}
	return s.Get(ctx, id)
}

// ExportCSV renders the filtered roster as CSV bytes.
func (s *EnrolleeService) ExportCSV(ctx context.Context, filter models.EnrolleeFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = 100
	enrollees, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollees for export")
	}

	headers := []string{"Enrollment No", "First Name", "Last Name", "Course", "Admission Year", "College Email", "Phone", "Status"}
	rows := make([]map[string]string, 0, len(enrollees))
	for _, e := range enrollees {
		rows = append(rows, map[string]string{
			"Enrollment No":  e.EnrollmentNo,
			"First Name":     e.FirstName,
			"Last Name":      e.LastName,
			"Course":         e.CourseCode,
			"Admission Year": e.AdmissionYear,
			"College Email":  e.CollegeEmail,
			"Phone":          e.Phone,
			"Status":         string(e.Status),
		})
	}

	data, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
	}
	return data, nil
}

// AdmissionLetter renders the PDF offer letter for a committed enrollee.
func (s *EnrolleeService) AdmissionLetter(ctx context.Context, id string) ([]byte, error) {
	enrollee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.letters.Render(export.AdmissionLetter{
		InstituteName: s.instituteName,
		EnrolleeName:  enrollee.FirstName + " " + enrollee.LastName,
		EnrollmentNo:  enrollee.EnrollmentNo,
		CourseName:    enrollee.CourseName,
		CourseCode:    enrollee.CourseCode,
		CollegeEmail:  enrollee.CollegeEmail,
		AdmissionYear: enrollee.AdmissionYear,
		IssuedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render admission letter")
	}
	return data, nil
}
