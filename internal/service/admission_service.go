package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/repository"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type identityChecker interface {
	ExistsByPersonalEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

type seatManager interface {
	ReserveSeat(ctx context.Context, courseID string) error
	ReleaseSeat(ctx context.Context, courseID string) error
}

type identifierAllocator interface {
	Allocate(ctx context.Context, courseCode, year string) (string, error)
}

type credentialIssuer interface {
	Issue(ctx context.Context, firstName, lastName, enrollmentNo string) (*Credentials, error)
}

type provisioner interface {
	CreateEnrollee(ctx context.Context, account *models.Account, enrollee *models.Enrollee) error
}

type credentialDispatcher interface {
	Dispatch(enrollee models.Enrollee, collegeEmail, password string) error
}

type availabilityInvalidator interface {
	InvalidateAvailability(ctx context.Context, courseID string)
}

// ProvisionRequest is the typed admission payload, validated before any side
// effect takes place.
type ProvisionRequest struct {
	FirstName     string     `json:"first_name" validate:"required"`
	LastName      string     `json:"last_name" validate:"required"`
	PersonalEmail string     `json:"personal_email" validate:"required,email"`
	Phone         string     `json:"phone" validate:"required,len=10,numeric"`
	CourseID      string     `json:"course_id" validate:"required"`
	AdmissionYear string     `json:"admission_year" validate:"omitempty,len=4,numeric"`
	Gender        *string    `json:"gender,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Address       *string    `json:"address,omitempty"`
	GuardianName  *string    `json:"guardian_name,omitempty"`
}

// IssuedCredentials is returned exactly once to the administrator, who is
// responsible for secure hand-off.
type IssuedCredentials struct {
	EnrollmentNo string `json:"enrollment_no"`
	CollegeEmail string `json:"college_email"`
	Password     string `json:"password"`
	Note         string `json:"note"`
}

// ProvisionResult bundles the committed enrollee with its one-time credentials.
type ProvisionResult struct {
	Enrollee    models.Enrollee   `json:"enrollee"`
	Credentials IssuedCredentials `json:"credentials"`
}

// AdmissionService coordinates the provisioning pipeline: seat reservation,
// identifier allocation, credential issuance and the atomic account+enrollee
// commit. Any failure after the seat is reserved releases it again; an abort
// leaves zero residual state, so resubmitting the same request is safe.
type AdmissionService struct {
	courses      courseReader
	identities   identityChecker
	capacity     seatManager
	allocator    identifierAllocator
	credentials  credentialIssuer
	provisioning provisioner
	dispatcher   credentialDispatcher
	availability availabilityInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// AdmissionServiceDeps collects collaborators for NewAdmissionService.
type AdmissionServiceDeps struct {
	Courses      courseReader
	Identities   identityChecker
	Capacity     seatManager
	Allocator    identifierAllocator
	Credentials  credentialIssuer
	Provisioning provisioner
	Dispatcher   credentialDispatcher
	Availability availabilityInvalidator
	Metrics      *MetricsService
	Validator    *validator.Validate
	Logger       *zap.Logger
}

// NewAdmissionService constructs the enrollment coordinator.
func NewAdmissionService(deps AdmissionServiceDeps) *AdmissionService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &AdmissionService{
		courses:      deps.Courses,
		identities:   deps.Identities,
		capacity:     deps.Capacity,
		allocator:    deps.Allocator,
		credentials:  deps.Credentials,
		provisioning: deps.Provisioning,
		dispatcher:   deps.Dispatcher,
		availability: deps.Availability,
		metrics:      deps.Metrics,
		validator:    deps.Validator,
		logger:       deps.Logger,
	}
}

// Provision runs the admission pipeline for one enrollee.
func (s *AdmissionService) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	start := time.Now()
	result, err := s.provision(ctx, req)
	if s.metrics != nil {
		s.metrics.ObserveProvisioning(err, time.Since(start))
	}
	return result, err
}

func (s *AdmissionService) provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	year := req.AdmissionYear
	if year == "" {
		year = course.AdmissionYear
	}

	// Pre-checks close the common duplicate paths early; the storage
	// constraints re-verify at commit to close the remaining race.
	if taken, err := s.identities.ExistsByPersonalEmail(ctx, req.PersonalEmail); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify personal email")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "personal email already registered")
	}
	if taken, err := s.identities.ExistsByPhone(ctx, req.Phone); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify phone number")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "phone number already registered")
	}

	if err := s.capacity.ReserveSeat(ctx, course.ID); err != nil {
		return nil, err
	}

	enrollmentNo, err := s.allocator.Allocate(ctx, course.Code, year)
	if err != nil {
		s.releaseSeat(ctx, course.ID)
		return nil, err
	}

	creds, err := s.credentials.Issue(ctx, req.FirstName, req.LastName, enrollmentNo)
	if err != nil {
		s.releaseSeat(ctx, course.ID)
		return nil, err
	}

	passwordHash, err := HashPassword(creds.Password)
	if err != nil {
		s.releaseSeat(ctx, course.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.Account{
		Username:           enrollmentNo,
		Email:              creds.CollegeEmail,
		PasswordHash:       passwordHash,
		Role:               models.RoleStudent,
		Active:             true,
		MustChangePassword: true,
	}
	enrollee := &models.Enrollee{
		EnrollmentNo:  enrollmentNo,
		CourseID:      course.ID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PersonalEmail: req.PersonalEmail,
		CollegeEmail:  creds.CollegeEmail,
		Phone:         req.Phone,
		AdmissionYear: year,
		CurrentTerm:   1,
		Status:        models.EnrolleeStatusActive,
		Gender:        req.Gender,
		BirthDate:     req.BirthDate,
		Address:       req.Address,
		GuardianName:  req.GuardianName,
	}

	if err := s.provisioning.CreateEnrollee(ctx, account, enrollee); err != nil {
		s.releaseSeat(ctx, course.ID)
		if uve, ok := repository.AsUniqueViolation(err); ok {
			s.logger.Warn("provisioning commit lost uniqueness race",
				zap.String("constraint", uve.Constraint),
				zap.String("enrollment_no", enrollmentNo),
			)
			return nil, appErrors.Clone(appErrors.ErrDuplicateIdentity, "identity already registered, retry is safe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}

	if s.availability != nil {
		s.availability.InvalidateAvailability(ctx, course.ID)
	}

	// Best-effort delivery after commit: a dispatch failure never turns a
	// committed enrollment into an error.
	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(*enrollee, creds.CollegeEmail, creds.Password); err != nil {
			s.logger.Error("credential delivery dispatch failed",
				zap.String("enrollment_no", enrollmentNo),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("enrollee provisioned",
		zap.String("enrollment_no", enrollmentNo),
		zap.String("course_code", course.Code),
		zap.String("admission_year", year),
	)

	return &ProvisionResult{
		Enrollee: *enrollee,
		Credentials: IssuedCredentials{
			EnrollmentNo: enrollmentNo,
			CollegeEmail: creds.CollegeEmail,
			Password:     creds.Password,
			Note:         "rotate on first login",
		},
	}, nil
}

func (s *AdmissionService) releaseSeat(ctx context.Context, courseID string) {
	if err := s.capacity.ReleaseSeat(ctx, courseID); err != nil {
		s.logger.Error("compensating seat release failed", zap.String("course_id", courseID), zap.Error(err))
	}
}
