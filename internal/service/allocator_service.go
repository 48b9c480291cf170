package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type sequenceRepository interface {
	CountByCourseAndYear(ctx context.Context, courseCode, year string) (int, error)
	ExistsByEnrollmentNo(ctx context.Context, enrollmentNo string) (bool, error)
}

// AllocatorService proposes unique enrollment numbers of the form
// CODE + year + zero-padded sequence (e.g. NUR2025001). It only proposes a
// candidate; final uniqueness is enforced by the enrollment_no constraint at
// commit time, because proposal and commit are separate round trips and a
// race can still slip between them.
type AllocatorService struct {
	repo        sequenceRepository
	maxAttempts int
	logger      *zap.Logger
}

// NewAllocatorService constructs the allocator.
func NewAllocatorService(repo sequenceRepository, maxAttempts int, logger *zap.Logger) *AllocatorService {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocatorService{repo: repo, maxAttempts: maxAttempts, logger: logger}
}

// Allocate returns an unused enrollment number for the course and admission
// year. Collisions with concurrent admissions are retried with incremented
// sequences; once attempts are exhausted a timestamp-suffixed identifier
// guarantees forward progress over perfect sequential numbering.
func (s *AllocatorService) Allocate(ctx context.Context, courseCode, year string) (string, error) {
	count, err := s.repo.CountByCourseAndYear(ctx, courseCode, year)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive enrollment sequence")
	}

	sequence := count + 1
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%s%03d", courseCode, year, sequence)
		taken, err := s.repo.ExistsByEnrollmentNo(ctx, candidate)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify enrollment number")
		}
		if !taken {
			return candidate, nil
		}
		s.logger.Debug("enrollment number collision, retrying",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt+1),
		)
		sequence++
	}

	// All sequential candidates collided; fall back to a timestamp suffix.
	fallback := fmt.Sprintf("%s%s%06d", courseCode, year, time.Now().UnixNano()%1000000)
	taken, err := s.repo.ExistsByEnrollmentNo(ctx, fallback)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify fallback enrollment number")
	}
	if taken {
		return "", appErrors.Clone(appErrors.ErrCollisionExhausted, "could not allocate a unique enrollment number")
	}
	s.logger.Warn("sequential allocation exhausted, using timestamp fallback",
		zap.String("course_code", courseCode),
		zap.String("enrollment_no", fallback),
	)
	return fallback, nil
}
