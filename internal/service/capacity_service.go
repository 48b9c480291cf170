package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/repository"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type seatRepository interface {
	ReserveSeat(ctx context.Context, courseID string) error
	ReleaseSeat(ctx context.Context, courseID string) error
}

// CapacityService guards course seat counters. Reservation is a single
// conditional increment at the storage layer, never a read-then-write pair.
type CapacityService struct {
	repo   seatRepository
	logger *zap.Logger
}

// NewCapacityService constructs the capacity manager.
func NewCapacityService(repo seatRepository, logger *zap.Logger) *CapacityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CapacityService{repo: repo, logger: logger}
}

// ReserveSeat claims one seat on the course or fails with CapacityExceeded.
func (s *CapacityService) ReserveSeat(ctx context.Context, courseID string) error {
	if err := s.repo.ReserveSeat(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrSeatLimitReached) {
			return appErrors.Clone(appErrors.ErrCapacityExceeded, "")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve seat")
	}
	return nil
}

// ReleaseSeat returns a reserved seat during compensation. A failure here is
// logged loudly: it means a seat leaked and needs operator attention.
func (s *CapacityService) ReleaseSeat(ctx context.Context, courseID string) error {
	if err := s.repo.ReleaseSeat(ctx, courseID); err != nil {
		s.logger.Error("seat release failed, counter may have leaked",
			zap.String("course_id", courseID),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release seat")
	}
	return nil
}
