package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/repository"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type mockSeatRepo struct {
	reserveErr error
	releaseErr error
	reserved   []string
	released   []string
}

func (m *mockSeatRepo) ReserveSeat(ctx context.Context, courseID string) error {
	if m.reserveErr != nil {
		return m.reserveErr
	}
	m.reserved = append(m.reserved, courseID)
	return nil
}

func (m *mockSeatRepo) ReleaseSeat(ctx context.Context, courseID string) error {
	if m.releaseErr != nil {
		return m.releaseErr
	}
	m.released = append(m.released, courseID)
	return nil
}

func TestCapacityReserveSeat(t *testing.T) {
	repo := &mockSeatRepo{}
	svc := NewCapacityService(repo, zap.NewNop())

	require.NoError(t, svc.ReserveSeat(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, repo.reserved)
}

func TestCapacityReserveSeatFull(t *testing.T) {
	repo := &mockSeatRepo{reserveErr: repository.ErrSeatLimitReached}
	svc := NewCapacityService(repo, zap.NewNop())

	err := svc.ReserveSeat(context.Background(), "c1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
}

func TestCapacityReserveSeatUnknownCourse(t *testing.T) {
	repo := &mockSeatRepo{reserveErr: sql.ErrNoRows}
	svc := NewCapacityService(repo, zap.NewNop())

	err := svc.ReserveSeat(context.Background(), "missing")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCapacityReleaseSeatFailureSurfaces(t *testing.T) {
	repo := &mockSeatRepo{releaseErr: errors.New("db down")}
	svc := NewCapacityService(repo, zap.NewNop())

	require.Error(t, svc.ReleaseSeat(context.Background(), "c1"))
}
