package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

type mockSequenceRepo struct {
	count    int
	countErr error
	taken    map[string]bool
	takenAll bool
	probes   []string
}

func (m *mockSequenceRepo) CountByCourseAndYear(ctx context.Context, courseCode, year string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockSequenceRepo) ExistsByEnrollmentNo(ctx context.Context, enrollmentNo string) (bool, error) {
	m.probes = append(m.probes, enrollmentNo)
	if m.takenAll {
		return true, nil
	}
	return m.taken[enrollmentNo], nil
}

func TestAllocatorFirstCandidate(t *testing.T) {
	repo := &mockSequenceRepo{count: 41}
	svc := NewAllocatorService(repo, 10, zap.NewNop())

	got, err := svc.Allocate(context.Background(), "NUR", "2025")
	require.NoError(t, err)
	assert.Equal(t, "NUR2025042", got)
}

func TestAllocatorPadsSequence(t *testing.T) {
	repo := &mockSequenceRepo{count: 0}
	svc := NewAllocatorService(repo, 10, zap.NewNop())

	got, err := svc.Allocate(context.Background(), "NUR", "2025")
	require.NoError(t, err)
	assert.Equal(t, "NUR2025001", got)
}

func TestAllocatorSkipsCollisions(t *testing.T) {
	repo := &mockSequenceRepo{
		count: 4,
		taken: map[string]bool{"NUR2025005": true, "NUR2025006": true},
	}
	svc := NewAllocatorService(repo, 10, zap.NewNop())

	got, err := svc.Allocate(context.Background(), "NUR", "2025")
	require.NoError(t, err)
	assert.Equal(t, "NUR2025007", got)
	assert.Equal(t, []string{"NUR2025005", "NUR2025006", "NUR2025007"}, repo.probes)
}

func TestAllocatorTimestampFallback(t *testing.T) {
	taken := make(map[string]bool)
	for _, c := range []string{"NUR2025001", "NUR2025002", "NUR2025003"} {
		taken[c] = true
	}
	repo := &mockSequenceRepo{taken: taken}
	svc := NewAllocatorService(repo, 3, zap.NewNop())

	got, err := svc.Allocate(context.Background(), "NUR", "2025")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "NUR2025"))
	// 3 sequential attempts plus the fallback probe.
	assert.Len(t, repo.probes, 4)
	assert.Len(t, got, len("NUR2025")+6)
}

func TestAllocatorExhausted(t *testing.T) {
	repo := &mockSequenceRepo{takenAll: true}
	svc := NewAllocatorService(repo, 3, zap.NewNop())

	_, err := svc.Allocate(context.Background(), "NUR", "2025")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCollisionExhausted.Code, appErr.Code)
}

func TestAllocatorCountError(t *testing.T) {
	repo := &mockSequenceRepo{countErr: errors.New("boom")}
	svc := NewAllocatorService(repo, 10, zap.NewNop())

	_, err := svc.Allocate(context.Background(), "NUR", "2025")
	require.Error(t, err)
}
