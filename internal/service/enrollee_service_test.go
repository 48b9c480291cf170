package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
)

type mockEnrolleeRepo struct {
	enrollees map[string]models.EnrolleeDetail
	statuses  map[string]models.EnrolleeStatus
}

func (m *mockEnrolleeRepo) List(ctx context.Context, filter models.EnrolleeFilter) ([]models.EnrolleeDetail, int, error) {
	list := make([]models.EnrolleeDetail, 0, len(m.enrollees))
	for _, e := range m.enrollees {
		list = append(list, e)
	}
	return list, len(list), nil
}

func (m *mockEnrolleeRepo) FindByID(ctx context.Context, id string) (*models.EnrolleeDetail, error) {
	if e, ok := m.enrollees[id]; ok {
		if status, changed := m.statuses[id]; changed {
			e.Status = status
		}
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrolleeRepo) UpdateStatus(ctx context.Context, id string, status models.EnrolleeStatus) error {
	if m.statuses == nil {
		m.statuses = make(map[string]models.EnrolleeStatus)
	}
	m.statuses[id] = status
	return nil
}

func sampleEnrollee() models.EnrolleeDetail {
	return models.EnrolleeDetail{
		Enrollee: models.Enrollee{
			ID:            "e1",
			EnrollmentNo:  "NUR2025001",
			AccountID:     "a1",
			CourseID:      "c1",
			FirstName:     "Priya",
			LastName:      "Sharma",
			PersonalEmail: "priya.sharma@example.com",
			CollegeEmail:  "priyas001@nursingcollege.ac.in",
			Phone:         "9876543210",
			AdmissionYear: "2025",
			CurrentTerm:   1,
			Status:        models.EnrolleeStatusActive,
		},
		CourseCode: "NUR",
		CourseName: "B.Sc Nursing",
	}
}

func TestEnrolleeUpdateStatus(t *testing.T) {
	repo := &mockEnrolleeRepo{enrollees: map[string]models.EnrolleeDetail{"e1": sampleEnrollee()}}
	svc := NewEnrolleeService(repo, "Nursing College", nil, zap.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), "e1", UpdateEnrolleeStatusRequest{Status: models.EnrolleeStatusOnLeave})
	require.NoError(t, err)
	assert.Equal(t, models.EnrolleeStatusOnLeave, updated.Status)
}

func TestEnrolleeUpdateStatusUnknownValue(t *testing.T) {
	repo := &mockEnrolleeRepo{enrollees: map[string]models.EnrolleeDetail{"e1": sampleEnrollee()}}
	svc := NewEnrolleeService(repo, "Nursing College", nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "e1", UpdateEnrolleeStatusRequest{Status: "GRADUATED"})
	require.Error(t, err)
	assert.Empty(t, repo.statuses)
}

func TestEnrolleeUpdateStatusMissing(t *testing.T) {
	repo := &mockEnrolleeRepo{}
	svc := NewEnrolleeService(repo, "Nursing College", nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "missing", UpdateEnrolleeStatusRequest{Status: models.EnrolleeStatusSuspended})
	require.Error(t, err)
}

func TestEnrolleeExportCSV(t *testing.T) {
	repo := &mockEnrolleeRepo{enrollees: map[string]models.EnrolleeDetail{"e1": sampleEnrollee()}}
	svc := NewEnrolleeService(repo, "Nursing College", nil, zap.NewNop())

	data, err := svc.ExportCSV(context.Background(), models.EnrolleeFilter{})
	require.NoError(t, err)

	csv := string(data)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Enrollment No")
	assert.Contains(t, lines[1], "NUR2025001")
	assert.Contains(t, lines[1], "priyas001@nursingcollege.ac.in")
}

func TestEnrolleeAdmissionLetter(t *testing.T) {
	repo := &mockEnrolleeRepo{enrollees: map[string]models.EnrolleeDetail{"e1": sampleEnrollee()}}
	svc := NewEnrolleeService(repo, "Nursing College", nil, zap.NewNop())

	data, err := svc.AdmissionLetter(context.Background(), "e1")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data[:5]), "%PDF-"))
}
