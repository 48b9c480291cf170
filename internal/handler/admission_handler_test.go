package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/service"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/response"
)

type admissionServiceMock struct {
	result  *service.ProvisionResult
	err     error
	lastReq service.ProvisionRequest
	called  bool
}

func (m *admissionServiceMock) Provision(ctx context.Context, req service.ProvisionRequest) (*service.ProvisionResult, error) {
	m.called = true
	m.lastReq = req
	return m.result, m.err
}

func admissionBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"first_name":     "Priya",
		"last_name":      "Sharma",
		"personal_email": "priya.sharma@example.com",
		"phone":          "9876543210",
		"course_id":      "c1",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(payload)
}

func TestAdmissionHandlerProvision(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &admissionServiceMock{
		result: &service.ProvisionResult{
			Enrollee: models.Enrollee{EnrollmentNo: "NUR2025001"},
			Credentials: service.IssuedCredentials{
				EnrollmentNo: "NUR2025001",
				CollegeEmail: "priyas001@nursingcollege.ac.in",
				Password:     "Aa1!secure",
				Note:         "rotate on first login",
			},
		},
	}
	handler := NewAdmissionHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/students", admissionBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Provision(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.called)
	assert.Equal(t, "c1", mockSvc.lastReq.CourseID)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
	data := envelope.Data.(map[string]interface{})
	creds := data["credentials"].(map[string]interface{})
	assert.Equal(t, "NUR2025001", creds["enrollment_no"])
	assert.Equal(t, "Aa1!secure", creds["password"])
}

func TestAdmissionHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &admissionServiceMock{}
	handler := NewAdmissionHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/students", bytes.NewBufferString(`{"first_name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Provision(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.called)
}

func TestAdmissionHandlerCapacityExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &admissionServiceMock{err: appErrors.Clone(appErrors.ErrCapacityExceeded, "")}
	handler := NewAdmissionHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/students", admissionBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Provision(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, envelope.Error.Code)
}

func TestAdmissionHandlerCourseNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &admissionServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	handler := NewAdmissionHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/students", admissionBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Provision(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
