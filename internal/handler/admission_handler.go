package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/service"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/response"
)

// AdmissionProvisioner runs the admission pipeline for one applicant.
type AdmissionProvisioner interface {
	Provision(ctx context.Context, req service.ProvisionRequest) (*service.ProvisionResult, error)
}

// AdmissionHandler exposes the provisioning endpoint.
type AdmissionHandler struct {
	admissions AdmissionProvisioner
}

// NewAdmissionHandler constructs AdmissionHandler.
func NewAdmissionHandler(admissions AdmissionProvisioner) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions}
}

// Provision godoc
// @Summary Admit a student
// @Description Allocates an enrollment number, issues credentials and commits the account and enrollee atomically against course capacity
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body service.ProvisionRequest true "Admission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/students [post]
func (h *AdmissionHandler) Provision(c *gin.Context) {
	var req service.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admission payload"))
		return
	}

	result, err := h.admissions.Provision(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
