package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/models"
	"github.com/Nagarajan160520/Nursing-backend-sub000/internal/service"
	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
	"github.com/Nagarajan160520/Nursing-backend-sub000/pkg/response"
)

// EnrolleeHandler exposes enrollee endpoints.
type EnrolleeHandler struct {
	enrollees *service.EnrolleeService
}

// NewEnrolleeHandler constructs EnrolleeHandler.
func NewEnrolleeHandler(enrollees *service.EnrolleeService) *EnrolleeHandler {
	return &EnrolleeHandler{enrollees: enrollees}
}

func enrolleeFilterFromQuery(c *gin.Context) models.EnrolleeFilter {
	var filter models.EnrolleeFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.CourseID = c.Query("courseId")
	filter.AdmissionYear = c.Query("year")
	if status := c.Query("status"); status != "" {
		filter.Status = models.EnrolleeStatus(status)
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List enrollees
// @Tags Enrollees
// @Produce json
// @Param search query string false "Search by name or enrollment number"
// @Param courseId query string false "Filter by course"
// @Param year query string false "Filter by admission year"
// @Param status query string false "Filter by lifecycle status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *EnrolleeHandler) List(c *gin.Context) {
	enrollees, pagination, err := h.enrollees.List(c.Request.Context(), enrolleeFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollees, pagination)
}

// Get godoc
// @Summary Get enrollee detail
// @Tags Enrollees
// @Produce json
// @Param id path string true "Enrollee ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id} [get]
func (h *EnrolleeHandler) Get(c *gin.Context) {
	enrollee, err := h.enrollees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollee, nil)
}

// UpdateStatus godoc
// @Summary Update enrollee status
// @Tags Enrollees
// @Accept json
// @Produce json
// @Param id path string true "Enrollee ID"
// @Param payload body service.UpdateEnrolleeStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id}/status [patch]
func (h *EnrolleeHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateEnrolleeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollee, err := h.enrollees.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollee, nil)
}

// ExportCSV godoc
// @Summary Export enrollee roster
// @Tags Enrollees
// @Produce text/csv
// @Param courseId query string false "Filter by course"
// @Param year query string false "Filter by admission year"
// @Success 200 {string} string "CSV payload"
// @Router /admin/students/export [get]
func (h *EnrolleeHandler) ExportCSV(c *gin.Context) {
	data, err := h.enrollees.ExportCSV(c.Request.Context(), enrolleeFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("enrollees-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// AdmissionLetter godoc
// @Summary Download admission letter
// @Tags Enrollees
// @Produce application/pdf
// @Param id path string true "Enrollee ID"
// @Success 200 {string} string "PDF payload"
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id}/letter [get]
func (h *EnrolleeHandler) AdmissionLetter(c *gin.Context) {
	data, err := h.enrollees.AdmissionLetter(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="admission-letter.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
