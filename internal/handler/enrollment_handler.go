package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsicola/academico-api/internal/service"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
	"github.com/dsicola/academico-api/pkg/response"
)

// EnrollmentHandler exposes subject-enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// Create godoc
// @Summary Enroll a student in a subject
// @Tags Inscricoes
// @Accept json
// @Produce json
// @Param payload body service.EnrollSubjectRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /inscricoes [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.EnrollSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountEnrollment()
	response.Created(c, enrollment)
}

// CreateBulk godoc
// @Summary Enroll a student in several subjects at once
// @Tags Inscricoes
// @Accept json
// @Produce json
// @Param payload body service.EnrollBulkRequest true "Bulk enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /inscricoes/lote [post]
func (h *EnrollmentHandler) CreateBulk(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.EnrollBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enrollments.EnrollBulk(c.Request.Context(), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Delete godoc
// @Summary Cancel a subject enrollment
// @Tags Inscricoes
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 204
// @Router /inscricoes/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.enrollments.Unenroll(c.Request.Context(), scope, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
