package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dsicola/academico-api/internal/service"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
	"github.com/dsicola/academico-api/pkg/response"
)

// DocumentHandler exposes the official-document derivation endpoints.
type DocumentHandler struct {
	documents    *service.DocumentService
	reportCards  *service.ReportCardService
	gradesheets  *service.GradesheetService
	certificates *service.CertificateService
	metrics      *service.MetricsService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService, reportCards *service.ReportCardService, gradesheets *service.GradesheetService, certificates *service.CertificateService, metrics *service.MetricsService) *DocumentHandler {
	return &DocumentHandler{
		documents:    documents,
		reportCards:  reportCards,
		gradesheets:  gradesheets,
		certificates: certificates,
		metrics:      metrics,
	}
}

// Transcript godoc
// @Summary Derive the histórico escolar of a student
// @Tags Documentos
// @Produce json
// @Param alunoId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /alunos/{alunoId}/historico [get]
func (h *DocumentHandler) Transcript(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	transcript, err := h.documents.Transcript(c.Request.Context(), scope, c.Param("alunoId"))
	if err != nil {
		h.countBlocked(err, "DOCUMENTOS")
		response.Error(c, err)
		return
	}
	h.metrics.CountDocumentIssued("historico")
	response.JSON(c, http.StatusOK, transcript, nil)
}

// ReportCard godoc
// @Summary Derive the boletim of a student for one academic year
// @Tags Documentos
// @Produce json
// @Param alunoId path string true "Student ID"
// @Param anoLetivoId path string true "Academic year ID"
// @Success 200 {object} response.Envelope
// @Router /alunos/{alunoId}/boletim/{anoLetivoId} [get]
func (h *DocumentHandler) ReportCard(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	card, err := h.reportCards.Generate(c.Request.Context(), scope, c.Param("alunoId"), c.Param("anoLetivoId"))
	if err != nil {
		h.countBlocked(err, "DOCUMENTOS")
		response.Error(c, err)
		return
	}
	h.metrics.CountDocumentIssued("boletim")
	response.JSON(c, http.StatusOK, card, nil)
}

// Gradesheet godoc
// @Summary Derive the pauta of a teaching plan
// @Tags Documentos
// @Produce json
// @Param planoEnsinoId path string true "Teaching plan ID"
// @Success 200 {object} response.Envelope
// @Router /planos-ensino/{planoEnsinoId}/pauta [get]
func (h *DocumentHandler) Gradesheet(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sheet, err := h.gradesheets.Generate(c.Request.Context(), scope, c.Param("planoEnsinoId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountDocumentIssued("pauta")
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Certificate godoc
// @Summary Derive the completion certificate of a student
// @Tags Documentos
// @Produce json
// @Param alunoId path string true "Student ID"
// @Param contexto query string true "Course or class ID the completion refers to"
// @Success 200 {object} response.Envelope
// @Router /alunos/{alunoId}/certificado [get]
func (h *DocumentHandler) Certificate(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	contexto := c.Query("contexto")
	if contexto == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "query parameter contexto (curso ou classe) is required"))
		return
	}
	cert, err := h.certificates.Issue(c.Request.Context(), scope, c.Param("alunoId"), contexto)
	if err != nil {
		h.countBlocked(err, "CERTIFICADOS")
		response.Error(c, err)
		return
	}
	h.metrics.CountDocumentIssued("certificado")
	response.JSON(c, http.StatusOK, cert, nil)
}

// Verify godoc
// @Summary Verify a certificate code
// @Tags Documentos
// @Produce json
// @Param codigo path string true "Verification code"
// @Success 200 {object} response.Envelope
// @Router /certificados/verificar/{codigo} [get]
func (h *DocumentHandler) Verify(c *gin.Context) {
	verification, err := h.certificates.Verify(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verification, nil)
}

func (h *DocumentHandler) countBlocked(err error, operation string) {
	if appErr := appErrors.FromError(err); appErr != nil && appErr.Status == http.StatusForbidden {
		h.metrics.CountBlockedAttempt(operation)
	}
}
