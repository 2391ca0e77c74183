package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/complianceops/case-management-api/internal/dto"
	"github.com/complianceops/case-management-api/internal/models"
	"github.com/complianceops/case-management-api/internal/service"
	appErrors "github.com/complianceops/case-management-api/pkg/errors"
	"github.com/complianceops/case-management-api/pkg/response"
)

type caseService interface {
	List(ctx context.Context, filter models.CaseFilter) ([]models.Case, error)
	Search(ctx context.Context, criteria []dto.SearchCriterion) ([]models.Case, error)
	Get(ctx context.Context, caseID string) (*models.Case, error)
	Create(ctx context.Context, req service.CreateCaseRequest) (*models.Case, error)
	Update(ctx context.Context, caseID string, upd models.CaseUpdate) (*models.Case, error)
	EmailBank(ctx context.Context, caseID string) (string, error)
	UploadEvidence(ctx context.Context, caseID string, content []byte, originalName string) (string, error)
	ProcessAlertFile(ctx context.Context, filename string, size int64, contentType string) ([]models.Case, error)
}

type exportService interface {
	Export(ctx context.Context, format string) (*service.ExportResult, error)
}

// CaseHandler exposes the case-management HTTP surface.
type CaseHandler struct {
	cases   caseService
	exports exportService
}

// NewCaseHandler constructs CaseHandler.
func NewCaseHandler(cases caseService, exports exportService) *CaseHandler {
	return &CaseHandler{cases: cases, exports: exports}
}

// Register wires the case routes onto the router group.
func (h *CaseHandler) Register(r gin.IRouter) {
	cases := r.Group("/cases")
	cases.GET("", h.List)
	cases.POST("", h.Create)
	cases.POST("/searches", h.Search)
	cases.POST("/upload-alert", h.UploadAlert)
	cases.GET("/export", h.Export)
	cases.GET("/:caseId", h.Get)
	cases.PUT("/:caseId", h.Update)
	cases.POST("/:caseId/email", h.EmailBank)
	cases.POST("/:caseId/upload", h.UploadEvidence)
}

// List godoc
// @Summary List cases, optionally filtered by exact-match predicates
// @Tags Cases
// @Produce json
// @Param status query string false "Case status"
// @Param type query string false "Case type"
// @Param owner query string false "Owner"
// @Param bank query string false "Bank"
// @Param dateFrom query string false "Created-at lower bound (inclusive)"
// @Param dateTo query string false "Created-at upper bound (inclusive)"
// @Success 200 {array} models.Case
// @Router /cases [get]
func (h *CaseHandler) List(c *gin.Context) {
	filter := models.CaseFilter{
		Status: models.CaseStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		Type:   strings.TrimSpace(c.Query("type")),
		Owner:  strings.TrimSpace(c.Query("owner")),
		Bank:   strings.TrimSpace(c.Query("bank")),
	}
	if raw := c.Query("dateFrom"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid dateFrom"))
			return
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("dateTo"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid dateTo"))
			return
		}
		filter.DateTo = &t
	}

	cases, err := h.cases.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cases)
}

// Search godoc
// @Summary Search cases by criteria list
// @Tags Cases
// @Accept json
// @Produce json
// @Param payload body dto.SearchCasesRequest true "Search payload"
// @Success 200 {array} models.Case
// @Router /cases/searches [post]
func (h *CaseHandler) Search(c *gin.Context) {
	var req dto.SearchCasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search payload"))
		return
	}
	cases, err := h.cases.Search(c.Request.Context(), req.Criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cases)
}

// Get godoc
// @Summary Get a case by its business identifier
// @Tags Cases
// @Produce json
// @Param caseId path string true "Case ID"
// @Success 200 {object} models.Case
// @Router /cases/{caseId} [get]
func (h *CaseHandler) Get(c *gin.Context) {
	item, err := h.cases.Get(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create a case
// @Tags Cases
// @Accept json
// @Produce json
// @Param payload body service.CreateCaseRequest true "Case payload"
// @Success 201 {object} models.Case
// @Router /cases [post]
func (h *CaseHandler) Create(c *gin.Context) {
	var req service.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid case payload"))
		return
	}
	item, err := h.cases.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Partially update a case
// @Tags Cases
// @Accept json
// @Produce json
// @Param caseId path string true "Case ID"
// @Param payload body models.CaseUpdate true "Partial case payload"
// @Success 200 {object} models.Case
// @Router /cases/{caseId} [put]
func (h *CaseHandler) Update(c *gin.Context) {
	var upd models.CaseUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid case payload"))
		return
	}
	item, err := h.cases.Update(c.Request.Context(), c.Param("caseId"), upd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// EmailBank godoc
// @Summary Simulate sending an email to the bank for a case
// @Tags Cases
// @Produce json
// @Param caseId path string true "Case ID"
// @Success 200 {object} dto.EmailResponse
// @Router /cases/{caseId}/email [post]
func (h *CaseHandler) EmailBank(c *gin.Context) {
	message, err := h.cases.EmailBank(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EmailResponse{Message: message})
}

// UploadEvidence godoc
// @Summary Upload an evidence file for a case
// @Tags Cases
// @Accept multipart/form-data
// @Produce json
// @Param caseId path string true "Case ID"
// @Param file formData file true "Evidence file"
// @Success 200 {object} dto.UploadEvidenceResponse
// @Router /cases/{caseId}/upload [post]
func (h *CaseHandler) UploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	if fileHeader.Size == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrEmptyFile, ""))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file"))
		return
	}

	filename, err := h.cases.UploadEvidence(c.Request.Context(), c.Param("caseId"), content, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UploadEvidenceResponse{
		Filename: filename,
		Message:  "File uploaded successfully",
	})
}

// UploadAlert godoc
// @Summary Bulk-create cases from an uploaded alert spreadsheet/CSV
// @Tags Cases
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Alert file"
// @Success 200 {object} dto.AlertUploadResponse
// @Router /cases/upload-alert [post]
func (h *CaseHandler) UploadAlert(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	created, err := h.cases.ProcessAlertFile(c.Request.Context(), fileHeader.Filename, fileHeader.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AlertUploadResponse{
		Message:      "Alert file processed successfully",
		CasesCreated: len(created),
		Cases:        created,
		Filename:     fileHeader.Filename,
	})
}

// Export godoc
// @Summary Export the case roster as CSV or PDF
// @Tags Cases
// @Produce octet-stream
// @Param format query string false "csv or pdf (default csv)"
// @Router /cases/export [get]
func (h *CaseHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	result, err := h.exports.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// parseDateTime accepts RFC3339 and the bare ISO local form the upstream
// UI sends.
func parseDateTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}
