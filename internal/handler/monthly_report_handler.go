package handler

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/service"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/export"
	"github.com/noah-isme/scholarship-approval-api/pkg/response"
)

type monthlyReportService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req models.CreateMonthlyReportRequest) (*models.MonthlyReport, error)
	Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error)
	BeginValidation(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error)
	Approve(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error)
	Reject(ctx context.Context, claims *models.JWTClaims, id string, req models.DecisionRequest) (*models.MonthlyReport, error)
	Resubmit(ctx context.Context, claims *models.JWTClaims, id string, req models.ResubmitMonthlyReportRequest, doc *service.DocumentUpload) (*models.MonthlyReport, error)
	AttachDocument(ctx context.Context, claims *models.JWTClaims, id string, doc service.DocumentUpload) (*models.MonthlyReport, error)
	Remove(ctx context.Context, claims *models.JWTClaims, id string) error
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error)
	List(ctx context.Context, claims *models.JWTClaims, q service.ListQuery) ([]models.MonthlyReport, *models.Pagination, error)
	ListByScholar(ctx context.Context, claims *models.JWTClaims, scholarID string) ([]models.MonthlyReport, error)
	Export(ctx context.Context, claims *models.JWTClaims, q service.ListQuery, format export.Format) ([]byte, string, error)
}

// MonthlyReportHandler exposes the monthly report approval workflow.
type MonthlyReportHandler struct {
	service monthlyReportService
}

// NewMonthlyReportHandler constructs the handler.
func NewMonthlyReportHandler(svc monthlyReportService) *MonthlyReportHandler {
	return &MonthlyReportHandler{service: svc}
}

// Create godoc
// @Summary File a monthly report
// @Tags Monthly Reports
// @Accept json
// @Produce json
// @Param payload body models.CreateMonthlyReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports [post]
func (h *MonthlyReportHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.CreateMonthlyReportRequest
	if !bindJSON(c, &req, "invalid monthly report payload") {
		return
	}
	report, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// List godoc
// @Summary List monthly reports visible to the caller
// @Tags Monthly Reports
// @Produce json
// @Param status query string false "Displayed status"
// @Param search query string false "Scholar name"
// @Param month query int false "Month"
// @Param year query int false "Year"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports [get]
func (h *MonthlyReportHandler) List(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	q, err := listQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), claims, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	listed(c, items, pagination)
}

// Export godoc
// @Summary Export monthly reports
// @Tags Monthly Reports
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /monthly-reports/export [get]
func (h *MonthlyReportHandler) Export(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	q, err := listQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	body, contentType, err := h.service.Export(c.Request.Context(), claims, q, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "monthly-reports."+string(format), contentType, body)
}

// ListByScholar godoc
// @Summary List every report of a scholar
// @Tags Monthly Reports
// @Produce json
// @Param scholarId path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/scholar/{scholarId} [get]
func (h *MonthlyReportHandler) ListByScholar(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	items, err := h.service.ListByScholar(c.Request.Context(), claims, c.Param("scholarId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	listed(c, items, nil)
}

// Get godoc
// @Summary Get a monthly report with its decision history
// @Tags Monthly Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id} [get]
func (h *MonthlyReportHandler) Get(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	report, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Remove godoc
// @Summary Remove a report awaiting validation
// @Tags Monthly Reports
// @Param id path string true "Report ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id} [delete]
func (h *MonthlyReportHandler) Remove(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.service.Remove(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type reportTransition func(ctx context.Context, claims *models.JWTClaims, id string) (*models.MonthlyReport, error)

func (h *MonthlyReportHandler) transition(op reportTransition) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := requireClaims(c)
		if claims == nil {
			return
		}
		report, err := op(c.Request.Context(), claims, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, report)
	}
}

// Submit godoc
// @Summary Send a draft report to validation
// @Tags Monthly Reports
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id}/submit [patch]
func (h *MonthlyReportHandler) Submit(c *gin.Context) { h.transition(h.service.Submit)(c) }

// BeginValidation godoc
// @Summary Start analysing a report at the caller's level
// @Tags Monthly Reports
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id}/begin-validation [patch]
func (h *MonthlyReportHandler) BeginValidation(c *gin.Context) {
	h.transition(h.service.BeginValidation)(c)
}

// Approve godoc
// @Summary Approve a report at the caller's level
// @Tags Monthly Reports
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id}/approve [patch]
func (h *MonthlyReportHandler) Approve(c *gin.Context) { h.transition(h.service.Approve)(c) }

// Reject godoc
// @Summary Reject a report with a justification
// @Tags Monthly Reports
// @Accept json
// @Param id path string true "Report ID"
// @Param payload body models.DecisionRequest true "Justification"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id}/reject [patch]
func (h *MonthlyReportHandler) Reject(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.DecisionRequest
	if !bindJSON(c, &req, "invalid rejection payload") {
		return
	}
	report, err := h.service.Reject(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Resubmit godoc
// @Summary Resubmit a rejected report
// @Description Accepts a JSON body, or multipart with a "payload" JSON field and an optional "document" file.
// @Tags Monthly Reports
// @Accept json,mpfd
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id}/resubmit [patch]
func (h *MonthlyReportHandler) Resubmit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.ResubmitMonthlyReportRequest
	var doc *service.DocumentUpload

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resubmission payload"))
			return
		}
		if header, err := c.FormFile("document"); err == nil {
			upload, closeFn, err := openUpload(header)
			if err != nil {
				response.Error(c, err)
				return
			}
			defer closeFn()
			doc = upload
		}
	} else if !bindJSON(c, &req, "invalid resubmission payload") {
		return
	}

	report, err := h.service.Resubmit(c.Request.Context(), claims, c.Param("id"), req, doc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// AttachDocument godoc
// @Summary Attach the supporting document
// @Tags Monthly Reports
// @Accept mpfd
// @Param id path string true "Report ID"
// @Param document formData file true "Document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /monthly-reports/{id}/document [post]
func (h *MonthlyReportHandler) AttachDocument(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	header, err := c.FormFile("document")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "document file required"))
		return
	}
	upload, closeFn, err := openUpload(header)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	report, err := h.service.AttachDocument(c.Request.Context(), claims, c.Param("id"), *upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

func openUpload(header *multipart.FileHeader) (*service.DocumentUpload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to read uploaded document")
	}
	return &service.DocumentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}, func() { _ = file.Close() }, nil
}
