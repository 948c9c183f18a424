package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/response"
)

type calendarConfigService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req models.CalendarConfigRequest) (*models.ApprovalCalendarConfig, error)
	Update(ctx context.Context, claims *models.JWTClaims, req models.CalendarConfigRequest) (*models.ApprovalCalendarConfig, error)
	Me(ctx context.Context, claims *models.JWTClaims) (*models.ApprovalCalendarConfig, error)
	Deadline(ctx context.Context, partnerStateID string, ref time.Time) (*models.CalendarDeadline, error)
}

// CalendarConfigHandler manages the approval calendar of the caller's partner state.
type CalendarConfigHandler struct {
	service calendarConfigService
}

// NewCalendarConfigHandler constructs the handler.
func NewCalendarConfigHandler(svc calendarConfigService) *CalendarConfigHandler {
	return &CalendarConfigHandler{service: svc}
}

// Get godoc
// @Summary Get approval calendar
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar-config [get]
func (h *CalendarConfigHandler) Get(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	cfg, err := h.service.Me(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cfg)
}

// Create godoc
// @Summary Create approval calendar
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.CalendarConfigRequest true "Calendar"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar-config [post]
func (h *CalendarConfigHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.CalendarConfigRequest
	if !bindJSON(c, &req, "invalid calendar payload") {
		return
	}
	cfg, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// Update godoc
// @Summary Replace approval calendar
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body models.CalendarConfigRequest true "Calendar"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar-config [put]
func (h *CalendarConfigHandler) Update(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.CalendarConfigRequest
	if !bindJSON(c, &req, "invalid calendar payload") {
		return
	}
	cfg, err := h.service.Update(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cfg)
}

// Deadline godoc
// @Summary Submission and analysis deadlines
// @Tags Calendar
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /calendar-config/deadline [get]
func (h *CalendarConfigHandler) Deadline(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var ref time.Time
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be YYYY-MM-DD"))
			return
		}
		ref = parsed
	}
	deadline, err := h.service.Deadline(c.Request.Context(), claims.PartnerStateID, ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, deadline)
}
