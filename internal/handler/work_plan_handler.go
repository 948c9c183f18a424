package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/service"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/response"
)

type workPlanService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req models.WorkPlanPayload) (*models.WorkPlan, error)
	Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error)
	BeginValidation(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error)
	Approve(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error)
	Reject(ctx context.Context, claims *models.JWTClaims, id string, req models.DecisionRequest) (*models.WorkPlan, error)
	Resubmit(ctx context.Context, claims *models.JWTClaims, id string, req models.WorkPlanPayload) (*models.WorkPlan, error)
	Inactivate(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error)
	List(ctx context.Context, claims *models.JWTClaims, q service.ListQuery) ([]models.WorkPlan, *models.Pagination, error)
	AddSchedule(ctx context.Context, claims *models.JWTClaims, planID string, req models.ScheduleItemRequest) (*models.ScheduleItem, error)
	UpdateSchedule(ctx context.Context, claims *models.JWTClaims, planID, scheduleID string, req models.ScheduleItemRequest) (*models.ScheduleItem, error)
	DeleteSchedule(ctx context.Context, claims *models.JWTClaims, planID, scheduleID string) error
	DueSchedules(ctx context.Context, userID string, month, year int) ([]models.ScheduleItem, error)
}

// WorkPlanHandler exposes the work plan workflow and its schedule.
type WorkPlanHandler struct {
	service workPlanService
}

// NewWorkPlanHandler constructs the handler.
func NewWorkPlanHandler(svc workPlanService) *WorkPlanHandler {
	return &WorkPlanHandler{service: svc}
}

type planTransition func(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error)

func (h *WorkPlanHandler) transition(c *gin.Context, op planTransition) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	plan, err := op(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, plan)
}

// Create godoc
// @Summary Draft a work plan
// @Tags Work Plans
// @Accept json
// @Param payload body models.WorkPlanPayload true "Work plan"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans [post]
func (h *WorkPlanHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.WorkPlanPayload
	if !bindJSON(c, &req, "invalid work plan payload") {
		return
	}
	plan, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// List godoc
// @Summary List work plans visible to the caller
// @Tags Work Plans
// @Param status query string false "Displayed status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans [get]
func (h *WorkPlanHandler) List(c *gin.Context) {
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

// Get godoc
// @Summary Get a work plan with schedule and history
// @Tags Work Plans
// @Param id path string true "Work plan ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id} [get]
func (h *WorkPlanHandler) Get(c *gin.Context) { h.transition(c, h.service.Get) }

// Submit godoc
// @Summary Send a work plan to validation
// @Tags Work Plans
// @Param id path string true "Work plan ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/submit [patch]
func (h *WorkPlanHandler) Submit(c *gin.Context) { h.transition(c, h.service.Submit) }

// BeginValidation godoc
// @Summary Start analysing a work plan
// @Tags Work Plans
// @Param id path string true "Work plan ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/begin-validation [patch]
func (h *WorkPlanHandler) BeginValidation(c *gin.Context) { h.transition(c, h.service.BeginValidation) }

// Approve godoc
// @Summary Approve a work plan
// @Tags Work Plans
// @Param id path string true "Work plan ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/approve [patch]
func (h *WorkPlanHandler) Approve(c *gin.Context) { h.transition(c, h.service.Approve) }

// Inactivate godoc
// @Summary Inactivate a work plan at the final level
// @Tags Work Plans
// @Param id path string true "Work plan ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/inactivate [patch]
func (h *WorkPlanHandler) Inactivate(c *gin.Context) { h.transition(c, h.service.Inactivate) }

// Reject godoc
// @Summary Reject a work plan with a justification
// @Tags Work Plans
// @Accept json
// @Param id path string true "Work plan ID"
// @Param payload body models.DecisionRequest true "Justification"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/reject [patch]
func (h *WorkPlanHandler) Reject(c *gin.Context) {
	var req models.DecisionRequest
	if !bindJSON(c, &req, "invalid rejection payload") {
		return
	}
	h.transition(c, func(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
		return h.service.Reject(ctx, claims, id, req)
	})
}

// Resubmit godoc
// @Summary Correct and resubmit a rejected work plan
// @Tags Work Plans
// @Accept json
// @Param id path string true "Work plan ID"
// @Param payload body models.WorkPlanPayload true "Work plan"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/resubmit [patch]
func (h *WorkPlanHandler) Resubmit(c *gin.Context) {
	var req models.WorkPlanPayload
	if !bindJSON(c, &req, "invalid work plan payload") {
		return
	}
	h.transition(c, func(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
		return h.service.Resubmit(ctx, claims, id, req)
	})
}

// AddSchedule godoc
// @Summary Add a schedule item
// @Tags Work Plans
// @Accept json
// @Param id path string true "Work plan ID"
// @Param payload body models.ScheduleItemRequest true "Schedule item"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/schedules [post]
func (h *WorkPlanHandler) AddSchedule(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.ScheduleItemRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	item, err := h.service.AddSchedule(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateSchedule godoc
// @Summary Update a schedule item
// @Tags Work Plans
// @Accept json
// @Param id path string true "Work plan ID"
// @Param scheduleId path string true "Schedule item ID"
// @Param payload body models.ScheduleItemRequest true "Schedule item"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/{id}/schedules/{scheduleId} [put]
func (h *WorkPlanHandler) UpdateSchedule(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.ScheduleItemRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	item, err := h.service.UpdateSchedule(c.Request.Context(), claims, c.Param("id"), c.Param("scheduleId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// DeleteSchedule godoc
// @Summary Delete a schedule item
// @Tags Work Plans
// @Param id path string true "Work plan ID"
// @Param scheduleId path string true "Schedule item ID"
// @Success 204
// @Security BearerAuth
// @Router /work-plans/{id}/schedules/{scheduleId} [delete]
func (h *WorkPlanHandler) DeleteSchedule(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.service.DeleteSchedule(c.Request.Context(), claims, c.Param("id"), c.Param("scheduleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DueSchedules godoc
// @Summary Schedule items the caller must report for a month
// @Tags Work Plans
// @Param month query int true "Month"
// @Param year query int true "Year"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /work-plans/due-schedules [get]
func (h *WorkPlanHandler) DueSchedules(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	month, err := optionalInt(c, "month")
	if err != nil {
		response.Error(c, err)
		return
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	if month == nil || year == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month and year are required"))
		return
	}
	items, err := h.service.DueSchedules(c.Request.Context(), claims.UserID, *month, *year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
