package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/service"
	"github.com/noah-isme/scholarship-approval-api/pkg/response"
)

type registrationService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req models.RegistrationPayload) (*models.Scholar, error)
	Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error)
	BeginValidation(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error)
	Approve(ctx context.Context, claims *models.JWTClaims, id string, req models.ApproveRegistrationRequest) (*models.Scholar, error)
	Reject(ctx context.Context, claims *models.JWTClaims, id string, req models.DecisionRequest) (*models.Scholar, error)
	Resubmit(ctx context.Context, claims *models.JWTClaims, id string, req models.RegistrationPayload) (*models.Scholar, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error)
	List(ctx context.Context, claims *models.JWTClaims, q service.ListQuery) ([]models.Scholar, *models.Pagination, error)
}

// RegistrationHandler exposes the scholar registration workflow.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(svc registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

func (h *RegistrationHandler) respond(c *gin.Context, scholar *models.Scholar, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, scholar)
}

// Create godoc
// @Summary Start a scholar registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body models.RegistrationPayload true "Registration"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.RegistrationPayload
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	scholar, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scholar)
}

// List godoc
// @Summary List registrations visible to the caller
// @Tags Registrations
// @Produce json
// @Param status query string false "Displayed status"
// @Param search query string false "Applicant name"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
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
// @Summary Get a registration with its decision history
// @Tags Registrations
// @Param id path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	scholar, err := h.service.Get(c.Request.Context(), claims, c.Param("id"))
	h.respond(c, scholar, err)
}

// Submit godoc
// @Summary Send a registration to validation
// @Tags Registrations
// @Param id path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id}/submit [patch]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	scholar, err := h.service.Submit(c.Request.Context(), claims, c.Param("id"))
	h.respond(c, scholar, err)
}

// BeginValidation godoc
// @Summary Start analysing a registration
// @Tags Registrations
// @Param id path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id}/begin-validation [patch]
func (h *RegistrationHandler) BeginValidation(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	scholar, err := h.service.BeginValidation(c.Request.Context(), claims, c.Param("id"))
	h.respond(c, scholar, err)
}

// Approve godoc
// @Summary Approve a registration
// @Description The final approval may grant an access profile to the applicant.
// @Tags Registrations
// @Accept json
// @Param id path string true "Scholar ID"
// @Param payload body models.ApproveRegistrationRequest false "Access profile"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id}/approve [patch]
func (h *RegistrationHandler) Approve(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.ApproveRegistrationRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid approval payload") {
		return
	}
	scholar, err := h.service.Approve(c.Request.Context(), claims, c.Param("id"), req)
	h.respond(c, scholar, err)
}

// Reject godoc
// @Summary Reject a registration with a justification
// @Tags Registrations
// @Accept json
// @Param id path string true "Scholar ID"
// @Param payload body models.DecisionRequest true "Justification"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id}/reject [patch]
func (h *RegistrationHandler) Reject(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.DecisionRequest
	if !bindJSON(c, &req, "invalid rejection payload") {
		return
	}
	scholar, err := h.service.Reject(c.Request.Context(), claims, c.Param("id"), req)
	h.respond(c, scholar, err)
}

// Resubmit godoc
// @Summary Correct and resubmit a rejected registration
// @Tags Registrations
// @Accept json
// @Param id path string true "Scholar ID"
// @Param payload body models.RegistrationPayload true "Registration"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /registrations/{id}/resubmit [patch]
func (h *RegistrationHandler) Resubmit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.RegistrationPayload
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	scholar, err := h.service.Resubmit(c.Request.Context(), claims, c.Param("id"), req)
	h.respond(c, scholar, err)
}
