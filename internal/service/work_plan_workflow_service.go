package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/workflow"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

type workPlanStore interface {
	FindByID(ctx context.Context, id string) (*models.WorkPlan, error)
	FindActiveByUser(ctx context.Context, userID string) (*models.WorkPlan, error)
	Create(ctx context.Context, plan *models.WorkPlan) error
	PayloadHook(id string, payload models.WorkPlanPayload) repository.TxHook
	List(ctx context.Context, filter models.ApprovalListFilter) ([]models.WorkPlan, int, error)
	DueSchedules(ctx context.Context, planID string, month, year int) ([]models.ScheduleItem, error)
	FindSchedule(ctx context.Context, id string) (*models.ScheduleItem, error)
	CreateSchedule(ctx context.Context, item *models.ScheduleItem) error
	UpdateSchedule(ctx context.Context, item *models.ScheduleItem) error
	DeleteSchedule(ctx context.Context, id string) error
}

// WorkPlanWorkflowService runs work plans through regional and state validation
// and manages their monthly schedule.
type WorkPlanWorkflowService struct {
	plans     workPlanStore
	terms     termLookup
	runner    *approvalRunner
	engine    *workflow.Engine
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewWorkPlanWorkflowService wires the work plan workflow.
func NewWorkPlanWorkflowService(plans workPlanStore, terms termLookup, deps RunnerDeps, validate *validator.Validate, maxJustification int, now func() time.Time) *WorkPlanWorkflowService {
	if validate == nil {
		validate = validator.New()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	engine := workflow.NewEngine(models.KindWorkPlan, workflow.WorkPlanChain,
		workflow.WithClock(now),
		workflow.WithMaxJustification(maxJustification),
		workflow.WithInactivation())
	return &WorkPlanWorkflowService{
		plans:     plans,
		terms:     terms,
		runner:    newApprovalRunner(engine, deps, false),
		engine:    engine,
		validator: validate,
		logger:    deps.Logger,
		now:       now,
	}
}

// Create drafts the caller's work plan. A scholar holds at most one plan that
// is not inactive.
func (s *WorkPlanWorkflowService) Create(ctx context.Context, claims *models.JWTClaims, req models.WorkPlanPayload) (*models.WorkPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work plan payload")
	}
	if _, err := s.terms.FindSignedByUser(ctx, claims.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "a signed term of membership is required to create a work plan")
		}
		return nil, appErrors.Internal(err, "failed to load term of membership")
	}
	if _, err := s.plans.FindActiveByUser(ctx, claims.UserID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an active work plan already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check active work plan")
	}

	level, err := s.engine.InitialLevel(claims.Level)
	if err != nil {
		return nil, err
	}
	plan := &models.WorkPlan{
		UserID:             claims.UserID,
		Justification:      req.Justification,
		GeneralObjectives:  req.GeneralObjectives,
		SpecificObjectives: req.SpecificObjectives,
		ApprovalState: models.ApprovalState{
			Status:       models.StatusPendingSubmission,
			CurrentLevel: level,
			Version:      1,
		},
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an active work plan already exists")
		}
		return nil, appErrors.Internal(err, "failed to create work plan")
	}
	plan.OwnerName = claims.FullName
	plan.PartnerStateID = claims.PartnerStateID
	plan.RegionalPartnerID = claims.RegionalPartnerID
	plan.OwnerCity = claims.City
	s.logger.Info("work plan created", zap.String("work_plan_id", plan.ID), zap.String("user_id", claims.UserID))
	return plan, nil
}

func (s *WorkPlanWorkflowService) load(ctx context.Context, id string) (*models.WorkPlan, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "work plan")
	}
	return plan, nil
}

func (s *WorkPlanWorkflowService) loadOwned(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the owner may change the work plan")
	}
	return plan, nil
}

func (s *WorkPlanWorkflowService) decide(ctx context.Context, claims *models.JWTClaims, name workflow.TransitionName, plan *models.WorkPlan, op engineOp, fx effects) (*models.WorkPlan, error) {
	t, err := s.runner.run(ctx, claims, name, plan.Artifact(), op, fx)
	if err != nil {
		return nil, err
	}
	out := *plan
	out.ApprovalState = t.After
	return &out, nil
}

// Submit sends a drafted plan into validation.
func (s *WorkPlanWorkflowService) Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
	plan, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionSubmit, plan, func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Submit(a)
	}, effects{})
}

// BeginValidation marks the plan as under analysis at the caller's level.
func (s *WorkPlanWorkflowService) BeginValidation(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionBeginValidation, plan, func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.BeginValidation(a, actorOf(claims), cal)
	}, effects{})
}

// Approve records the caller's approval.
func (s *WorkPlanWorkflowService) Approve(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionApprove, plan, func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Approve(a, actorOf(claims), cal)
	}, effects{})
}

// Reject records the caller's rejection and notifies the owner.
func (s *WorkPlanWorkflowService) Reject(ctx context.Context, claims *models.JWTClaims, id string, req models.DecisionRequest) (*models.WorkPlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionReject, plan, func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Reject(a, actorOf(claims), cal, req.Justification)
	}, effects{
		after: func(ctx context.Context, t workflow.Transition) {
			s.runner.notify(ctx, NotificationMessage{
				UserID:   plan.UserID,
				Template: models.TemplateWorkPlanRejected,
				Data: map[string]string{
					"level":         string(t.History.Level),
					"justification": *t.History.Justification,
				},
			})
		},
	})
}

// Resubmit rewrites the plan's objectives and returns it to validation.
func (s *WorkPlanWorkflowService) Resubmit(ctx context.Context, claims *models.JWTClaims, id string, req models.WorkPlanPayload) (*models.WorkPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid work plan payload")
	}
	plan, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	out, err := s.decide(ctx, claims, workflow.TransitionResubmit, plan, func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Resubmit(a)
	}, effects{
		hooks: func(context.Context, workflow.Transition) ([]repository.TxHook, error) {
			return []repository.TxHook{s.plans.PayloadHook(plan.ID, req)}, nil
		},
	})
	if err != nil {
		return nil, err
	}
	out.Justification = req.Justification
	out.GeneralObjectives = req.GeneralObjectives
	out.SpecificObjectives = req.SpecificObjectives
	return out, nil
}

// Inactivate cancels a plan. Only state level validators may do so.
func (s *WorkPlanWorkflowService) Inactivate(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionInactivate, plan, func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Inactivate(a, actorOf(claims))
	}, effects{})
}

// Get returns a plan with its schedule and decision history.
func (s *WorkPlanWorkflowService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.WorkPlan, error) {
	plan, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(claims, plan.Artifact()) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "work plan is outside your jurisdiction")
	}
	history, err := s.runner.history(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.History = history
	plan.DisplayedStatus = workflow.DisplayedStatus(plan.ApprovalState, claims.Level)
	return plan, nil
}

// List returns the plans visible to the caller with displayed statuses.
func (s *WorkPlanWorkflowService) List(ctx context.Context, claims *models.JWTClaims, q ListQuery) ([]models.WorkPlan, *models.Pagination, error) {
	filter := q.filterFor(claims)
	filter.Month, filter.Year = nil, nil
	items, total, err := s.plans.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list work plans")
	}
	projected := workflow.ProjectListing(items, claims.Level, func(p *models.WorkPlan) *models.ApprovalState { return &p.ApprovalState })
	return projected, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

var scheduleEditableStatuses = []models.ApprovalStatus{models.StatusPendingSubmission, models.StatusRejected}

func (s *WorkPlanWorkflowService) loadEditable(ctx context.Context, claims *models.JWTClaims, planID string) (*models.WorkPlan, error) {
	plan, err := s.loadOwned(ctx, claims, planID)
	if err != nil {
		return nil, err
	}
	if !statusAllowed(plan.Status, scheduleEditableStatuses) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "the schedule can only change while the plan is a draft or rejected")
	}
	return plan, nil
}

func (s *WorkPlanWorkflowService) loadScheduleOf(ctx context.Context, planID, scheduleID string) (*models.ScheduleItem, error) {
	item, err := s.plans.FindSchedule(ctx, scheduleID)
	if err != nil {
		return nil, loadError(err, "schedule item")
	}
	if item.WorkPlanID != planID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule item not found")
	}
	return item, nil
}

// AddSchedule appends an action to the plan's schedule.
func (s *WorkPlanWorkflowService) AddSchedule(ctx context.Context, claims *models.JWTClaims, planID string, req models.ScheduleItemRequest) (*models.ScheduleItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule item")
	}
	if _, err := s.loadEditable(ctx, claims, planID); err != nil {
		return nil, err
	}
	item := &models.ScheduleItem{
		WorkPlanID: planID,
		Month:      req.Month,
		Year:       req.Year,
		Action:     req.Action,
		IsFormer:   req.IsFormer,
		Status:     models.ActionInProgress,
	}
	if err := s.plans.CreateSchedule(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create schedule item")
	}
	return item, nil
}

// UpdateSchedule edits a schedule item.
func (s *WorkPlanWorkflowService) UpdateSchedule(ctx context.Context, claims *models.JWTClaims, planID, scheduleID string, req models.ScheduleItemRequest) (*models.ScheduleItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule item")
	}
	if _, err := s.loadEditable(ctx, claims, planID); err != nil {
		return nil, err
	}
	item, err := s.loadScheduleOf(ctx, planID, scheduleID)
	if err != nil {
		return nil, err
	}
	item.Month = req.Month
	item.Year = req.Year
	item.Action = req.Action
	item.IsFormer = req.IsFormer
	if err := s.plans.UpdateSchedule(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to update schedule item")
	}
	return item, nil
}

// DeleteSchedule removes a schedule item, detaching any report actions that covered it.
func (s *WorkPlanWorkflowService) DeleteSchedule(ctx context.Context, claims *models.JWTClaims, planID, scheduleID string) error {
	if _, err := s.loadEditable(ctx, claims, planID); err != nil {
		return err
	}
	if _, err := s.loadScheduleOf(ctx, planID, scheduleID); err != nil {
		return err
	}
	if err := s.plans.DeleteSchedule(ctx, scheduleID); err != nil {
		return appErrors.Internal(err, "failed to delete schedule item")
	}
	return nil
}

// DueSchedules returns the schedule items a scholar must report on for
// month/year. Only an approved plan has a binding schedule.
func (s *WorkPlanWorkflowService) DueSchedules(ctx context.Context, userID string, month, year int) ([]models.ScheduleItem, error) {
	plan, err := s.plans.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "an approved work plan is required")
		}
		return nil, appErrors.Internal(err, "failed to load work plan")
	}
	if plan.Status != models.StatusApproved {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "an approved work plan is required")
	}
	items, err := s.plans.DueSchedules(ctx, plan.ID, month, year)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load due schedule items")
	}
	return items, nil
}
