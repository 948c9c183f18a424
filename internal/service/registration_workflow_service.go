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

type registrationStore interface {
	FindByID(ctx context.Context, id string) (*models.Scholar, error)
	FindByUserID(ctx context.Context, userID string) (*models.Scholar, error)
	Create(ctx context.Context, scholar *models.Scholar) error
	PayloadHook(id string, payload models.RegistrationPayload) repository.TxHook
	List(ctx context.Context, filter models.ApprovalListFilter) ([]models.Scholar, int, error)
}

type accessProfileGranter interface {
	AccessProfileHook(userID, accessProfileID string) repository.TxHook
}

// RegistrationWorkflowService runs scholar registrations through county and
// regional validation.
type RegistrationWorkflowService struct {
	scholars  registrationStore
	users     accessProfileGranter
	runner    *approvalRunner
	engine    *workflow.Engine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationWorkflowService wires the registration workflow.
func NewRegistrationWorkflowService(scholars registrationStore, users accessProfileGranter, deps RunnerDeps, validate *validator.Validate, maxJustification int, now func() time.Time) *RegistrationWorkflowService {
	if validate == nil {
		validate = validator.New()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	engine := workflow.NewEngine(models.KindRegistration, workflow.RegistrationChain,
		workflow.WithClock(now),
		workflow.WithMaxJustification(maxJustification))
	return &RegistrationWorkflowService{
		scholars:  scholars,
		users:     users,
		runner:    newApprovalRunner(engine, deps, false),
		engine:    engine,
		validator: validate,
		logger:    deps.Logger,
	}
}

// Create drafts the caller's registration. A user registers once.
func (s *RegistrationWorkflowService) Create(ctx context.Context, claims *models.JWTClaims, req models.RegistrationPayload) (*models.Scholar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if _, err := s.scholars.FindByUserID(ctx, claims.UserID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Internal(err, "failed to check registration")
	}

	level, err := s.engine.InitialLevel(claims.Level)
	if err != nil {
		return nil, err
	}
	scholar := &models.Scholar{
		UserID:        claims.UserID,
		Axle:          req.Axle,
		City:          req.City,
		Address:       req.Address,
		Bank:          req.Bank,
		Agency:        req.Agency,
		AccountType:   req.AccountType,
		AccountNumber: req.AccountNumber,
		TrainingArea:  req.TrainingArea,
		HighestDegree: req.HighestDegree,
		IsFormer:      req.IsFormer,
		ApprovalState: models.ApprovalState{
			Status:       models.StatusPendingSubmission,
			CurrentLevel: level,
			Version:      1,
		},
	}
	if err := s.scholars.Create(ctx, scholar); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "registration already exists")
		}
		return nil, appErrors.Internal(err, "failed to create registration")
	}
	scholar.OwnerName = claims.FullName
	scholar.PartnerStateID = claims.PartnerStateID
	scholar.RegionalPartnerID = claims.RegionalPartnerID
	scholar.OwnerCity = claims.City
	s.logger.Info("registration created", zap.String("scholar_id", scholar.ID), zap.String("user_id", claims.UserID))
	return scholar, nil
}

func (s *RegistrationWorkflowService) load(ctx context.Context, id string) (*models.Scholar, error) {
	scholar, err := s.scholars.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "registration")
	}
	return scholar, nil
}

func (s *RegistrationWorkflowService) loadOwned(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error) {
	scholar, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if scholar.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the applicant may change the registration")
	}
	return scholar, nil
}

func (s *RegistrationWorkflowService) decide(ctx context.Context, claims *models.JWTClaims, name workflow.TransitionName, scholar *models.Scholar, op engineOp, fx effects) (*models.Scholar, error) {
	t, err := s.runner.run(ctx, claims, name, scholar.Artifact(), op, fx)
	if err != nil {
		return nil, err
	}
	out := *scholar
	out.ApprovalState = t.After
	return &out, nil
}

// Submit sends a drafted registration into validation.
func (s *RegistrationWorkflowService) Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error) {
	scholar, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionSubmit, scholar, func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Submit(a)
	}, effects{})
}

// BeginValidation marks the registration as under analysis at the caller's level.
func (s *RegistrationWorkflowService) BeginValidation(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error) {
	scholar, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionBeginValidation, scholar, func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.BeginValidation(a, actorOf(claims), cal)
	}, effects{})
}

// Approve records the caller's approval. On final approval the applicant is
// granted accessProfileID, when given, in the same transaction.
func (s *RegistrationWorkflowService) Approve(ctx context.Context, claims *models.JWTClaims, id string, req models.ApproveRegistrationRequest) (*models.Scholar, error) {
	scholar, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionApprove, scholar, func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Approve(a, actorOf(claims), cal)
	}, effects{
		hooks: func(_ context.Context, t workflow.Transition) ([]repository.TxHook, error) {
			if !t.Final || req.AccessProfileID == nil || *req.AccessProfileID == "" {
				return nil, nil
			}
			return []repository.TxHook{s.users.AccessProfileHook(scholar.UserID, *req.AccessProfileID)}, nil
		},
	})
}

// Reject records the caller's rejection and notifies the applicant.
func (s *RegistrationWorkflowService) Reject(ctx context.Context, claims *models.JWTClaims, id string, req models.DecisionRequest) (*models.Scholar, error) {
	scholar, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, claims, workflow.TransitionReject, scholar, func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Reject(a, actorOf(claims), cal, req.Justification)
	}, effects{
		after: func(ctx context.Context, t workflow.Transition) {
			s.runner.notify(ctx, NotificationMessage{
				UserID:   scholar.UserID,
				Template: models.TemplateRegistrationRejected,
				Data: map[string]string{
					"level":         string(t.History.Level),
					"justification": *t.History.Justification,
				},
			})
		},
	})
}

// Resubmit rewrites the registration and returns it to validation.
func (s *RegistrationWorkflowService) Resubmit(ctx context.Context, claims *models.JWTClaims, id string, req models.RegistrationPayload) (*models.Scholar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	scholar, err := s.loadOwned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	out, err := s.decide(ctx, claims, workflow.TransitionResubmit, scholar, func(a models.Artifact, _ *models.ApprovalCalendarConfig) (workflow.Transition, error) {
		return s.engine.Resubmit(a)
	}, effects{
		hooks: func(context.Context, workflow.Transition) ([]repository.TxHook, error) {
			return []repository.TxHook{s.scholars.PayloadHook(scholar.ID, req)}, nil
		},
	})
	if err != nil {
		return nil, err
	}
	out.Axle = req.Axle
	out.City = req.City
	out.Address = req.Address
	out.Bank = req.Bank
	out.Agency = req.Agency
	out.AccountType = req.AccountType
	out.AccountNumber = req.AccountNumber
	out.TrainingArea = req.TrainingArea
	out.HighestDegree = req.HighestDegree
	out.IsFormer = req.IsFormer
	return out, nil
}

// Get returns a registration with its decision history.
func (s *RegistrationWorkflowService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Scholar, error) {
	scholar, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(claims, scholar.Artifact()) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "registration is outside your jurisdiction")
	}
	history, err := s.runner.history(ctx, id)
	if err != nil {
		return nil, err
	}
	scholar.History = history
	scholar.DisplayedStatus = workflow.DisplayedStatus(scholar.ApprovalState, claims.Level)
	return scholar, nil
}

// List returns the registrations visible to the caller with displayed statuses.
func (s *RegistrationWorkflowService) List(ctx context.Context, claims *models.JWTClaims, q ListQuery) ([]models.Scholar, *models.Pagination, error) {
	filter := q.filterFor(claims)
	filter.Month, filter.Year = nil, nil
	items, total, err := s.scholars.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list registrations")
	}
	projected := workflow.ProjectListing(items, claims.Level, func(sc *models.Scholar) *models.ApprovalState { return &sc.ApprovalState })
	return projected, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
