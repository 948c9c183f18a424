package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/workflow"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
	"github.com/noah-isme/scholarship-approval-api/pkg/events"
)

type transitionStore interface {
	Apply(ctx context.Context, kind models.ArtifactKind, id string, expectedVersion int, after models.ApprovalState, history *models.ValidationHistory, hooks ...repository.TxHook) error
	History(ctx context.Context, kind models.ArtifactKind, id string) ([]models.ValidationHistory, error)
}

type calendarReader interface {
	FindByPartnerState(ctx context.Context, partnerStateID string) (*models.ApprovalCalendarConfig, error)
}

type notifier interface {
	Dispatch(ctx context.Context, msg NotificationMessage)
}

// RunnerDeps are the collaborators shared by every workflow service.
type RunnerDeps struct {
	Store     transitionStore
	Calendars calendarReader
	Audit     auditWriter
	Events    events.Publisher
	Notifier  notifier
	Metrics   *MetricsService
	Logger    *zap.Logger
}

// effects customise one transition run. Hooks execute inside the state write
// transaction; after runs once the transaction committed.
type effects struct {
	hooks func(ctx context.Context, t workflow.Transition) ([]repository.TxHook, error)
	after func(ctx context.Context, t workflow.Transition)
}

type engineOp func(a models.Artifact, cal *models.ApprovalCalendarConfig) (workflow.Transition, error)

// approvalRunner drives load, decide, persist and post-commit effects for one
// artifact kind.
type approvalRunner struct {
	engine        *workflow.Engine
	deps          RunnerDeps
	enforceWindow bool
}

func newApprovalRunner(engine *workflow.Engine, deps RunnerDeps, enforceWindow bool) *approvalRunner {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Events == nil {
		deps.Events = events.NoopPublisher{}
	}
	return &approvalRunner{engine: engine, deps: deps, enforceWindow: enforceWindow}
}

// calendarFor reads the partner-state calendar straight from storage. A missing
// configuration disables the window check.
func (r *approvalRunner) calendarFor(ctx context.Context, a models.Artifact) (*models.ApprovalCalendarConfig, error) {
	if !r.enforceWindow || r.deps.Calendars == nil || a.PartnerStateID == "" {
		return nil, nil
	}
	cfg, err := r.deps.Calendars.FindByPartnerState(ctx, a.PartnerStateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Internal(err, "failed to load approval calendar")
	}
	return cfg, nil
}

func (r *approvalRunner) run(ctx context.Context, claims *models.JWTClaims, name workflow.TransitionName, a models.Artifact, op engineOp, fx effects) (workflow.Transition, error) {
	kind := r.engine.Kind()

	// Owners fall through to the engine, which reports self-review.
	if guardsJurisdiction(name) && claims.UserID != a.SubjectID && !withinJurisdiction(claims, a) {
		r.deps.Metrics.RecordTransition(kind, string(name), OutcomeRejected)
		return workflow.Transition{}, appErrors.Clone(appErrors.ErrForbidden, "artifact is outside your jurisdiction")
	}

	var cal *models.ApprovalCalendarConfig
	if decides(name) {
		var err error
		if cal, err = r.calendarFor(ctx, a); err != nil {
			r.deps.Metrics.RecordTransition(kind, string(name), OutcomeFailed)
			return workflow.Transition{}, err
		}
	}

	t, err := op(a, cal)
	if err != nil {
		r.deps.Metrics.RecordTransition(kind, string(name), OutcomeRejected)
		return workflow.Transition{}, err
	}

	var hooks []repository.TxHook
	if fx.hooks != nil {
		if hooks, err = fx.hooks(ctx, t); err != nil {
			r.deps.Metrics.RecordTransition(kind, string(name), OutcomeRejected)
			return workflow.Transition{}, err
		}
	}

	if err := r.deps.Store.Apply(ctx, kind, a.ID, a.State.Version, t.After, t.History, hooks...); err != nil {
		return workflow.Transition{}, r.persistError(kind, name, err)
	}
	t.After.Version = a.State.Version + 1

	r.afterCommit(ctx, t)
	if fx.after != nil {
		fx.after(ctx, t)
	}
	r.deps.Metrics.RecordTransition(kind, string(name), OutcomeCommitted)
	return t, nil
}

func (r *approvalRunner) persistError(kind models.ArtifactKind, name workflow.TransitionName, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		r.deps.Metrics.RecordTransition(kind, string(name), OutcomeConflict)
		return appErrors.Clone(appErrors.ErrInvalidTransition, "artifact was modified concurrently")
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		r.deps.Metrics.RecordTransition(kind, string(name), OutcomeRejected)
		return appErr
	}
	r.deps.Metrics.RecordTransition(kind, string(name), OutcomeFailed)
	r.deps.Logger.Error("failed to persist transition",
		zap.String("kind", string(kind)),
		zap.String("transition", string(name)),
		zap.Error(err))
	return appErrors.Internal(err, "failed to persist transition")
}

func (r *approvalRunner) afterCommit(ctx context.Context, t workflow.Transition) {
	log := r.deps.Logger.With(
		zap.String("kind", string(t.Kind)),
		zap.String("artifact_id", t.ID),
		zap.String("transition", string(t.Name)))

	if r.deps.Audit != nil {
		before, _ := json.Marshal(t.Before)
		after, _ := json.Marshal(t.After)
		actor := t.Actor.UserID
		id := t.ID
		if err := r.deps.Audit.Create(ctx, &models.AuditLog{
			UserID:     &actor,
			Action:     models.AuditActionTransition,
			Resource:   string(t.Kind),
			ResourceID: &id,
			OldValues:  before,
			NewValues:  after,
		}); err != nil {
			log.Warn("failed to record transition audit log", zap.Error(err))
		}
	}

	event := events.DecisionEvent{
		Kind:         string(t.Kind),
		ArtifactID:   t.ID,
		Transition:   string(t.Name),
		ActorID:      t.Actor.UserID,
		ActorLevel:   string(t.Actor.Level),
		Status:       string(t.After.Status),
		CurrentLevel: string(t.After.CurrentLevel),
		Final:        t.Final,
		OccurredAt:   time.Now().UTC(),
	}
	if t.History != nil {
		event.HistoryID = t.History.ID
		event.OccurredAt = t.History.CreatedAt
	}
	if err := r.deps.Events.Publish(ctx, event); err != nil {
		log.Warn("failed to publish decision event", zap.Error(err))
	}

	log.Info("workflow transition committed",
		zap.String("actor_id", t.Actor.UserID),
		zap.String("status", string(t.After.Status)),
		zap.String("current_level", string(t.After.CurrentLevel)),
		zap.Bool("final", t.Final))
}

func (r *approvalRunner) notify(ctx context.Context, msg NotificationMessage) {
	if r.deps.Notifier == nil {
		return
	}
	r.deps.Notifier.Dispatch(ctx, msg)
}

func (r *approvalRunner) history(ctx context.Context, id string) ([]models.ValidationHistory, error) {
	items, err := r.deps.Store.History(ctx, r.engine.Kind(), id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load validation history")
	}
	return items, nil
}

func decides(name workflow.TransitionName) bool {
	switch name {
	case workflow.TransitionBeginValidation, workflow.TransitionApprove, workflow.TransitionReject:
		return true
	}
	return false
}

func guardsJurisdiction(name workflow.TransitionName) bool {
	return decides(name) || name == workflow.TransitionInactivate
}

// actorOf turns the token claims into the engine's actor.
func actorOf(claims *models.JWTClaims) workflow.Actor {
	return workflow.Actor{UserID: claims.UserID, Level: claims.Level}
}

// loadError maps a repository lookup failure for the named resource.
func loadError(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	}
	return appErrors.Internal(err, "failed to load "+resource)
}
