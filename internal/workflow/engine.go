package workflow

import (
	"fmt"
	"time"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

// TransitionName identifies an engine operation.
type TransitionName string

const (
	TransitionSubmit          TransitionName = "submit"
	TransitionBeginValidation TransitionName = "begin_validation"
	TransitionApprove         TransitionName = "approve"
	TransitionReject          TransitionName = "reject"
	TransitionResubmit        TransitionName = "resubmit"
	TransitionInactivate      TransitionName = "inactivate"
)

// Actor is the identity taking a decision.
type Actor struct {
	UserID string
	Level  models.Level
}

// Transition is the result of applying an operation to an artifact. Before and
// After are values; the input artifact is never modified.
type Transition struct {
	Name    TransitionName
	Kind    models.ArtifactKind
	ID      string
	Actor   Actor
	Before  models.ApprovalState
	After   models.ApprovalState
	History *models.ValidationHistory
	// Final is set when the last level approved the artifact.
	Final bool
}

// Engine is the approval state machine for one artifact kind.
type Engine struct {
	kind           models.ArtifactKind
	chain          Chain
	now            func() time.Time
	recorder       *Recorder
	maxJustify     int
	allowsInactive bool
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMaxJustification overrides the rejection justification limit.
func WithMaxJustification(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxJustify = n
		}
	}
}

// WithInactivation enables the administrative cancel operation.
func WithInactivation() Option {
	return func(e *Engine) { e.allowsInactive = true }
}

// NewEngine builds an engine for kind approved through chain. It panics on an
// invalid chain since chains are fixed at wiring time.
func NewEngine(kind models.ArtifactKind, chain Chain, opts ...Option) *Engine {
	if err := chain.Validate(); err != nil {
		panic(fmt.Sprintf("workflow: %s: %v", kind, err))
	}
	e := &Engine{
		kind:       kind,
		chain:      append(Chain(nil), chain...),
		now:        func() time.Time { return time.Now().UTC() },
		maxJustify: DefaultMaxJustification,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.recorder = NewRecorder(e.now, e.maxJustify)
	return e
}

// Kind returns the artifact kind handled by the engine.
func (e *Engine) Kind() models.ArtifactKind { return e.kind }

// Chain returns a copy of the approval chain.
func (e *Engine) Chain() Chain { return append(Chain(nil), e.chain...) }

// Recorder exposes the history recorder, mainly for justification pre-checks.
func (e *Engine) Recorder() *Recorder { return e.recorder }

// InitialLevel returns the level a new artifact starts at. Submitters holding
// a level of their own are reviewed by the tier above them.
func (e *Engine) InitialLevel(submitter models.Level) (models.Level, error) {
	if submitter.IsZero() || submitter.Below(e.chain.First()) {
		return e.chain.First(), nil
	}
	for _, l := range e.chain {
		if submitter.Below(l) {
			return l, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrForbidden, "no approval level above the submitter")
}

// Submit moves a draft into validation.
func (e *Engine) Submit(a models.Artifact) (Transition, error) {
	if a.State.Status != models.StatusPendingSubmission {
		return Transition{}, appErrors.ErrInvalidTransition
	}
	after := a.State
	now := e.now()
	after.Status = models.StatusPendingValidation
	after.SubmittedAt = &now
	return e.transition(TransitionSubmit, a, Actor{UserID: a.SubjectID}, after), nil
}

// BeginValidation marks the artifact as being analysed at its current level.
func (e *Engine) BeginValidation(a models.Artifact, actor Actor, cal *models.ApprovalCalendarConfig) (Transition, error) {
	if err := e.guardDecision(a, actor, cal, models.StatusPendingValidation); err != nil {
		return Transition{}, err
	}
	after := a.State
	after.Status = models.StatusInValidation
	return e.transition(TransitionBeginValidation, a, actor, after), nil
}

// Approve records the current level's approval and advances the artifact.
// Approval at the last level of the chain is final.
func (e *Engine) Approve(a models.Artifact, actor Actor, cal *models.ApprovalCalendarConfig) (Transition, error) {
	if err := e.guardDecision(a, actor, cal, models.StatusPendingValidation, models.StatusInValidation); err != nil {
		return Transition{}, err
	}
	level := a.State.CurrentLevel
	history, err := e.recorder.Record(e.kind, a.ID, level, actor.UserID, models.StatusApproved, "")
	if err != nil {
		return Transition{}, err
	}

	after := a.State.WithSlot(level, history.ID)
	decidedAt := history.CreatedAt
	after.LastDecisionAt = &decidedAt

	final := false
	if next, ok := e.chain.Next(level); ok {
		after.CurrentLevel = next
		after.Status = models.StatusPendingValidation
	} else {
		after.Status = models.StatusApproved
		final = true
	}

	t := e.transition(TransitionApprove, a, actor, after)
	t.History = &history
	t.Final = final
	return t, nil
}

// Reject records the current level's rejection. The level is left unchanged.
func (e *Engine) Reject(a models.Artifact, actor Actor, cal *models.ApprovalCalendarConfig, justification string) (Transition, error) {
	if err := e.guardDecision(a, actor, cal, models.StatusPendingValidation, models.StatusInValidation); err != nil {
		return Transition{}, err
	}
	level := a.State.CurrentLevel
	history, err := e.recorder.Record(e.kind, a.ID, level, actor.UserID, models.StatusRejected, justification)
	if err != nil {
		return Transition{}, err
	}

	after := a.State.WithSlot(level, history.ID)
	decidedAt := history.CreatedAt
	after.LastDecisionAt = &decidedAt
	after.Status = models.StatusRejected

	t := e.transition(TransitionReject, a, actor, after)
	t.History = &history
	return t, nil
}

// Resubmit sends an edited artifact back to validation at its current level.
func (e *Engine) Resubmit(a models.Artifact) (Transition, error) {
	switch a.State.Status {
	case models.StatusRejected, models.StatusPendingValidation, models.StatusPendingSubmission:
	default:
		return Transition{}, appErrors.ErrInvalidTransition
	}
	after := a.State
	now := e.now()
	after.Status = models.StatusPendingValidation
	after.SubmittedAt = &now
	return e.transition(TransitionResubmit, a, Actor{UserID: a.SubjectID}, after), nil
}

// Inactivate cancels the artifact administratively. Only the last level may do it.
func (e *Engine) Inactivate(a models.Artifact, actor Actor) (Transition, error) {
	if !e.allowsInactive {
		return Transition{}, appErrors.ErrInvalidTransition
	}
	if a.State.Status == models.StatusApproved || a.State.Status == models.StatusInactive {
		return Transition{}, appErrors.ErrInvalidTransition
	}
	if actor.Level != e.chain.Last() {
		return Transition{}, appErrors.ErrForbiddenLevelMismatch
	}
	after := a.State
	now := e.now()
	after.Status = models.StatusInactive
	after.LastDecisionAt = &now
	return e.transition(TransitionInactivate, a, actor, after), nil
}

// guardDecision applies the reviewer guards in order: self-review, status,
// level, analysis window. A nil calendar skips the window check.
func (e *Engine) guardDecision(a models.Artifact, actor Actor, cal *models.ApprovalCalendarConfig, allowed ...models.ApprovalStatus) error {
	if actor.UserID == a.SubjectID {
		return appErrors.ErrSelfReviewForbidden
	}
	if !statusIn(a.State.Status, allowed) || !e.chain.Contains(a.State.CurrentLevel) {
		return appErrors.ErrInvalidTransition
	}
	if actor.Level != a.State.CurrentLevel {
		return appErrors.ErrForbiddenLevelMismatch
	}
	if cal != nil {
		return CheckAnalysisWindow(cal, a.ReferenceDate, e.now())
	}
	return nil
}

func (e *Engine) transition(name TransitionName, a models.Artifact, actor Actor, after models.ApprovalState) Transition {
	after.DisplayedStatus = ""
	return Transition{
		Name:   name,
		Kind:   e.kind,
		ID:     a.ID,
		Actor:  actor,
		Before: a.State,
		After:  after,
	}
}

func statusIn(s models.ApprovalStatus, allowed []models.ApprovalStatus) bool {
	for _, candidate := range allowed {
		if s == candidate {
			return true
		}
	}
	return false
}
