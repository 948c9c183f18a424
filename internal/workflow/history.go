package workflow

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

// DefaultMaxJustification bounds rejection justifications.
const DefaultMaxJustification = 3000

// Recorder builds immutable validation history records.
type Recorder struct {
	now              func() time.Time
	newID            func() string
	maxJustification int
}

// NewRecorder constructs a recorder. A nil clock uses time.Now in UTC.
func NewRecorder(now func() time.Time, maxJustification int) *Recorder {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if maxJustification <= 0 {
		maxJustification = DefaultMaxJustification
	}
	return &Recorder{now: now, newID: uuid.NewString, maxJustification: maxJustification}
}

// ValidateJustification checks a rejection reason without recording anything.
func (r *Recorder) ValidateJustification(justification string) (string, error) {
	trimmed := strings.TrimSpace(justification)
	if trimmed == "" {
		return "", appErrors.ErrJustificationRequired
	}
	if utf8.RuneCountInString(trimmed) > r.maxJustification {
		return "", appErrors.ErrJustificationTooLong
	}
	return trimmed, nil
}

// Record creates the history entry for a decision taken by actorID at level.
func (r *Recorder) Record(kind models.ArtifactKind, artifactID string, level models.Level, actorID string, outcome models.ApprovalStatus, justification string) (models.ValidationHistory, error) {
	entry := models.ValidationHistory{
		ID:           r.newID(),
		ArtifactKind: kind,
		ArtifactID:   artifactID,
		Level:        level,
		UserID:       actorID,
		Outcome:      outcome,
		CreatedAt:    r.now(),
	}
	switch outcome {
	case models.StatusRejected:
		reason, err := r.ValidateJustification(justification)
		if err != nil {
			return models.ValidationHistory{}, err
		}
		entry.Justification = &reason
	case models.StatusApproved:
	default:
		return models.ValidationHistory{}, appErrors.Clone(appErrors.ErrValidation, "history outcome must be APPROVED or REJECTED")
	}
	return entry, nil
}
