package models

import (
	"fmt"
	"strings"
	"time"
)

// Level is an approval tier. Levels are totally ordered: COUNTY < REGIONAL < STATE.
type Level string

const (
	LevelCounty   Level = "COUNTY"
	LevelRegional Level = "REGIONAL"
	LevelState    Level = "STATE"
)

// Rank returns the position of the level in the approval order; zero means no level.
func (l Level) Rank() int {
	switch l {
	case LevelCounty:
		return 1
	case LevelRegional:
		return 2
	case LevelState:
		return 3
	default:
		return 0
	}
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool { return l.Rank() > 0 }

// IsZero reports whether the level is unset.
func (l Level) IsZero() bool { return l == "" }

// Below reports whether l is strictly lower than other.
func (l Level) Below(other Level) bool { return l.Rank() < other.Rank() }

// ParseLevel parses a level name case-insensitively. Empty input yields the zero level.
func ParseLevel(raw string) (Level, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	l := Level(strings.ToUpper(strings.TrimSpace(raw)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", raw)
	}
	return l, nil
}

// ApprovalStatus is the workflow status shared by every approvable artifact.
type ApprovalStatus string

const (
	StatusPendingSubmission ApprovalStatus = "PENDING_SUBMISSION"
	StatusPendingValidation ApprovalStatus = "PENDING_VALIDATION"
	StatusInValidation      ApprovalStatus = "IN_VALIDATION"
	StatusApproved          ApprovalStatus = "APPROVED"
	StatusRejected          ApprovalStatus = "REJECTED"
	StatusInactive          ApprovalStatus = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPendingSubmission, StatusPendingValidation, StatusInValidation, StatusApproved, StatusRejected, StatusInactive:
		return true
	}
	return false
}

// ArtifactKind tags the approvable entity type.
type ArtifactKind string

const (
	KindMonthlyReport ArtifactKind = "monthly_report"
	KindRegistration  ArtifactKind = "registration"
	KindWorkPlan      ArtifactKind = "work_plan"
)

// ApprovalState is the workflow portion embedded in every approvable row.
type ApprovalState struct {
	Status            ApprovalStatus `db:"status" json:"status"`
	CurrentLevel      Level          `db:"current_level" json:"current_level"`
	CountyHistoryID   *string        `db:"county_history_id" json:"county_history_id,omitempty"`
	RegionalHistoryID *string        `db:"regional_history_id" json:"regional_history_id,omitempty"`
	StateHistoryID    *string        `db:"state_history_id" json:"state_history_id,omitempty"`
	SubmittedAt       *time.Time     `db:"submitted_at" json:"submitted_at,omitempty"`
	LastDecisionAt    *time.Time     `db:"last_decision_at" json:"last_decision_at,omitempty"`
	Version           int            `db:"version" json:"version"`

	// DisplayedStatus is derived per viewer at read time and never stored.
	DisplayedStatus ApprovalStatus `db:"-" json:"displayed_status,omitempty"`
}

// Slot returns the history reference held for level.
func (s ApprovalState) Slot(level Level) *string {
	switch level {
	case LevelCounty:
		return s.CountyHistoryID
	case LevelRegional:
		return s.RegionalHistoryID
	case LevelState:
		return s.StateHistoryID
	}
	return nil
}

// WithSlot returns a copy of s whose slot for level references historyID.
func (s ApprovalState) WithSlot(level Level, historyID string) ApprovalState {
	id := historyID
	switch level {
	case LevelCounty:
		s.CountyHistoryID = &id
	case LevelRegional:
		s.RegionalHistoryID = &id
	case LevelState:
		s.StateHistoryID = &id
	}
	return s
}

// PopulatedSlots counts the filled history slots.
func (s ApprovalState) PopulatedSlots() int {
	n := 0
	for _, l := range []Level{LevelCounty, LevelRegional, LevelState} {
		if s.Slot(l) != nil {
			n++
		}
	}
	return n
}

// Artifact is the kind-agnostic view of an approvable row the engine works on.
type Artifact struct {
	Kind              ArtifactKind
	ID                string
	SubjectID         string
	PartnerStateID    string
	RegionalPartnerID *string
	City              *string
	// ReferenceDate anchors the analysis window (report creation date).
	ReferenceDate time.Time
	State         ApprovalState
}

// ValidationHistory is an immutable record of one approve/reject decision.
type ValidationHistory struct {
	ID            string         `db:"id" json:"id"`
	ArtifactKind  ArtifactKind   `db:"artifact_kind" json:"artifact_kind"`
	ArtifactID    string         `db:"artifact_id" json:"artifact_id"`
	Level         Level          `db:"level" json:"level"`
	UserID        string         `db:"user_id" json:"user_id"`
	Outcome       ApprovalStatus `db:"outcome" json:"outcome"`
	Justification *string        `db:"justification" json:"justification,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// Jurisdiction locates a user or artifact in the partner-state hierarchy.
type Jurisdiction struct {
	PartnerStateID    string  `json:"partner_state_id"`
	RegionalPartnerID *string `json:"regional_partner_id,omitempty"`
	City              *string `json:"city,omitempty"`
}

// ScopeFor narrows the jurisdiction to what a viewer at level may see. County
// viewers see their city, regional viewers their regional partner and state
// viewers the whole partner state.
func (j Jurisdiction) ScopeFor(level Level) Jurisdiction {
	scoped := Jurisdiction{PartnerStateID: j.PartnerStateID}
	switch level {
	case LevelCounty:
		scoped.RegionalPartnerID = j.RegionalPartnerID
		scoped.City = j.City
	case LevelRegional:
		scoped.RegionalPartnerID = j.RegionalPartnerID
	}
	return scoped
}

// Jurisdiction locates the artifact through its owner.
func (a Artifact) Jurisdiction() Jurisdiction {
	return Jurisdiction{PartnerStateID: a.PartnerStateID, RegionalPartnerID: a.RegionalPartnerID, City: a.City}
}

// Contains reports whether other lies inside j. Unset regional partner or city
// in j match anything.
func (j Jurisdiction) Contains(other Jurisdiction) bool {
	if j.PartnerStateID != other.PartnerStateID {
		return false
	}
	if j.RegionalPartnerID != nil && (other.RegionalPartnerID == nil || *j.RegionalPartnerID != *other.RegionalPartnerID) {
		return false
	}
	if j.City != nil && (other.City == nil || *j.City != *other.City) {
		return false
	}
	return true
}

// DecisionRequest carries the reviewer input for a reject decision.
type DecisionRequest struct {
	Justification string `json:"justification" validate:"required,max=3000"`
}

// ApprovalListFilter is the projected, jurisdiction-scoped listing query.
type ApprovalListFilter struct {
	ViewerID     string
	ViewerLevel  Level
	Jurisdiction Jurisdiction
	Status       *ApprovalStatus
	Search       string
	Month        *int
	Year         *int
	OwnerID      *string
	Page         int
	PageSize     int
}
