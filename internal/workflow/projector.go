package workflow

import (
	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

// DisplayedStatus is the status a viewer at level viewer sees. Artifacts that
// already moved past the viewer's level read as approved from that level's
// point of view.
func DisplayedStatus(state models.ApprovalState, viewer models.Level) models.ApprovalStatus {
	if viewer.IsZero() || state.CurrentLevel == viewer {
		return state.Status
	}
	if viewer.Below(state.CurrentLevel) {
		return models.StatusApproved
	}
	return state.Status
}

// ProjectListing returns a copy of items with the displayed status of each
// element set for viewer. The input slice is not modified.
func ProjectListing[T any](items []T, viewer models.Level, state func(*T) *models.ApprovalState) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		s := state(&out[i])
		s.DisplayedStatus = DisplayedStatus(*s, viewer)
	}
	return out
}

// ListFilter builds the listing filter for a viewer, scoping its jurisdiction.
func ListFilter(viewerID string, viewerLevel models.Level, j models.Jurisdiction) models.ApprovalListFilter {
	return models.ApprovalListFilter{
		ViewerID:     viewerID,
		ViewerLevel:  viewerLevel,
		Jurisdiction: j.ScopeFor(viewerLevel),
	}
}
