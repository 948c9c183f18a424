package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

func TestDisplayedStatus(t *testing.T) {
	cases := []struct {
		name   string
		state  models.ApprovalState
		viewer models.Level
		want   models.ApprovalStatus
	}{
		{"no viewer level", models.ApprovalState{Status: models.StatusRejected, CurrentLevel: models.LevelState}, "", models.StatusRejected},
		{"same level", models.ApprovalState{Status: models.StatusInValidation, CurrentLevel: models.LevelRegional}, models.LevelRegional, models.StatusInValidation},
		{"moved past viewer", models.ApprovalState{Status: models.StatusRejected, CurrentLevel: models.LevelState}, models.LevelCounty, models.StatusApproved},
		{"below viewer", models.ApprovalState{Status: models.StatusPendingValidation, CurrentLevel: models.LevelCounty}, models.LevelState, models.StatusPendingValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayedStatus(tc.state, tc.viewer))
		})
	}
}

func TestProjectListingCopies(t *testing.T) {
	reports := []models.MonthlyReport{
		{ID: "r1", ApprovalState: models.ApprovalState{Status: models.StatusPendingValidation, CurrentLevel: models.LevelState}},
		{ID: "r2", ApprovalState: models.ApprovalState{Status: models.StatusRejected, CurrentLevel: models.LevelCounty}},
	}

	projected := ProjectListing(reports, models.LevelCounty, func(r *models.MonthlyReport) *models.ApprovalState {
		return &r.ApprovalState
	})

	require.Len(t, projected, 2)
	assert.Equal(t, models.StatusApproved, projected[0].DisplayedStatus)
	assert.Equal(t, models.StatusPendingValidation, projected[0].Status)
	assert.Equal(t, models.StatusRejected, projected[1].DisplayedStatus)
	assert.Empty(t, reports[0].DisplayedStatus)
}

func TestScopeFor(t *testing.T) {
	regional := "regional-1"
	city := "Fortaleza"
	j := models.Jurisdiction{PartnerStateID: "CE", RegionalPartnerID: &regional, City: &city}

	assert.Equal(t, j, j.ScopeFor(models.LevelCounty))
	assert.Equal(t, models.Jurisdiction{PartnerStateID: "CE", RegionalPartnerID: &regional}, j.ScopeFor(models.LevelRegional))
	assert.Equal(t, models.Jurisdiction{PartnerStateID: "CE"}, j.ScopeFor(models.LevelState))
	assert.Equal(t, models.Jurisdiction{PartnerStateID: "CE"}, j.ScopeFor(""))

	filter := ListFilter("viewer-1", models.LevelRegional, j)
	assert.Equal(t, "viewer-1", filter.ViewerID)
	assert.Nil(t, filter.Jurisdiction.City)
}

func TestJurisdictionContains(t *testing.T) {
	regional := "regional-1"
	city := "Fortaleza"
	otherCity := "Sobral"
	owner := models.Jurisdiction{PartnerStateID: "CE", RegionalPartnerID: &regional, City: &city}

	county := owner.ScopeFor(models.LevelCounty)
	assert.True(t, county.Contains(owner))
	assert.False(t, county.Contains(models.Jurisdiction{PartnerStateID: "CE", RegionalPartnerID: &regional, City: &otherCity}))
	assert.False(t, county.Contains(models.Jurisdiction{PartnerStateID: "CE", RegionalPartnerID: &regional}))

	assert.True(t, owner.ScopeFor(models.LevelRegional).Contains(models.Jurisdiction{PartnerStateID: "CE", RegionalPartnerID: &regional, City: &otherCity}))
	assert.True(t, owner.ScopeFor(models.LevelState).Contains(models.Jurisdiction{PartnerStateID: "CE"}))
	assert.False(t, owner.ScopeFor(models.LevelState).Contains(models.Jurisdiction{PartnerStateID: "PI"}))
}
