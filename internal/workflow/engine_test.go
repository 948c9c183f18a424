package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

var engineNow = time.Date(2024, time.May, 12, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return engineNow }

func newReportEngine(opts ...Option) *Engine {
	return NewEngine(models.KindMonthlyReport, ReportChain, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func pendingReport(level models.Level) models.Artifact {
	return models.Artifact{
		Kind:          models.KindMonthlyReport,
		ID:            "report-1",
		SubjectID:     "scholar-1",
		ReferenceDate: time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC),
		State: models.ApprovalState{
			Status:       models.StatusPendingValidation,
			CurrentLevel: level,
		},
	}
}

func actorAt(level models.Level) Actor {
	return Actor{UserID: "validator-" + strings.ToLower(string(level)), Level: level}
}

func apply(a models.Artifact, t Transition) models.Artifact {
	a.State = t.After
	return a
}

func TestEngineFullScenario(t *testing.T) {
	engine := newReportEngine()
	report := pendingReport(models.LevelCounty)
	finals := 0
	rank := report.State.CurrentLevel.Rank()

	step := func(tr Transition, err error) {
		t.Helper()
		require.NoError(t, err)
		require.GreaterOrEqual(t, tr.After.CurrentLevel.Rank(), rank)
		rank = tr.After.CurrentLevel.Rank()
		if tr.Final {
			finals++
		}
		report = apply(report, tr)
	}

	step(engine.Approve(report, actorAt(models.LevelCounty), nil))
	assert.Equal(t, models.LevelRegional, report.State.CurrentLevel)
	assert.Equal(t, models.StatusPendingValidation, report.State.Status)
	require.NotNil(t, report.State.CountyHistoryID)

	step(engine.Reject(report, actorAt(models.LevelRegional), nil, "missing attendance list"))
	assert.Equal(t, models.StatusRejected, report.State.Status)
	assert.Equal(t, models.LevelRegional, report.State.CurrentLevel)
	require.NotNil(t, report.State.RegionalHistoryID)

	step(engine.Resubmit(report))
	assert.Equal(t, models.StatusPendingValidation, report.State.Status)
	assert.Equal(t, models.LevelRegional, report.State.CurrentLevel)

	step(engine.BeginValidation(report, actorAt(models.LevelRegional), nil))
	assert.Equal(t, models.StatusInValidation, report.State.Status)

	step(engine.Approve(report, actorAt(models.LevelRegional), nil))
	assert.Equal(t, models.LevelState, report.State.CurrentLevel)
	assert.Equal(t, models.StatusPendingValidation, report.State.Status)

	step(engine.Approve(report, actorAt(models.LevelState), nil))
	assert.Equal(t, models.StatusApproved, report.State.Status)
	assert.Equal(t, models.LevelState, report.State.CurrentLevel)
	assert.Equal(t, 3, report.State.PopulatedSlots())
	require.NotNil(t, report.State.LastDecisionAt)
	assert.Equal(t, 1, finals)

	_, err := engine.Approve(report, actorAt(models.LevelState), nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestEngineApproveAdvancesOneLevel(t *testing.T) {
	engine := newReportEngine()
	report := pendingReport(models.LevelCounty)

	tr, err := engine.Approve(report, actorAt(models.LevelCounty), nil)
	require.NoError(t, err)
	assert.False(t, tr.Final)
	assert.Equal(t, models.StatusPendingValidation, tr.After.Status)
	require.NotNil(t, tr.History)
	assert.Equal(t, models.StatusApproved, tr.History.Outcome)
	assert.Equal(t, models.LevelCounty, tr.History.Level)
	assert.Nil(t, tr.History.Justification)
	assert.Equal(t, tr.History.ID, *tr.After.CountyHistoryID)
	assert.Nil(t, tr.After.RegionalHistoryID)
	assert.Nil(t, tr.After.StateHistoryID)

	// the input is untouched
	assert.Equal(t, models.LevelCounty, report.State.CurrentLevel)
	assert.Nil(t, report.State.CountyHistoryID)
	assert.Equal(t, report.State, tr.Before)
}

func TestEngineRejectKeepsLevel(t *testing.T) {
	engine := newReportEngine()
	for _, level := range ReportChain {
		report := pendingReport(level)
		tr, err := engine.Reject(report, actorAt(level), nil, "  incomplete  ")
		require.NoError(t, err)
		assert.Equal(t, level, tr.After.CurrentLevel)
		assert.Equal(t, models.StatusRejected, tr.After.Status)
		assert.False(t, tr.Final)
		require.NotNil(t, tr.History.Justification)
		assert.Equal(t, "incomplete", *tr.History.Justification)
		assert.Equal(t, tr.History.ID, *tr.After.Slot(level))
		assert.Equal(t, 1, tr.After.PopulatedSlots())
	}
}

func TestEngineSelfReviewForbiddenForEveryStatus(t *testing.T) {
	engine := newReportEngine()
	statuses := []models.ApprovalStatus{
		models.StatusPendingSubmission,
		models.StatusPendingValidation,
		models.StatusInValidation,
		models.StatusApproved,
		models.StatusRejected,
		models.StatusInactive,
	}
	for _, status := range statuses {
		for _, level := range ReportChain {
			report := pendingReport(level)
			report.State.Status = status
			self := Actor{UserID: report.SubjectID, Level: level}

			_, err := engine.BeginValidation(report, self, nil)
			assert.ErrorIs(t, err, appErrors.ErrSelfReviewForbidden, "begin %s/%s", status, level)
			_, err = engine.Approve(report, self, nil)
			assert.ErrorIs(t, err, appErrors.ErrSelfReviewForbidden, "approve %s/%s", status, level)
			_, err = engine.Reject(report, self, nil, "nope")
			assert.ErrorIs(t, err, appErrors.ErrSelfReviewForbidden, "reject %s/%s", status, level)
		}
	}
}

func TestEngineGuardOrder(t *testing.T) {
	engine := newReportEngine()
	expiredCal := &models.ApprovalCalendarConfig{SubmissionDayLimit: 5, AnalysisWindowDays: 2}

	approved := pendingReport(models.LevelState)
	approved.State.Status = models.StatusApproved
	_, err := engine.Approve(approved, actorAt(models.LevelCounty), expiredCal)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	wrongLevel := pendingReport(models.LevelRegional)
	_, err = engine.Approve(wrongLevel, actorAt(models.LevelCounty), expiredCal)
	assert.ErrorIs(t, err, appErrors.ErrForbiddenLevelMismatch)

	_, err = engine.Reject(wrongLevel, actorAt(models.LevelRegional), expiredCal, "")
	assert.ErrorIs(t, err, appErrors.ErrAnalysisWindowExpired)

	_, err = engine.Reject(wrongLevel, actorAt(models.LevelRegional), nil, "   ")
	assert.ErrorIs(t, err, appErrors.ErrJustificationRequired)
}

func TestEngineAnalysisWindow(t *testing.T) {
	cal := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10, AnalysisWindowDays: 2}
	report := pendingReport(models.LevelCounty)

	// deadline is May 10, two days of analysis run through May 12
	onTime := newReportEngine()
	_, err := onTime.Approve(report, actorAt(models.LevelCounty), cal)
	require.NoError(t, err)

	late := NewEngine(models.KindMonthlyReport, ReportChain, WithClock(func() time.Time {
		return engineNow.AddDate(0, 0, 1)
	}))
	_, err = late.Approve(report, actorAt(models.LevelCounty), cal)
	assert.ErrorIs(t, err, appErrors.ErrAnalysisWindowExpired)

	unenforced := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10, AnalysisWindowDays: 0}
	_, err = late.Approve(report, actorAt(models.LevelCounty), unenforced)
	assert.NoError(t, err)
}

func TestEngineJustificationLimit(t *testing.T) {
	engine := newReportEngine(WithMaxJustification(5))
	report := pendingReport(models.LevelCounty)

	_, err := engine.Reject(report, actorAt(models.LevelCounty), nil, "ééééé")
	require.NoError(t, err)

	_, err = engine.Reject(report, actorAt(models.LevelCounty), nil, "éééééé")
	assert.ErrorIs(t, err, appErrors.ErrJustificationTooLong)
}

func TestEngineSubmitAndResubmit(t *testing.T) {
	engine := newReportEngine()
	draft := pendingReport(models.LevelCounty)
	draft.State.Status = models.StatusPendingSubmission

	tr, err := engine.Submit(draft)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingValidation, tr.After.Status)
	require.NotNil(t, tr.After.SubmittedAt)
	assert.Equal(t, engineNow, *tr.After.SubmittedAt)

	_, err = engine.Submit(pendingReport(models.LevelCounty))
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	for _, status := range []models.ApprovalStatus{models.StatusApproved, models.StatusInValidation, models.StatusInactive} {
		a := pendingReport(models.LevelRegional)
		a.State.Status = status
		_, err := engine.Resubmit(a)
		assert.ErrorIs(t, err, appErrors.ErrInvalidTransition, status)
	}
}

func TestEngineBeginValidationOnlyFromPending(t *testing.T) {
	engine := newReportEngine()
	report := pendingReport(models.LevelCounty)
	report.State.Status = models.StatusInValidation

	_, err := engine.BeginValidation(report, actorAt(models.LevelCounty), nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestEngineInactivate(t *testing.T) {
	engine := NewEngine(models.KindWorkPlan, WorkPlanChain, WithClock(fixedClock), WithInactivation())
	plan := pendingReport(models.LevelRegional)
	plan.Kind = models.KindWorkPlan

	tr, err := engine.Inactivate(plan, actorAt(models.LevelState))
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, tr.After.Status)

	_, err = engine.Inactivate(plan, actorAt(models.LevelRegional))
	assert.ErrorIs(t, err, appErrors.ErrForbiddenLevelMismatch)

	plan.State.Status = models.StatusApproved
	_, err = engine.Inactivate(plan, actorAt(models.LevelState))
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	_, err = newReportEngine().Inactivate(pendingReport(models.LevelCounty), actorAt(models.LevelState))
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestEngineInitialLevel(t *testing.T) {
	reports := newReportEngine()
	level, err := reports.InitialLevel("")
	require.NoError(t, err)
	assert.Equal(t, models.LevelCounty, level)

	level, err = reports.InitialLevel(models.LevelCounty)
	require.NoError(t, err)
	assert.Equal(t, models.LevelRegional, level)

	_, err = reports.InitialLevel(models.LevelState)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	plans := NewEngine(models.KindWorkPlan, WorkPlanChain)
	level, err = plans.InitialLevel(models.LevelCounty)
	require.NoError(t, err)
	assert.Equal(t, models.LevelRegional, level)
}

func TestEngineRejectsUnknownLevel(t *testing.T) {
	engine := NewEngine(models.KindRegistration, RegistrationChain, WithClock(fixedClock))
	registration := pendingReport(models.LevelState)

	_, err := engine.Approve(registration, actorAt(models.LevelState), nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
}

func TestNewEnginePanicsOnInvalidChain(t *testing.T) {
	assert.Panics(t, func() {
		NewEngine(models.KindWorkPlan, Chain{models.LevelState, models.LevelCounty})
	})
	assert.Error(t, Chain{}.Validate())
}
