package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/pkg/authz"
)

type stubCalendarList struct {
	configs []models.ApprovalCalendarConfig
}

func (s *stubCalendarList) List(ctx context.Context) ([]models.ApprovalCalendarConfig, error) {
	return s.configs, nil
}

type stubDirectory struct {
	missing    map[string][]models.Recipient
	validators map[models.Level][]models.User
	periods    []string
}

func (s *stubDirectory) ListScholarsMissingReport(ctx context.Context, partnerStateID string, month, year int) ([]models.Recipient, error) {
	return s.missing[partnerStateID], nil
}

func (s *stubDirectory) ListValidatorsWithPending(ctx context.Context, partnerStateID string, level models.Level, month, year int) ([]models.User, error) {
	s.periods = append(s.periods, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
	return s.validators[level], nil
}

type stubExpirer struct {
	expired []models.TermOfMembership
	today   time.Time
}

func (s *stubExpirer) ExpireDue(ctx context.Context, today time.Time) ([]models.TermOfMembership, error) {
	s.today = today
	return s.expired, nil
}

func newReminderService(t *testing.T, calendars []models.ApprovalCalendarConfig, dir *stubDirectory, notifier *stubNotifier, audit *stubAudit, terms *stubExpirer) *ReminderService {
	t.Helper()
	perms, err := authz.New("")
	require.NoError(t, err)
	if terms == nil {
		terms = &stubExpirer{}
	}
	return NewReminderService(&stubCalendarList{configs: calendars}, dir, terms, perms, notifier, audit, nil)
}

func TestSweepScholarRemindersWithinLeadTime(t *testing.T) {
	dir := &stubDirectory{missing: map[string][]models.Recipient{
		"ps-1": {{ID: "user-1"}, {ID: "user-2"}},
		"ps-2": {{ID: "user-3"}},
	}}
	notifier := &stubNotifier{}
	svc := newReminderService(t, []models.ApprovalCalendarConfig{
		{PartnerStateID: "ps-1", SubmissionDayLimit: 15, NotificationLeadDays: 3},
		{PartnerStateID: "ps-2", SubmissionDayLimit: 25, NotificationLeadDays: 3},
	}, dir, notifier, nil, nil)

	sent, err := svc.SweepScholarReminders(context.Background(), time.Date(2024, time.May, 13, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, notifier.messages, 2)
	assert.Equal(t, models.TemplateReportSubmissionReminder, notifier.messages[0].Template)
	assert.Equal(t, "2", notifier.messages[0].Data["days"])
	assert.Equal(t, "05", notifier.messages[0].Data["month"])
}

func TestSweepValidatorRemindersRequiresDecisionRights(t *testing.T) {
	dir := &stubDirectory{validators: map[models.Level][]models.User{
		models.LevelCounty: {
			{ID: "county-1", Role: models.RoleStaff, Areas: []string{models.AreaApproveReports}},
			{ID: "county-2", Role: models.RoleStaff, Areas: []string{models.AreaApproveWorkPlans}},
		},
		models.LevelState: {{ID: "state-1", Role: models.RoleSuperAdmin}},
	}}
	notifier := &stubNotifier{}
	svc := newReminderService(t, []models.ApprovalCalendarConfig{
		{PartnerStateID: "ps-1", SubmissionDayLimit: 10, AnalysisWindowDays: 5},
		{PartnerStateID: "ps-2", SubmissionDayLimit: 10},
	}, dir, notifier, nil, nil)

	sent, err := svc.SweepValidatorReminders(context.Background(), time.Date(2024, time.May, 12, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, notifier.messages, 2)
	assert.Equal(t, "county-1", notifier.messages[0].UserID)
	assert.Equal(t, "3", notifier.messages[0].Data["days"])
	assert.Equal(t, "COUNTY", notifier.messages[0].Data["level"])
	assert.Equal(t, "state-1", notifier.messages[1].UserID)
	assert.Equal(t, []string{"2024-05", "2024-05", "2024-05"}, dir.periods)
}

func TestSweepValidatorRemindersSkipsLapsedWindow(t *testing.T) {
	dir := &stubDirectory{validators: map[models.Level][]models.User{
		models.LevelCounty: {{ID: "county-1", Role: models.RoleStaff, Areas: []string{models.AreaApproveReports}}},
	}}
	notifier := &stubNotifier{}
	svc := newReminderService(t, []models.ApprovalCalendarConfig{
		{PartnerStateID: "ps-1", SubmissionDayLimit: 10, AnalysisWindowDays: 5},
	}, dir, notifier, nil, nil)

	sent, err := svc.SweepValidatorReminders(context.Background(), time.Date(2024, time.May, 20, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, dir.periods)
}

func TestExpireTermsAudits(t *testing.T) {
	terms := &stubExpirer{expired: []models.TermOfMembership{
		{ID: "term-1", UserID: "user-1"},
		{ID: "term-2", UserID: "user-2"},
	}}
	audit := &stubAudit{}
	svc := newReminderService(t, nil, &stubDirectory{}, &stubNotifier{}, audit, terms)
	today := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)

	expired, err := svc.ExpireTerms(context.Background(), today)
	require.NoError(t, err)
	assert.Len(t, expired, 2)
	assert.Equal(t, today, terms.today)
	require.Len(t, audit.logs, 2)
	assert.Equal(t, models.AuditActionTermExpiration, audit.logs[0].Action)
	assert.Equal(t, "term-1", *audit.logs[0].ResourceID)
	assert.JSONEq(t, `{"status":"INACTIVE","user_id":"user-1"}`, string(audit.logs[0].NewValues))
}
