package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestSubmissionDeadlineClampsToMonthLength(t *testing.T) {
	cfg := &models.ApprovalCalendarConfig{SubmissionDayLimit: 31}

	assert.Equal(t, day(2024, time.April, 30), SubmissionDeadline(cfg, day(2024, time.April, 2)))
	assert.Equal(t, day(2024, time.February, 29), SubmissionDeadline(cfg, day(2024, time.February, 10)))
	assert.Equal(t, day(2023, time.February, 28), SubmissionDeadline(cfg, day(2023, time.February, 10)))

	cfg.SubmissionDayLimit = 15
	assert.Equal(t, day(2024, time.April, 15), SubmissionDeadline(cfg, day(2024, time.April, 28)))
}

func TestIsSubmissionWindowOpen(t *testing.T) {
	cfg := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10}

	assert.True(t, IsSubmissionWindowOpen(cfg, day(2024, time.May, 10)))
	assert.False(t, IsSubmissionWindowOpen(cfg, day(2024, time.May, 11)))
	assert.True(t, IsSubmissionWindowOpen(nil, day(2024, time.May, 31)))
}

func TestAnalysisWindow(t *testing.T) {
	cfg := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10, AnalysisWindowDays: 5}
	period := day(2024, time.May, 3)

	assert.Equal(t, 5, AnalysisWindowRemaining(cfg, period, day(2024, time.May, 10)))
	assert.Equal(t, 0, AnalysisWindowRemaining(cfg, period, time.Date(2024, time.May, 15, 23, 59, 0, 0, time.UTC)))
	assert.NoError(t, CheckAnalysisWindow(cfg, period, day(2024, time.May, 15)))
	assert.ErrorIs(t, CheckAnalysisWindow(cfg, period, day(2024, time.May, 16)), appErrors.ErrAnalysisWindowExpired)

	assert.NoError(t, CheckAnalysisWindow(nil, period, day(2030, time.January, 1)))
	unenforced := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10}
	assert.False(t, AnalysisWindowEnforced(unenforced))
	assert.NoError(t, CheckAnalysisWindow(unenforced, period, day(2030, time.January, 1)))
}

func TestSubmissionReminderDue(t *testing.T) {
	cfg := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10, NotificationLeadDays: 3}

	left, due := SubmissionReminderDue(cfg, day(2024, time.May, 7))
	assert.True(t, due)
	assert.Equal(t, 3, left)

	left, due = SubmissionReminderDue(cfg, day(2024, time.May, 10))
	assert.True(t, due)
	assert.Equal(t, 0, left)

	_, due = SubmissionReminderDue(cfg, day(2024, time.May, 6))
	assert.False(t, due)
	_, due = SubmissionReminderDue(cfg, day(2024, time.May, 11))
	assert.False(t, due)
	_, due = SubmissionReminderDue(nil, day(2024, time.May, 9))
	assert.False(t, due)
}

func TestValidationPeriodFor(t *testing.T) {
	cfg := &models.ApprovalCalendarConfig{SubmissionDayLimit: 10}

	assert.Equal(t, day(2024, time.April, 1), ValidationPeriodFor(cfg, day(2024, time.May, 5)))
	assert.Equal(t, day(2024, time.May, 1), ValidationPeriodFor(cfg, day(2024, time.May, 10)))
	assert.Equal(t, day(2023, time.December, 1), ValidationPeriodFor(cfg, day(2024, time.January, 2)))
}
