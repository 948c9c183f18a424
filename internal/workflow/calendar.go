package workflow

import (
	"time"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	appErrors "github.com/noah-isme/scholarship-approval-api/pkg/errors"
)

// daysIn returns the number of days in the month of t.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubmissionDeadline returns the last submission day for the month of ref. The
// configured day is clamped to the length of that month.
func SubmissionDeadline(cfg *models.ApprovalCalendarConfig, ref time.Time) time.Time {
	last := daysIn(ref)
	day := last
	if cfg != nil && cfg.SubmissionDayLimit > 0 && cfg.SubmissionDayLimit < last {
		day = cfg.SubmissionDayLimit
	}
	return time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, time.UTC)
}

// IsSubmissionWindowOpen reports whether a report for the current month may still be submitted.
func IsSubmissionWindowOpen(cfg *models.ApprovalCalendarConfig, today time.Time) bool {
	if cfg == nil {
		return true
	}
	return today.Day() <= SubmissionDeadline(cfg, today).Day()
}

// daysBetween counts whole days from "from" to "to", truncated toward zero.
func daysBetween(to, from time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// AnalysisWindowRemaining returns how many days validators still have to decide
// on an artifact whose period is anchored at periodEnd. Negative means lapsed.
func AnalysisWindowRemaining(cfg *models.ApprovalCalendarConfig, periodEnd, today time.Time) int {
	if cfg == nil {
		return 0
	}
	return cfg.AnalysisWindowDays - daysBetween(today, SubmissionDeadline(cfg, periodEnd))
}

// AnalysisWindowEnforced reports whether cfg imposes an analysis window at all.
func AnalysisWindowEnforced(cfg *models.ApprovalCalendarConfig) bool {
	return cfg != nil && cfg.AnalysisWindowDays > 0
}

// CheckAnalysisWindow fails with ErrAnalysisWindowExpired once the window has lapsed.
func CheckAnalysisWindow(cfg *models.ApprovalCalendarConfig, periodEnd, today time.Time) error {
	if !AnalysisWindowEnforced(cfg) {
		return nil
	}
	if AnalysisWindowRemaining(cfg, periodEnd, today) < 0 {
		return appErrors.ErrAnalysisWindowExpired
	}
	return nil
}

// SubmissionReminderDue reports whether scholars should be reminded today, and
// how many days are left before the deadline.
func SubmissionReminderDue(cfg *models.ApprovalCalendarConfig, today time.Time) (int, bool) {
	if cfg == nil {
		return 0, false
	}
	deadline := SubmissionDeadline(cfg, today).Day()
	day := today.Day()
	if day < deadline-cfg.NotificationLeadDays || day > deadline {
		return 0, false
	}
	return deadline - day, true
}

// ValidationPeriodFor returns the first day of the reporting month validators are
// working on: the previous month until this month's submission deadline, the
// current month afterwards.
func ValidationPeriodFor(cfg *models.ApprovalCalendarConfig, today time.Time) time.Time {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if cfg != nil && today.Day() < cfg.SubmissionDayLimit {
		return first.AddDate(0, -1, 0)
	}
	return first
}
