package models

import "time"

// ApprovalCalendarConfig holds the per partner state submission and analysis deadlines.
type ApprovalCalendarConfig struct {
	ID                   string    `db:"id" json:"id"`
	PartnerStateID       string    `db:"partner_state_id" json:"partner_state_id"`
	SubmissionDayLimit   int       `db:"submission_day_limit" json:"submission_day_limit"`
	AnalysisWindowDays   int       `db:"analysis_window_days" json:"analysis_window_days"`
	NotificationLeadDays int       `db:"notification_lead_days" json:"notification_lead_days"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// CalendarConfigRequest creates or replaces the calendar of the caller's partner state.
type CalendarConfigRequest struct {
	SubmissionDayLimit   int `json:"submission_day_limit" validate:"required,min=1,max=31"`
	AnalysisWindowDays   int `json:"analysis_window_days" validate:"min=0,max=365"`
	NotificationLeadDays int `json:"notification_lead_days" validate:"min=0,max=31"`
}

// CalendarDeadline describes the deadlines for a reference date.
type CalendarDeadline struct {
	PartnerStateID         string    `json:"partner_state_id"`
	SubmissionDeadline     time.Time `json:"submission_deadline"`
	SubmissionWindowOpen   bool      `json:"submission_window_open"`
	AnalysisDaysRemaining  int       `json:"analysis_days_remaining"`
	AnalysisWindowEnforced bool      `json:"analysis_window_enforced"`
}
