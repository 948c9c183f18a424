package models

import "time"

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Title     string     `db:"title" json:"title"`
	Text      string     `db:"text" json:"text"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// NotificationTemplate identifies a rendered notification message.
type NotificationTemplate string

const (
	TemplateReportRejected           NotificationTemplate = "monthly_report_rejected"
	TemplateRegistrationRejected     NotificationTemplate = "registration_rejected"
	TemplateWorkPlanRejected         NotificationTemplate = "work_plan_rejected"
	TemplateReportSubmissionReminder NotificationTemplate = "report_submission_reminder"
	TemplateReportValidationReminder NotificationTemplate = "report_validation_reminder"
)
