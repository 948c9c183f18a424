package models

import "time"

// ActionStatus tracks execution of a scheduled work plan action.
type ActionStatus string

const (
	ActionInProgress  ActionStatus = "IN_PROGRESS"
	ActionCompleted   ActionStatus = "COMPLETED"
	ActionNotExecuted ActionStatus = "NOT_EXECUTED"
)

// MonthlyReport is a scholar's report on the actions due for a month.
type MonthlyReport struct {
	ID             string  `db:"id" json:"id"`
	ScholarID      string  `db:"scholar_id" json:"scholar_id"`
	UserID         string  `db:"user_id" json:"user_id"`
	Month          int     `db:"month" json:"month"`
	Year           int     `db:"year" json:"year"`
	ActionDocument *string `db:"action_document" json:"action_document,omitempty"`
	ApprovalState
	OwnerName         string              `db:"owner_name" json:"owner_name,omitempty"`
	PartnerStateID    string              `db:"partner_state_id" json:"partner_state_id,omitempty"`
	RegionalPartnerID *string             `db:"regional_partner_id" json:"regional_partner_id,omitempty"`
	OwnerCity         *string             `db:"owner_city" json:"owner_city,omitempty"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
	Actions           []ReportAction      `db:"-" json:"actions,omitempty"`
	History           []ValidationHistory `db:"-" json:"history,omitempty"`
}

// Artifact projects the report onto the workflow engine's view.
func (r MonthlyReport) Artifact() Artifact {
	return Artifact{
		Kind:              KindMonthlyReport,
		ID:                r.ID,
		SubjectID:         r.UserID,
		PartnerStateID:    r.PartnerStateID,
		RegionalPartnerID: r.RegionalPartnerID,
		City:              r.OwnerCity,
		ReferenceDate:     r.CreatedAt,
		State:             r.ApprovalState,
	}
}

// ReportAction details what happened for one scheduled action in the month.
type ReportAction struct {
	ID                 string       `db:"id" json:"id"`
	MonthlyReportID    string       `db:"monthly_report_id" json:"monthly_report_id"`
	ScheduleID         *string      `db:"schedule_id" json:"schedule_id,omitempty"`
	Detailing          string       `db:"detailing" json:"detailing"`
	DetailingResult    *string      `db:"detailing_result" json:"detailing_result,omitempty"`
	TrainingDate       *time.Time   `db:"training_date" json:"training_date,omitempty"`
	WorkloadInMinutes  *int         `db:"workload_in_minutes" json:"workload_in_minutes,omitempty"`
	ExpectedGraduates  *int         `db:"expected_graduates" json:"expected_graduates,omitempty"`
	AttendingGraduates *int         `db:"attending_graduates" json:"attending_graduates,omitempty"`
	TrainingModality   *string      `db:"training_modality" json:"training_modality,omitempty"`
	Status             ActionStatus `db:"status" json:"status"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// ReportActionInput is the scholar supplied content for one due schedule item.
type ReportActionInput struct {
	ScheduleID         string       `json:"schedule_id" validate:"required"`
	Detailing          string       `json:"detailing" validate:"required"`
	DetailingResult    *string      `json:"detailing_result"`
	TrainingDate       *time.Time   `json:"training_date"`
	WorkloadInMinutes  *int         `json:"workload_in_minutes" validate:"omitempty,min=0"`
	ExpectedGraduates  *int         `json:"expected_graduates" validate:"omitempty,min=0"`
	AttendingGraduates *int         `json:"attending_graduates" validate:"omitempty,min=0"`
	TrainingModality   *string      `json:"training_modality" validate:"omitempty,oneof=IN_PERSON REMOTE HYBRID"`
	Status             ActionStatus `json:"status" validate:"required,oneof=IN_PROGRESS COMPLETED NOT_EXECUTED"`
}

// CreateMonthlyReportRequest submits the report for a month.
type CreateMonthlyReportRequest struct {
	Month   int                 `json:"month" validate:"required,min=1,max=12"`
	Year    int                 `json:"year" validate:"required,min=2000"`
	Actions []ReportActionInput `json:"actions" validate:"dive"`
}

// ResubmitMonthlyReportRequest edits a report and sends it back to validation.
type ResubmitMonthlyReportRequest struct {
	Actions []ReportActionInput `json:"actions" validate:"dive"`
}

// BankRemittance is the payment record created when a report is finally approved.
type BankRemittance struct {
	ID                      string    `db:"id" json:"id"`
	MonthlyReportID         string    `db:"monthly_report_id" json:"monthly_report_id"`
	TermOfMembershipID      string    `db:"term_of_membership_id" json:"term_of_membership_id"`
	Bank                    *string   `db:"bank" json:"bank,omitempty"`
	Agency                  *string   `db:"agency" json:"agency,omitempty"`
	AccountType             *string   `db:"account_type" json:"account_type,omitempty"`
	AccountNumber           *string   `db:"account_number" json:"account_number,omitempty"`
	ScholarshipValueInCents int64     `db:"scholarship_value_in_cents" json:"scholarship_value_in_cents"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}
