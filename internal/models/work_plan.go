package models

import "time"

// WorkPlan lists the objectives and monthly schedule a scholar commits to.
type WorkPlan struct {
	ID                 string `db:"id" json:"id"`
	UserID             string `db:"user_id" json:"user_id"`
	Justification      string `db:"justification" json:"justification"`
	GeneralObjectives  string `db:"general_objectives" json:"general_objectives"`
	SpecificObjectives string `db:"specific_objectives" json:"specific_objectives"`
	ApprovalState
	OwnerName         string              `db:"owner_name" json:"owner_name,omitempty"`
	PartnerStateID    string              `db:"partner_state_id" json:"partner_state_id,omitempty"`
	RegionalPartnerID *string             `db:"regional_partner_id" json:"regional_partner_id,omitempty"`
	OwnerCity         *string             `db:"owner_city" json:"owner_city,omitempty"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
	Schedules         []ScheduleItem      `db:"-" json:"schedules,omitempty"`
	History           []ValidationHistory `db:"-" json:"history,omitempty"`
}

// Artifact projects the plan onto the workflow engine's view.
func (w WorkPlan) Artifact() Artifact {
	return Artifact{
		Kind:              KindWorkPlan,
		ID:                w.ID,
		SubjectID:         w.UserID,
		PartnerStateID:    w.PartnerStateID,
		RegionalPartnerID: w.RegionalPartnerID,
		City:              w.OwnerCity,
		ReferenceDate:     w.CreatedAt,
		State:             w.ApprovalState,
	}
}

// ScheduleItem is one planned action for a month of the work plan.
type ScheduleItem struct {
	ID         string       `db:"id" json:"id"`
	WorkPlanID string       `db:"work_plan_id" json:"work_plan_id"`
	Month      int          `db:"month" json:"month"`
	Year       int          `db:"year" json:"year"`
	Action     string       `db:"action" json:"action"`
	IsFormer   bool         `db:"is_former" json:"is_former"`
	Status     ActionStatus `db:"status" json:"status"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// WorkPlanPayload is the editable part of a work plan.
type WorkPlanPayload struct {
	Justification      string `json:"justification" validate:"required"`
	GeneralObjectives  string `json:"general_objectives" validate:"required"`
	SpecificObjectives string `json:"specific_objectives" validate:"required"`
}

// ScheduleItemRequest creates or updates a schedule item.
type ScheduleItemRequest struct {
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Year     int    `json:"year" validate:"required,min=2000"`
	Action   string `json:"action" validate:"required"`
	IsFormer bool   `json:"is_former"`
}
