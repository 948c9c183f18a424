package models

import "time"

// Scholar is a scholar's registration record, approved by county then regional validators.
type Scholar struct {
	ID            string  `db:"id" json:"id"`
	UserID        string  `db:"user_id" json:"user_id"`
	Axle          string  `db:"axle" json:"axle"`
	City          *string `db:"city" json:"city,omitempty"`
	Address       *string `db:"address" json:"address,omitempty"`
	Bank          *string `db:"bank" json:"bank,omitempty"`
	Agency        *string `db:"agency" json:"agency,omitempty"`
	AccountType   *string `db:"account_type" json:"account_type,omitempty"`
	AccountNumber *string `db:"account_number" json:"account_number,omitempty"`
	TrainingArea  *string `db:"training_area" json:"training_area,omitempty"`
	HighestDegree *string `db:"highest_degree" json:"highest_degree,omitempty"`
	IsFormer      bool    `db:"is_former" json:"is_former"`
	ApprovalState
	OwnerName         string              `db:"owner_name" json:"owner_name,omitempty"`
	PartnerStateID    string              `db:"partner_state_id" json:"partner_state_id,omitempty"`
	RegionalPartnerID *string             `db:"regional_partner_id" json:"regional_partner_id,omitempty"`
	OwnerCity         *string             `db:"owner_city" json:"owner_city,omitempty"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
	History           []ValidationHistory `db:"-" json:"history,omitempty"`
}

// Artifact projects the registration onto the workflow engine's view.
func (s Scholar) Artifact() Artifact {
	return Artifact{
		Kind:              KindRegistration,
		ID:                s.ID,
		SubjectID:         s.UserID,
		PartnerStateID:    s.PartnerStateID,
		RegionalPartnerID: s.RegionalPartnerID,
		City:              s.OwnerCity,
		ReferenceDate:     s.CreatedAt,
		State:             s.ApprovalState,
	}
}

// RegistrationPayload is the editable part of a registration.
type RegistrationPayload struct {
	Axle          string  `json:"axle" validate:"required"`
	City          *string `json:"city"`
	Address       *string `json:"address"`
	Bank          *string `json:"bank"`
	Agency        *string `json:"agency"`
	AccountType   *string `json:"account_type" validate:"omitempty,oneof=CHECKING SAVINGS"`
	AccountNumber *string `json:"account_number"`
	TrainingArea  *string `json:"training_area"`
	HighestDegree *string `json:"highest_degree"`
	IsFormer      bool    `json:"is_former"`
}

// ApproveRegistrationRequest optionally grants an access profile on final approval.
type ApproveRegistrationRequest struct {
	AccessProfileID *string `json:"access_profile_id"`
}

// TermStatus is the lifecycle of a membership term.
type TermStatus string

const (
	TermPendingSignature TermStatus = "PENDING_SIGNATURE"
	TermSigned           TermStatus = "SIGNED"
	TermInactive         TermStatus = "INACTIVE"
	TermCancelled        TermStatus = "CANCELLED"
)

// TermOfMembership binds a scholar to the program and fixes the scholarship value.
type TermOfMembership struct {
	ID                      string     `db:"id" json:"id"`
	ScholarID               string     `db:"scholar_id" json:"scholar_id"`
	UserID                  string     `db:"user_id" json:"user_id"`
	Status                  TermStatus `db:"status" json:"status"`
	ScholarshipValueInCents int64      `db:"scholarship_value_in_cents" json:"scholarship_value_in_cents"`
	StartDate               time.Time  `db:"start_date" json:"start_date"`
	EndDate                 time.Time  `db:"end_date" json:"end_date"`
	ExtensionDate           *time.Time `db:"extension_date" json:"extension_date,omitempty"`
	SignedAt                *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
}
