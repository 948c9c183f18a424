package models

import "time"

// UserRole represents the credential role used by RBAC middleware.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleStaff      UserRole = "STAFF"
	RoleScholar    UserRole = "SCHOLAR"
)

// Access profile areas granting workflow permissions.
const (
	AreaApproveReports       = "APRO_REL"
	AreaApproveRegistrations = "APRO_CAD"
	AreaApproveWorkPlans     = "APRO_PT"
	AreaSystemParameters     = "PARAM_SIS"
)

// User represents an application user stored in the users table.
type User struct {
	ID                string     `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	FullName          string     `db:"full_name" json:"full_name"`
	Role              UserRole   `db:"role" json:"role"`
	Level             Level      `db:"level" json:"level,omitempty"`
	PartnerStateID    string     `db:"partner_state_id" json:"partner_state_id"`
	RegionalPartnerID *string    `db:"regional_partner_id" json:"regional_partner_id,omitempty"`
	City              *string    `db:"city" json:"city,omitempty"`
	AccessProfileID   *string    `db:"access_profile_id" json:"access_profile_id,omitempty"`
	Areas             []string   `db:"-" json:"areas,omitempty"`
	Active            bool       `db:"active" json:"active"`
	LastLogin         *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Jurisdiction returns the user's place in the partner-state hierarchy.
func (u User) Jurisdiction() Jurisdiction {
	return Jurisdiction{PartnerStateID: u.PartnerStateID, RegionalPartnerID: u.RegionalPartnerID, City: u.City}
}

// Subjects lists the casbin subjects of the user: its role and access profile areas.
func (u User) Subjects() []string {
	subjects := make([]string, 0, len(u.Areas)+1)
	subjects = append(subjects, "role:"+string(u.Role))
	return append(subjects, u.Areas...)
}

// Recipient is a user addressed by a reminder sweep.
type Recipient struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
