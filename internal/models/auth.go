package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserInfo  `json:"user"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	FullName     string       `json:"full_name"`
	Role         UserRole     `json:"role"`
	Level        Level        `json:"level,omitempty"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
	Areas        []string     `json:"areas,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. It is the identity
// context every workflow operation runs under.
type JWTClaims struct {
	UserID            string   `json:"user_id"`
	Role              UserRole `json:"role"`
	Email             string   `json:"email"`
	FullName          string   `json:"full_name"`
	Level             Level    `json:"level,omitempty"`
	PartnerStateID    string   `json:"partner_state_id"`
	RegionalPartnerID *string  `json:"regional_partner_id,omitempty"`
	City              *string  `json:"city,omitempty"`
	Areas             []string `json:"areas,omitempty"`
	jwt.RegisteredClaims
}

// Jurisdiction returns the caller's jurisdiction.
func (c *JWTClaims) Jurisdiction() Jurisdiction {
	return Jurisdiction{PartnerStateID: c.PartnerStateID, RegionalPartnerID: c.RegionalPartnerID, City: c.City}
}

// Subjects lists the casbin subjects for the caller: its role and access profile areas.
func (c *JWTClaims) Subjects() []string {
	subjects := make([]string, 0, len(c.Areas)+1)
	subjects = append(subjects, "role:"+string(c.Role))
	subjects = append(subjects, c.Areas...)
	return subjects
}
