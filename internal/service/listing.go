package service

import (
	"time"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
	"github.com/noah-isme/scholarship-approval-api/internal/repository"
	"github.com/noah-isme/scholarship-approval-api/internal/workflow"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxExportRows   = repository.MaxPageSize
)

// ListQuery holds the client supplied listing filters.
type ListQuery struct {
	Status   *models.ApprovalStatus
	Search   string
	Month    *int
	Year     *int
	Page     int
	PageSize int
}

// filterFor scopes the query to the caller's level and jurisdiction.
func (q ListQuery) filterFor(claims *models.JWTClaims) models.ApprovalListFilter {
	f := workflow.ListFilter(claims.UserID, claims.Level, claims.Jurisdiction())
	f.Status = q.Status
	f.Search = q.Search
	f.Month = q.Month
	f.Year = q.Year
	f.Page = q.Page
	if f.Page < 1 {
		f.Page = 1
	}
	f.PageSize = q.PageSize
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize && f.PageSize != maxExportRows {
		f.PageSize = maxPageSize
	}
	return f
}

// canView reports whether claims may read a. Owners always can; validators
// only inside the subtree their level reaches.
func canView(claims *models.JWTClaims, a models.Artifact) bool {
	if claims.UserID == a.SubjectID || claims.Role == models.RoleSuperAdmin {
		return true
	}
	return claims.Level.Valid() && withinJurisdiction(claims, a)
}

// withinJurisdiction reports whether a lies in the part of the partner state
// the caller's level reaches, the same subtree listings are scoped to.
func withinJurisdiction(claims *models.JWTClaims, a models.Artifact) bool {
	if claims.Role == models.RoleSuperAdmin {
		return true
	}
	return claims.Jurisdiction().ScopeFor(claims.Level).Contains(a.Jurisdiction())
}

func statusAllowed(s models.ApprovalStatus, allowed []models.ApprovalStatus) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
