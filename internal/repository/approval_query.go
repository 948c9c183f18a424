package repository

import (
	"fmt"
	"strings"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

// artifactTable describes how an approvable table is joined to its owner.
type artifactTable struct {
	name      string
	alias     string
	hasPeriod bool
}

var (
	monthlyReportsTable = artifactTable{name: "monthly_reports", alias: "mr", hasPeriod: true}
	scholarsTable       = artifactTable{name: "scholars", alias: "s"}
	workPlansTable      = artifactTable{name: "work_plans", alias: "wp"}
)

func tableFor(kind models.ArtifactKind) (artifactTable, error) {
	switch kind {
	case models.KindMonthlyReport:
		return monthlyReportsTable, nil
	case models.KindRegistration:
		return scholarsTable, nil
	case models.KindWorkPlan:
		return workPlansTable, nil
	}
	return artifactTable{}, fmt.Errorf("unknown artifact kind %q", kind)
}

// slotColumn returns the history reference column of a level.
func slotColumn(level models.Level) string {
	switch level {
	case models.LevelCounty:
		return "county_history_id"
	case models.LevelRegional:
		return "regional_history_id"
	case models.LevelState:
		return "state_history_id"
	}
	return ""
}

// listingConditions builds the WHERE clause of a viewer's listing. The owner
// is joined as "u". Drafts, inactive owners and the viewer's own artifacts are
// never listed; a viewer with a level only sees artifacts that are, or have
// been, at that level.
func listingConditions(t artifactTable, f models.ApprovalListFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	col := func(c string) string { return t.alias + "." + c }

	conditions = append(conditions, fmt.Sprintf("%s <> '%s'", col("status"), models.StatusPendingSubmission))
	conditions = append(conditions, "u.active = TRUE")

	if f.ViewerID != "" {
		conditions = append(conditions, fmt.Sprintf("%s <> %s", col("user_id"), arg(f.ViewerID)))
	}
	if f.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("%s = %s", col("user_id"), arg(*f.OwnerID)))
	}

	j := f.Jurisdiction
	if j.PartnerStateID != "" {
		conditions = append(conditions, "u.partner_state_id = "+arg(j.PartnerStateID))
	}
	if j.RegionalPartnerID != nil {
		conditions = append(conditions, "u.regional_partner_id = "+arg(*j.RegionalPartnerID))
	}
	if j.City != nil {
		conditions = append(conditions, "u.city = "+arg(*j.City))
	}

	level := f.ViewerLevel
	if level.Valid() {
		p := arg(level)
		conditions = append(conditions, fmt.Sprintf("(%s = %s OR %s IS NOT NULL)", col("current_level"), p, col(slotColumn(level))))
		if f.Status != nil {
			if *f.Status == models.StatusApproved && level != models.LevelState {
				conditions = append(conditions, fmt.Sprintf("%s IS NOT NULL AND %s <> %s", col(slotColumn(level)), col("current_level"), p))
			} else {
				conditions = append(conditions, fmt.Sprintf("%s = %s AND %s = %s", col("status"), arg(*f.Status), col("current_level"), p))
			}
		}
	} else if f.Status != nil {
		conditions = append(conditions, fmt.Sprintf("%s = %s", col("status"), arg(*f.Status)))
	}

	if t.hasPeriod {
		if f.Month != nil {
			conditions = append(conditions, fmt.Sprintf("%s = %s", col("month"), arg(*f.Month)))
		}
		if f.Year != nil {
			conditions = append(conditions, fmt.Sprintf("%s = %s", col("year"), arg(*f.Year)))
		}
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(u.full_name) LIKE %s", arg("%"+strings.ToLower(f.Search)+"%")))
	}

	return strings.Join(conditions, " AND "), args
}

// MaxPageSize bounds a single listing query.
const MaxPageSize = 1000

func pageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
