package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

const monthlyReportSelect = `SELECT mr.id, mr.scholar_id, mr.user_id, mr.month, mr.year, mr.action_document, ` +
	`mr.status, mr.current_level, mr.county_history_id, mr.regional_history_id, mr.state_history_id, mr.submitted_at, mr.last_decision_at, mr.version, ` +
	`u.full_name AS owner_name, u.partner_state_id, u.regional_partner_id, u.city AS owner_city, mr.created_at, mr.updated_at ` +
	`FROM monthly_reports mr JOIN users u ON u.id = mr.user_id`

const reportActionColumns = `id, monthly_report_id, schedule_id, detailing, detailing_result, training_date, workload_in_minutes, expected_graduates, attending_graduates, training_modality, status, created_at, updated_at`

// MonthlyReportRepository persists monthly reports and their actions.
type MonthlyReportRepository struct {
	db *sqlx.DB
}

// NewMonthlyReportRepository constructs the repository.
func NewMonthlyReportRepository(db *sqlx.DB) *MonthlyReportRepository {
	return &MonthlyReportRepository{db: db}
}

// FindByID returns a report with its actions.
func (r *MonthlyReportRepository) FindByID(ctx context.Context, id string) (*models.MonthlyReport, error) {
	var report models.MonthlyReport
	if err := r.db.GetContext(ctx, &report, monthlyReportSelect+` WHERE mr.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find monthly report: %w", err)
	}
	actions, err := r.ListActions(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Actions = actions
	return &report, nil
}

// ListActions returns the actions of a report.
func (r *MonthlyReportRepository) ListActions(ctx context.Context, reportID string) ([]models.ReportAction, error) {
	query := `SELECT ` + reportActionColumns + ` FROM report_actions WHERE monthly_report_id = $1 ORDER BY created_at ASC`
	var actions []models.ReportAction
	if err := r.db.SelectContext(ctx, &actions, query, reportID); err != nil {
		return nil, fmt.Errorf("list report actions: %w", err)
	}
	return actions, nil
}

// ExistsForPeriod reports whether the scholar already has a report for month/year.
func (r *MonthlyReportRepository) ExistsForPeriod(ctx context.Context, scholarID string, month, year int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM monthly_reports WHERE scholar_id = $1 AND month = $2 AND year = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, scholarID, month, year); err != nil {
		return false, fmt.Errorf("check monthly report period: %w", err)
	}
	return exists, nil
}

// Create inserts the report, its actions and the resulting schedule statuses in one transaction.
func (r *MonthlyReportRepository) Create(ctx context.Context, report *models.MonthlyReport, actions []models.ReportAction) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	return withTx(ctx, r.db, "create monthly report", func(tx *sqlx.Tx) error {
		const insert = `INSERT INTO monthly_reports (id, scholar_id, user_id, month, year, action_document, status, current_level, submitted_at, version, created_at, updated_at) VALUES (:id, :scholar_id, :user_id, :month, :year, :action_document, :status, :current_level, :submitted_at, :version, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insert, report); err != nil {
			return fmt.Errorf("create monthly report: %w", err)
		}
		stored, err := insertActions(ctx, tx, report.ID, actions, now)
		if err != nil {
			return err
		}
		report.Actions = stored
		return nil
	})
}

// ReplaceActionsHook swaps the report's actions for a resubmitted set within a transition.
func (r *MonthlyReportRepository) ReplaceActionsHook(reportID string, actions []models.ReportAction, document *string) TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		if err := resetScheduleStatuses(ctx, tx, reportID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM report_actions WHERE monthly_report_id = $1`, reportID); err != nil {
			return fmt.Errorf("delete report actions: %w", err)
		}
		if _, err := insertActions(ctx, tx, reportID, actions, time.Now().UTC()); err != nil {
			return err
		}
		if document != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE monthly_reports SET action_document = $2 WHERE id = $1`, reportID, *document); err != nil {
				return fmt.Errorf("update monthly report document: %w", err)
			}
		}
		return nil
	}
}

// UpdateDocument stores the attachment path of a report.
func (r *MonthlyReportRepository) UpdateDocument(ctx context.Context, id, path string) error {
	const query = `UPDATE monthly_reports SET action_document = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("update monthly report document: %w", err)
	}
	return nil
}

// Delete removes a report, putting the schedule items it covered back in progress.
func (r *MonthlyReportRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, "delete monthly report", func(tx *sqlx.Tx) error {
		if err := resetScheduleStatuses(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM report_actions WHERE monthly_report_id = $1`, id); err != nil {
			return fmt.Errorf("delete report actions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM monthly_reports WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete monthly report: %w", err)
		}
		return nil
	})
}

// List returns the reports visible to the filter's viewer with the total count.
func (r *MonthlyReportRepository) List(ctx context.Context, filter models.ApprovalListFilter) ([]models.MonthlyReport, int, error) {
	where, args := listingConditions(monthlyReportsTable, filter)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s WHERE %s ORDER BY mr.year DESC, mr.month DESC, mr.created_at DESC LIMIT %d OFFSET %d", monthlyReportSelect, where, limit, offset)
	var reports []models.MonthlyReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list monthly reports: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM monthly_reports mr JOIN users u ON u.id = mr.user_id WHERE " + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count monthly reports: %w", err)
	}
	return reports, total, nil
}

// ListByScholar returns every report of a scholar, newest period first.
func (r *MonthlyReportRepository) ListByScholar(ctx context.Context, scholarID string) ([]models.MonthlyReport, error) {
	var reports []models.MonthlyReport
	query := monthlyReportSelect + ` WHERE mr.scholar_id = $1 ORDER BY mr.year DESC, mr.month DESC`
	if err := r.db.SelectContext(ctx, &reports, query, scholarID); err != nil {
		return nil, fmt.Errorf("list scholar monthly reports: %w", err)
	}
	return reports, nil
}

func insertActions(ctx context.Context, tx *sqlx.Tx, reportID string, actions []models.ReportAction, now time.Time) ([]models.ReportAction, error) {
	const insert = `INSERT INTO report_actions (id, monthly_report_id, schedule_id, detailing, detailing_result, training_date, workload_in_minutes, expected_graduates, attending_graduates, training_modality, status, created_at, updated_at) VALUES (:id, :monthly_report_id, :schedule_id, :detailing, :detailing_result, :training_date, :workload_in_minutes, :expected_graduates, :attending_graduates, :training_modality, :status, :created_at, :updated_at)`
	stored := make([]models.ReportAction, len(actions))
	for i, action := range actions {
		if action.ID == "" {
			action.ID = uuid.NewString()
		}
		action.MonthlyReportID = reportID
		action.CreatedAt = now
		action.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, action); err != nil {
			return nil, fmt.Errorf("create report action: %w", err)
		}
		if action.ScheduleID != nil {
			const schedule = `UPDATE work_plan_schedules SET status = $2, updated_at = $3 WHERE id = $1`
			if _, err := tx.ExecContext(ctx, schedule, *action.ScheduleID, action.Status, now); err != nil {
				return nil, fmt.Errorf("update schedule status: %w", err)
			}
		}
		stored[i] = action
	}
	return stored, nil
}

func resetScheduleStatuses(ctx context.Context, tx *sqlx.Tx, reportID string) error {
	const query = `UPDATE work_plan_schedules SET status = $2, updated_at = $3 WHERE id IN (SELECT schedule_id FROM report_actions WHERE monthly_report_id = $1 AND schedule_id IS NOT NULL)`
	if _, err := tx.ExecContext(ctx, query, reportID, models.ActionInProgress, time.Now().UTC()); err != nil {
		return fmt.Errorf("reset schedule statuses: %w", err)
	}
	return nil
}
