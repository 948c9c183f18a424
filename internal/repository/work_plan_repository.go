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

const workPlanSelect = `SELECT wp.id, wp.user_id, wp.justification, wp.general_objectives, wp.specific_objectives, ` +
	`wp.status, wp.current_level, wp.county_history_id, wp.regional_history_id, wp.state_history_id, wp.submitted_at, wp.last_decision_at, wp.version, ` +
	`u.full_name AS owner_name, u.partner_state_id, u.regional_partner_id, u.city AS owner_city, wp.created_at, wp.updated_at ` +
	`FROM work_plans wp JOIN users u ON u.id = wp.user_id`

const scheduleColumns = `id, work_plan_id, month, year, action, is_former, status, created_at, updated_at`

// WorkPlanRepository persists work plans and their schedule items.
type WorkPlanRepository struct {
	db *sqlx.DB
}

// NewWorkPlanRepository constructs the repository.
func NewWorkPlanRepository(db *sqlx.DB) *WorkPlanRepository {
	return &WorkPlanRepository{db: db}
}

// FindByID returns a plan with its schedule.
func (r *WorkPlanRepository) FindByID(ctx context.Context, id string) (*models.WorkPlan, error) {
	var plan models.WorkPlan
	if err := r.db.GetContext(ctx, &plan, workPlanSelect+` WHERE wp.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find work plan: %w", err)
	}
	schedules, err := r.ListSchedules(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Schedules = schedules
	return &plan, nil
}

// FindActiveByUser returns the user's plan that is not inactive.
func (r *WorkPlanRepository) FindActiveByUser(ctx context.Context, userID string) (*models.WorkPlan, error) {
	var plan models.WorkPlan
	query := workPlanSelect + ` WHERE wp.user_id = $1 AND wp.status <> $2 ORDER BY wp.created_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &plan, query, userID, models.StatusInactive); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active work plan: %w", err)
	}
	return &plan, nil
}

// Create inserts a plan.
func (r *WorkPlanRepository) Create(ctx context.Context, plan *models.WorkPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	const query = `INSERT INTO work_plans (id, user_id, justification, general_objectives, specific_objectives, status, current_level, submitted_at, version, created_at, updated_at) VALUES (:id, :user_id, :justification, :general_objectives, :specific_objectives, :status, :current_level, :submitted_at, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create work plan: %w", err)
	}
	return nil
}

// PayloadHook rewrites the plan's objectives within a transition.
func (r *WorkPlanRepository) PayloadHook(id string, payload models.WorkPlanPayload) TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		const query = `UPDATE work_plans SET justification = $2, general_objectives = $3, specific_objectives = $4 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, id, payload.Justification, payload.GeneralObjectives, payload.SpecificObjectives); err != nil {
			return fmt.Errorf("update work plan payload: %w", err)
		}
		return nil
	}
}

// List returns the plans visible to the filter's viewer with the total count.
func (r *WorkPlanRepository) List(ctx context.Context, filter models.ApprovalListFilter) ([]models.WorkPlan, int, error) {
	where, args := listingConditions(workPlansTable, filter)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s WHERE %s ORDER BY wp.created_at DESC LIMIT %d OFFSET %d", workPlanSelect, where, limit, offset)
	var plans []models.WorkPlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list work plans: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM work_plans wp JOIN users u ON u.id = wp.user_id WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count work plans: %w", err)
	}
	return plans, total, nil
}

// ListSchedules returns a plan's schedule in calendar order.
func (r *WorkPlanRepository) ListSchedules(ctx context.Context, planID string) ([]models.ScheduleItem, error) {
	query := `SELECT ` + scheduleColumns + ` FROM work_plan_schedules WHERE work_plan_id = $1 ORDER BY year ASC, month ASC, created_at ASC`
	var items []models.ScheduleItem
	if err := r.db.SelectContext(ctx, &items, query, planID); err != nil {
		return nil, fmt.Errorf("list work plan schedules: %w", err)
	}
	return items, nil
}

// DueSchedules returns the schedule items of a plan falling in month/year.
func (r *WorkPlanRepository) DueSchedules(ctx context.Context, planID string, month, year int) ([]models.ScheduleItem, error) {
	query := `SELECT ` + scheduleColumns + ` FROM work_plan_schedules WHERE work_plan_id = $1 AND month = $2 AND year = $3 ORDER BY created_at ASC`
	var items []models.ScheduleItem
	if err := r.db.SelectContext(ctx, &items, query, planID, month, year); err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}
	return items, nil
}

// FindSchedule returns one schedule item.
func (r *WorkPlanRepository) FindSchedule(ctx context.Context, id string) (*models.ScheduleItem, error) {
	var item models.ScheduleItem
	if err := r.db.GetContext(ctx, &item, `SELECT `+scheduleColumns+` FROM work_plan_schedules WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return &item, nil
}

// CreateSchedule inserts a schedule item.
func (r *WorkPlanRepository) CreateSchedule(ctx context.Context, item *models.ScheduleItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = models.ActionInProgress
	}
	const query = `INSERT INTO work_plan_schedules (id, work_plan_id, month, year, action, is_former, status, created_at, updated_at) VALUES (:id, :work_plan_id, :month, :year, :action, :is_former, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// UpdateSchedule updates the editable fields of a schedule item.
func (r *WorkPlanRepository) UpdateSchedule(ctx context.Context, item *models.ScheduleItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE work_plan_schedules SET month = :month, year = :year, action = :action, is_former = :is_former, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes a schedule item. Report actions that referenced it
// go back in progress and lose the reference.
func (r *WorkPlanRepository) DeleteSchedule(ctx context.Context, id string) error {
	return withTx(ctx, r.db, "delete schedule", func(tx *sqlx.Tx) error {
		const detach = `UPDATE report_actions SET status = $2, schedule_id = NULL, updated_at = $3 WHERE schedule_id = $1`
		if _, err := tx.ExecContext(ctx, detach, id, models.ActionInProgress, time.Now().UTC()); err != nil {
			return fmt.Errorf("detach report actions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM work_plan_schedules WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete schedule: %w", err)
		}
		return nil
	})
}
