package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

const calendarConfigColumns = `id, partner_state_id, submission_day_limit, analysis_window_days, notification_lead_days, created_at, updated_at`

// CalendarRepository persists per partner state approval calendars.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// List returns every configured calendar.
func (r *CalendarRepository) List(ctx context.Context) ([]models.ApprovalCalendarConfig, error) {
	var configs []models.ApprovalCalendarConfig
	query := `SELECT ` + calendarConfigColumns + ` FROM approval_calendar_configs ORDER BY partner_state_id ASC`
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list calendar configs: %w", err)
	}
	return configs, nil
}

// FindByPartnerState fetches the calendar of a partner state.
func (r *CalendarRepository) FindByPartnerState(ctx context.Context, partnerStateID string) (*models.ApprovalCalendarConfig, error) {
	query := `SELECT ` + calendarConfigColumns + ` FROM approval_calendar_configs WHERE partner_state_id = $1`
	var cfg models.ApprovalCalendarConfig
	if err := r.db.GetContext(ctx, &cfg, query, partnerStateID); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Create inserts a calendar. A second calendar for the same partner state
// fails with a unique violation.
func (r *CalendarRepository) Create(ctx context.Context, cfg *models.ApprovalCalendarConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	const query = `INSERT INTO approval_calendar_configs (id, partner_state_id, submission_day_limit, analysis_window_days, notification_lead_days, created_at, updated_at) VALUES (:id, :partner_state_id, :submission_day_limit, :analysis_window_days, :notification_lead_days, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("create calendar config: %w", err)
	}
	return nil
}

// Update modifies a calendar.
func (r *CalendarRepository) Update(ctx context.Context, cfg *models.ApprovalCalendarConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	const query = `UPDATE approval_calendar_configs SET submission_day_limit = :submission_day_limit, analysis_window_days = :analysis_window_days, notification_lead_days = :notification_lead_days, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("update calendar config: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
