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

const scholarSelect = `SELECT s.id, s.user_id, s.axle, s.city, s.address, s.bank, s.agency, s.account_type, s.account_number, s.training_area, s.highest_degree, s.is_former, ` +
	`s.status, s.current_level, s.county_history_id, s.regional_history_id, s.state_history_id, s.submitted_at, s.last_decision_at, s.version, ` +
	`u.full_name AS owner_name, u.partner_state_id, u.regional_partner_id, u.city AS owner_city, s.created_at, s.updated_at ` +
	`FROM scholars s JOIN users u ON u.id = s.user_id`

// ScholarRepository persists scholar registrations.
type ScholarRepository struct {
	db *sqlx.DB
}

// NewScholarRepository constructs the repository.
func NewScholarRepository(db *sqlx.DB) *ScholarRepository {
	return &ScholarRepository{db: db}
}

// FindByID returns a registration by id.
func (r *ScholarRepository) FindByID(ctx context.Context, id string) (*models.Scholar, error) {
	return r.findOne(ctx, `s.id = $1`, id)
}

// FindByUserID returns the registration owned by a user.
func (r *ScholarRepository) FindByUserID(ctx context.Context, userID string) (*models.Scholar, error) {
	return r.findOne(ctx, `s.user_id = $1`, userID)
}

func (r *ScholarRepository) findOne(ctx context.Context, condition string, arg interface{}) (*models.Scholar, error) {
	var scholar models.Scholar
	if err := r.db.GetContext(ctx, &scholar, scholarSelect+" WHERE "+condition+" LIMIT 1", arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find scholar: %w", err)
	}
	return &scholar, nil
}

// Create inserts a registration.
func (r *ScholarRepository) Create(ctx context.Context, scholar *models.Scholar) error {
	if scholar.ID == "" {
		scholar.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	scholar.CreatedAt = now
	scholar.UpdatedAt = now

	const query = `INSERT INTO scholars (id, user_id, axle, city, address, bank, agency, account_type, account_number, training_area, highest_degree, is_former, status, current_level, submitted_at, version, created_at, updated_at) VALUES (:id, :user_id, :axle, :city, :address, :bank, :agency, :account_type, :account_number, :training_area, :highest_degree, :is_former, :status, :current_level, :submitted_at, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, scholar); err != nil {
		return fmt.Errorf("create scholar: %w", err)
	}
	return nil
}

// PayloadHook rewrites the editable registration fields within a transition.
func (r *ScholarRepository) PayloadHook(id string, payload models.RegistrationPayload) TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		const query = `UPDATE scholars SET axle = $2, city = $3, address = $4, bank = $5, agency = $6, account_type = $7, account_number = $8, training_area = $9, highest_degree = $10, is_former = $11 WHERE id = $1`
		_, err := tx.ExecContext(ctx, query, id, payload.Axle, payload.City, payload.Address, payload.Bank, payload.Agency,
			payload.AccountType, payload.AccountNumber, payload.TrainingArea, payload.HighestDegree, payload.IsFormer)
		if err != nil {
			return fmt.Errorf("update scholar payload: %w", err)
		}
		return nil
	}
}

// List returns the registrations visible to the filter's viewer with the total count.
func (r *ScholarRepository) List(ctx context.Context, filter models.ApprovalListFilter) ([]models.Scholar, int, error) {
	where, args := listingConditions(scholarsTable, filter)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s WHERE %s ORDER BY s.submitted_at DESC NULLS LAST, s.created_at DESC LIMIT %d OFFSET %d", scholarSelect, where, limit, offset)
	var scholars []models.Scholar
	if err := r.db.SelectContext(ctx, &scholars, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list scholars: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM scholars s JOIN users u ON u.id = s.user_id WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count scholars: %w", err)
	}
	return scholars, total, nil
}
