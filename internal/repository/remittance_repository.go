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

// RemittanceRepository persists bank remittances for approved reports.
type RemittanceRepository struct {
	db *sqlx.DB
}

// NewRemittanceRepository constructs the repository.
func NewRemittanceRepository(db *sqlx.DB) *RemittanceRepository {
	return &RemittanceRepository{db: db}
}

// InsertHook creates the remittance inside the final approval transaction.
func (r *RemittanceRepository) InsertHook(remittance *models.BankRemittance) TxHook {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		if remittance.ID == "" {
			remittance.ID = uuid.NewString()
		}
		if remittance.CreatedAt.IsZero() {
			remittance.CreatedAt = time.Now().UTC()
		}
		const query = `INSERT INTO bank_remittances (id, monthly_report_id, term_of_membership_id, bank, agency, account_type, account_number, scholarship_value_in_cents, created_at) VALUES (:id, :monthly_report_id, :term_of_membership_id, :bank, :agency, :account_type, :account_number, :scholarship_value_in_cents, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, remittance); err != nil {
			return fmt.Errorf("create bank remittance: %w", err)
		}
		return nil
	}
}

// FindByReport returns the remittance created for a report.
func (r *RemittanceRepository) FindByReport(ctx context.Context, reportID string) (*models.BankRemittance, error) {
	const query = `SELECT id, monthly_report_id, term_of_membership_id, bank, agency, account_type, account_number, scholarship_value_in_cents, created_at FROM bank_remittances WHERE monthly_report_id = $1`
	var remittance models.BankRemittance
	if err := r.db.GetContext(ctx, &remittance, query, reportID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find bank remittance: %w", err)
	}
	return &remittance, nil
}
