package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

const termColumns = `id, scholar_id, user_id, status, scholarship_value_in_cents, start_date, end_date, extension_date, signed_at, created_at, updated_at`

// TermRepository handles persistence for terms of membership.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// FindSignedByUser returns the user's most recent signed term.
func (r *TermRepository) FindSignedByUser(ctx context.Context, userID string) (*models.TermOfMembership, error) {
	query := `SELECT ` + termColumns + ` FROM terms_of_membership WHERE user_id = $1 AND status = $2 ORDER BY start_date DESC LIMIT 1`
	var term models.TermOfMembership
	if err := r.db.GetContext(ctx, &term, query, userID, models.TermSigned); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find signed term: %w", err)
	}
	return &term, nil
}

// ExpireDue inactivates terms whose effective end date is on or before today
// and deactivates their users. The expired terms are returned.
func (r *TermRepository) ExpireDue(ctx context.Context, today time.Time) ([]models.TermOfMembership, error) {
	var expired []models.TermOfMembership
	now := time.Now().UTC()
	err := withTx(ctx, r.db, "expire terms", func(tx *sqlx.Tx) error {
		query := `UPDATE terms_of_membership SET status = $1, updated_at = $2 WHERE status IN ($3, $4) AND COALESCE(extension_date, end_date) <= $5 RETURNING ` + termColumns
		if err := tx.SelectContext(ctx, &expired, query, models.TermInactive, now, models.TermSigned, models.TermPendingSignature, today); err != nil {
			return fmt.Errorf("expire terms: %w", err)
		}
		if len(expired) == 0 {
			return nil
		}
		userIDs := make([]string, len(expired))
		for i, term := range expired {
			userIDs[i] = term.UserID
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET active = FALSE, updated_at = $2 WHERE id = ANY($1)`, pq.Array(userIDs), now); err != nil {
			return fmt.Errorf("deactivate expired users: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
