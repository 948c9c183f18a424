package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

// TransitionStore persists engine transitions. The history record, the state
// write and any hooks commit or roll back together.
type TransitionStore struct {
	db *sqlx.DB
}

// NewTransitionStore constructs the store.
func NewTransitionStore(db *sqlx.DB) *TransitionStore {
	return &TransitionStore{db: db}
}

// Apply writes after over the artifact row if its version still equals
// expectedVersion. A stale version yields sql.ErrNoRows and nothing is written.
func (s *TransitionStore) Apply(ctx context.Context, kind models.ArtifactKind, id string, expectedVersion int, after models.ApprovalState, history *models.ValidationHistory, hooks ...TxHook) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	return withTx(ctx, s.db, "transition", func(tx *sqlx.Tx) error {
		if history != nil {
			const insertHistory = `INSERT INTO validation_histories (id, artifact_kind, artifact_id, level, user_id, outcome, justification, created_at) VALUES (:id, :artifact_kind, :artifact_id, :level, :user_id, :outcome, :justification, :created_at)`
			if _, err := tx.NamedExecContext(ctx, insertHistory, history); err != nil {
				return fmt.Errorf("insert validation history: %w", err)
			}
		}

		update := fmt.Sprintf(`UPDATE %s SET status = $1, current_level = $2, county_history_id = $3, regional_history_id = $4, state_history_id = $5, submitted_at = $6, last_decision_at = $7, version = version + 1, updated_at = $8 WHERE id = $9 AND version = $10`, table.name)
		res, err := tx.ExecContext(ctx, update,
			after.Status, after.CurrentLevel, after.CountyHistoryID, after.RegionalHistoryID, after.StateHistoryID,
			after.SubmittedAt, after.LastDecisionAt, time.Now().UTC(), id, expectedVersion)
		if err != nil {
			return fmt.Errorf("update %s state: %w", table.name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update %s state: %w", table.name, err)
		}
		if affected == 0 {
			return sql.ErrNoRows
		}

		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			if err := hook(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// History returns the decisions taken on an artifact, oldest first.
func (s *TransitionStore) History(ctx context.Context, kind models.ArtifactKind, id string) ([]models.ValidationHistory, error) {
	const query = `SELECT id, artifact_kind, artifact_id, level, user_id, outcome, justification, created_at FROM validation_histories WHERE artifact_kind = $1 AND artifact_id = $2 ORDER BY created_at ASC`
	var entries []models.ValidationHistory
	if err := s.db.SelectContext(ctx, &entries, query, kind, id); err != nil {
		return nil, fmt.Errorf("list validation history: %w", err)
	}
	return entries, nil
}
