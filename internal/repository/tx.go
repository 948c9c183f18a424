package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxHook runs inside the transaction that persists a workflow transition.
// Returning an error rolls the whole transition back.
type TxHook func(ctx context.Context, tx *sqlx.Tx) error

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", name, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", name, err)
	}
	return nil
}

func placeholders(n int) string {
	out := make([]byte, 0, n*4)
	for i := 1; i <= n; i++ {
		if i > 1 {
			out = append(out, ',')
		}
		out = append(out, fmt.Sprintf("$%d", i)...)
	}
	return string(out)
}
