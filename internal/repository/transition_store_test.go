package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

func approvedAtCounty() (models.ApprovalState, *models.ValidationHistory) {
	history := &models.ValidationHistory{
		ID:           "h1",
		ArtifactKind: models.KindMonthlyReport,
		ArtifactID:   "r1",
		Level:        models.LevelCounty,
		UserID:       "validator-1",
		Outcome:      models.StatusApproved,
		CreatedAt:    time.Now().UTC(),
	}
	after := models.ApprovalState{Status: models.StatusPendingValidation, CurrentLevel: models.LevelRegional}
	return after.WithSlot(models.LevelCounty, history.ID), history
}

func TestTransitionStoreApplyCommitsHistoryStateAndHooks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewTransitionStore(db)
	after, history := approvedAtCounty()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO validation_histories").
		WithArgs("h1", models.KindMonthlyReport, "r1", models.LevelCounty, "validator-1", models.StatusApproved, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE monthly_reports SET status = $1")+".*"+regexp.QuoteMeta("WHERE id = $9 AND version = $10")).
		WithArgs(models.StatusPendingValidation, models.LevelRegional, "h1", nil, nil, nil, nil, sqlmock.AnyArg(), "r1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO side_effects").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	hookCalls := 0
	hook := func(ctx context.Context, tx *sqlx.Tx) error {
		hookCalls++
		_, err := tx.ExecContext(ctx, "INSERT INTO side_effects VALUES (1)")
		return err
	}

	err := store.Apply(context.Background(), models.KindMonthlyReport, "r1", 3, after, history, hook, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, hookCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStoreApplyStaleVersion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewTransitionStore(db)
	after, history := approvedAtCounty()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO validation_histories").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE monthly_reports SET status").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	hookCalled := false
	err := store.Apply(context.Background(), models.KindMonthlyReport, "r1", 3, after, history, func(context.Context, *sqlx.Tx) error {
		hookCalled = true
		return nil
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.False(t, hookCalled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStoreApplyRollsBackOnHookFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewTransitionStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE work_plans SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("remittance failed")
	state := models.ApprovalState{Status: models.StatusInactive, CurrentLevel: models.LevelRegional}
	err := store.Apply(context.Background(), models.KindWorkPlan, "wp1", 0, state, nil, func(context.Context, *sqlx.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStoreUnknownKind(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()

	err := NewTransitionStore(db).Apply(context.Background(), "grade", "x", 0, models.ApprovalState{}, nil)
	assert.Error(t, err)
}

func TestTransitionStoreHistory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "artifact_kind", "artifact_id", "level", "user_id", "outcome", "justification", "created_at"}).
		AddRow("h1", "registration", "s1", "COUNTY", "v1", "REJECTED", "missing documents", time.Now())
	mock.ExpectQuery("FROM validation_histories WHERE artifact_kind = \\$1 AND artifact_id = \\$2").
		WithArgs(models.KindRegistration, "s1").
		WillReturnRows(rows)

	entries, err := NewTransitionStore(db).History(context.Background(), models.KindRegistration, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Justification)
	assert.Equal(t, "missing documents", *entries[0].Justification)
}
