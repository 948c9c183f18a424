package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func ptr[T any](v T) *T { return &v }

var userRowColumns = []string{"id", "email", "password_hash", "full_name", "role", "level", "partner_state_id", "regional_partner_id", "city", "access_profile_id", "active", "last_login", "created_at", "updated_at"}

func TestFindByEmailLoadsAreas(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("u1", "validator@example.com", "hash", "Validator", string(models.RoleStaff), "REGIONAL", "CE", "regional-1", nil, "profile-1", true, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("validator@example.com").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT area FROM access_profile_areas WHERE access_profile_id = $1")).
		WithArgs("profile-1").
		WillReturnRows(sqlmock.NewRows([]string{"area"}).AddRow("APRO_CAD").AddRow("APRO_REL"))

	user, err := repo.FindByEmail(context.Background(), "validator@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.LevelRegional, user.Level)
	assert.Equal(t, []string{"APRO_CAD", "APRO_REL"}, user.Areas)
	require.NotNil(t, user.RegionalPartnerID)
	assert.Equal(t, "regional-1", *user.RegionalPartnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO refresh_tokens").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateRefreshToken(context.Background(), &models.RefreshToken{ID: "1", UserID: "u1", Token: "token", ExpiresAt: time.Now(), CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessProfileHookRunsInTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET access_profile_id = $2")).
		WithArgs("u1", "profile-9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := withTx(context.Background(), db, "test", func(tx *sqlx.Tx) error {
		return repo.AccessProfileHook("u1", "profile-9")(context.Background(), tx)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScholarsMissingReport(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("NOT EXISTS \\(SELECT 1 FROM monthly_reports").
		WithArgs("CE", models.TermSigned, 5, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow("s1", "Ana"))

	recipients, err := repo.ListScholarsMissingReport(context.Background(), "CE", 5, 2024)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "Ana", recipients[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListValidatorsWithPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM users v").
		WithArgs("CE", models.LevelCounty, models.StatusPendingValidation, models.StatusInValidation, 4, 2024).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("v1", "county@example.com", "hash", "County", string(models.RoleStaff), "COUNTY", "CE", "regional-1", "Sobral", nil, true, nil, now, now))

	validators, err := repo.ListValidatorsWithPending(context.Background(), "CE", models.LevelCounty, 4, 2024)
	require.NoError(t, err)
	require.Len(t, validators, 1)
	assert.Empty(t, validators[0].Areas)
	assert.NoError(t, mock.ExpectationsWereMet())
}
