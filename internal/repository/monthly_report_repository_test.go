package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

var monthlyReportRowColumns = []string{"id", "scholar_id", "user_id", "month", "year", "action_document",
	"status", "current_level", "county_history_id", "regional_history_id", "state_history_id", "submitted_at", "last_decision_at", "version",
	"owner_name", "partner_state_id", "regional_partner_id", "owner_city", "created_at", "updated_at"}

func TestMonthlyReportRepositoryCreateWritesActionsAndSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMonthlyReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO monthly_reports").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO report_actions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_plan_schedules SET status = $2")).
		WithArgs("sched-1", models.ActionCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	report := &models.MonthlyReport{
		ScholarID: "scholar-1",
		UserID:    "user-1",
		Month:     5,
		Year:      2024,
		ApprovalState: models.ApprovalState{
			Status:       models.StatusPendingValidation,
			CurrentLevel: models.LevelCounty,
		},
	}
	actions := []models.ReportAction{{ScheduleID: ptr("sched-1"), Detailing: "Workshop", Status: models.ActionCompleted}}

	require.NoError(t, repo.Create(context.Background(), report, actions))
	assert.NotEmpty(t, report.ID)
	require.Len(t, report.Actions, 1)
	assert.Equal(t, report.ID, report.Actions[0].MonthlyReportID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyReportRepositoryDeleteResetsSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMonthlyReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_plan_schedules SET status = $2, updated_at = $3 WHERE id IN (SELECT schedule_id FROM report_actions")).
		WithArgs("r1", models.ActionInProgress, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM report_actions").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM monthly_reports").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "r1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyReportRepositoryReplaceActionsHook(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMonthlyReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE work_plan_schedules SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM report_actions").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO report_actions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE work_plan_schedules SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE monthly_reports SET action_document").WithArgs("r1", "docs/r1.pdf").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	hook := repo.ReplaceActionsHook("r1", []models.ReportAction{{ScheduleID: ptr("sched-1"), Detailing: "Redo", Status: models.ActionNotExecuted}}, ptr("docs/r1.pdf"))
	err := withTx(context.Background(), db, "test", func(tx *sqlx.Tx) error { return hook(context.Background(), tx) })
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyReportRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMonthlyReportRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM monthly_reports mr JOIN users u ON u.id = mr.user_id WHERE mr.id = $1")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(monthlyReportRowColumns).
			AddRow("r1", "scholar-1", "user-1", 5, 2024, nil, "PENDING_VALIDATION", "REGIONAL", "h1", nil, nil, now, now, 2, "Ana", "CE", "rp-1", "Fortaleza", now, now))
	mock.ExpectQuery("FROM report_actions WHERE monthly_report_id").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "monthly_report_id", "schedule_id", "detailing", "status"}).
			AddRow("a1", "r1", "sched-1", "Workshop", "COMPLETED"))

	report, err := repo.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.LevelRegional, report.CurrentLevel)
	assert.Equal(t, 2, report.Version)
	require.NotNil(t, report.CountyHistoryID)
	assert.Equal(t, "Ana", report.OwnerName)
	artifact := report.Artifact()
	require.NotNil(t, artifact.City)
	assert.Equal(t, "Fortaleza", *artifact.City)
	assert.Equal(t, "rp-1", *artifact.RegionalPartnerID)
	require.Len(t, report.Actions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyReportRepositoryListScopesViewer(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMonthlyReportRepository(db)

	filter := models.ApprovalListFilter{ViewerID: "v1", ViewerLevel: models.LevelState, Jurisdiction: models.Jurisdiction{PartnerStateID: "CE"}}
	mock.ExpectQuery(regexp.QuoteMeta("(mr.current_level = $3 OR mr.state_history_id IS NOT NULL) ORDER BY mr.year DESC")).
		WithArgs("v1", "CE", models.LevelState).
		WillReturnRows(sqlmock.NewRows(monthlyReportRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM monthly_reports mr JOIN users u")).
		WithArgs("v1", "CE", models.LevelState).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	reports, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyReportRepositoryExistsForPeriod(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").WithArgs("scholar-1", 5, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewMonthlyReportRepository(db).ExistsForPeriod(context.Background(), "scholar-1", 5, 2024)
	require.NoError(t, err)
	assert.True(t, exists)
}
