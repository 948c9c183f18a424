package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

func TestWorkPlanRepositoryDeleteScheduleDetachesActions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkPlanRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_actions SET status = $2, schedule_id = NULL")).
		WithArgs("sched-1", models.ActionInProgress, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM work_plan_schedules").WithArgs("sched-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteSchedule(context.Background(), "sched-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkPlanRepositoryDueSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkPlanRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_plan_schedules WHERE work_plan_id = $1 AND month = $2 AND year = $3")).
		WithArgs("wp1", 5, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"id", "work_plan_id", "month", "year", "action", "is_former", "status", "created_at", "updated_at"}).
			AddRow("sched-1", "wp1", 5, 2024, "Workshop", false, "IN_PROGRESS", now, now))

	items, err := repo.DueSchedules(context.Background(), "wp1", 5, 2024)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ActionInProgress, items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkPlanRepositoryFindActiveByUserNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM work_plans wp JOIN users u").
		WithArgs("user-1", models.StatusInactive).
		WillReturnError(sql.ErrNoRows)

	_, err := NewWorkPlanRepository(db).FindActiveByUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestWorkPlanRepositoryCreateSchedule(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO work_plan_schedules").
		WithArgs(sqlmock.AnyArg(), "wp1", 6, 2024, "Field visit", false, models.ActionInProgress, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.ScheduleItem{WorkPlanID: "wp1", Month: 6, Year: 2024, Action: "Field visit"}
	require.NoError(t, NewWorkPlanRepository(db).CreateSchedule(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
