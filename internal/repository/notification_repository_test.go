package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

func TestNotificationRepositoryMarkReadOtherUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE notifications SET read_at").
		WithArgs("n1", "u2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewNotificationRepository(db).MarkRead(context.Background(), "n1", "u2", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNotificationRepositoryListUnread(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("FROM notifications WHERE user_id = \\$1 AND read_at IS NULL ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "text", "read_at", "created_at"}).
			AddRow("n1", "u1", "Monthly report rejected", "Fix the attendance list", nil, time.Now()))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.ListByUser(context.Background(), "u1", true, 1, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.Nil(t, items[0].ReadAt)
}

func TestNotificationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "u1", "Title", "Body", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	n := &models.Notification{UserID: "u1", Title: "Title", Text: "Body"}
	require.NoError(t, NewNotificationRepository(db).Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)
}
