package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campushq/horario-api/internal/models"
)

func TestNotificationRepositoryCreateWithReceipts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notification_receipts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notification_receipts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	courseID := "crs-1"
	notification := &models.Notification{
		Title:    "Exam moved",
		Body:     "Now on Friday",
		Type:     models.NotificationCourse,
		SenderID: "mgr-1",
		CourseID: &courseID,
	}
	count, err := repo.CreateWithReceipts(context.Background(), notification, []string{"stu-1", "stu-2"})
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NotEmpty(t, notification.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryCreateWithReceiptsRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notification_receipts").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO notification_receipts").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	notification := &models.Notification{
		Title:    "Exam moved",
		Body:     "Now on Friday",
		Type:     models.NotificationCourse,
		SenderID: "mgr-1",
	}
	_, err := repo.CreateWithReceipts(context.Background(), notification, []string{"stu-1", "stu-2"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkReceiptRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notification_receipts SET read = TRUE, read_at = COALESCE(read_at, $3) WHERE id = $1 AND user_id = $2")).
		WithArgs("rcpt-1", "stu-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkReceiptRead(context.Background(), "rcpt-1", "stu-1", now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkReceiptReadWrongOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	mock.ExpectExec("UPDATE notification_receipts SET").
		WithArgs("rcpt-1", "intruder", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkReceiptRead(context.Background(), "rcpt-1", "intruder", now)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
