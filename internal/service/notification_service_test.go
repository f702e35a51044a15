package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type mockNotificationRepo struct {
	notifications map[string]models.Notification
	bulkCalls     int
	bulkRecipient []string
	receipts      map[string]models.ReceiptDetail
	markedRead    []string
}

func (m *mockNotificationRepo) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepo) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return &n, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if m.notifications == nil {
		m.notifications = make(map[string]models.Notification)
	}
	if notification.ID == "" {
		notification.ID = "ntf-new"
	}
	m.notifications[notification.ID] = *notification
	return nil
}

func (m *mockNotificationRepo) CreateWithReceipts(ctx context.Context, notification *models.Notification, recipientIDs []string) (int, error) {
	m.bulkCalls++
	m.bulkRecipient = recipientIDs
	if notification.ID == "" {
		notification.ID = "ntf-bulk"
	}
	return len(recipientIDs), nil
}

func (m *mockNotificationRepo) ListReceiptsByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.ReceiptDetail, error) {
	var list []models.ReceiptDetail
	for _, r := range m.receipts {
		if r.UserID != userID {
			continue
		}
		if unreadOnly && r.Read {
			continue
		}
		list = append(list, r)
	}
	return list, nil
}

func (m *mockNotificationRepo) MarkReceiptRead(ctx context.Context, receiptID, userID string, readAt time.Time) error {
	r, ok := m.receipts[receiptID]
	if !ok || r.UserID != userID {
		return sql.ErrNoRows
	}
	r.Read = true
	r.ReadAt = &readAt
	m.receipts[receiptID] = r
	m.markedRead = append(m.markedRead, receiptID)
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id string) error {
	delete(m.notifications, id)
	return nil
}

type mockEnrollmentReader struct {
	studentIDs []string
}

func (m *mockEnrollmentReader) ListStudentIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	return m.studentIDs, nil
}

func TestNotificationServiceBulkSend(t *testing.T) {
	repo := &mockNotificationRepo{}
	enrollments := &mockEnrollmentReader{studentIDs: []string{"stu-1", "stu-2", "stu-3"}}
	svc := NewNotificationService(repo, enrollments, &mockCourseReader{}, validator.New(), zap.NewNop())

	sender := &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager}
	result, err := svc.BulkSend(context.Background(), BulkSendRequest{CourseID: "crs-1", Title: "Exam", Body: "Friday 10:00"}, sender)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Receipts)
	assert.Equal(t, 1, repo.bulkCalls)
	assert.Equal(t, []string{"stu-1", "stu-2", "stu-3"}, repo.bulkRecipient)
}

func TestNotificationServiceBulkSendForbiddenForNonManager(t *testing.T) {
	repo := &mockNotificationRepo{}
	enrollments := &mockEnrollmentReader{studentIDs: []string{"stu-1"}}
	svc := NewNotificationService(repo, enrollments, &mockCourseReader{}, validator.New(), zap.NewNop())

	for _, role := range []models.UserRole{models.RoleStudent, models.RoleCoordinator} {
		sender := &models.JWTClaims{UserID: "usr-1", Role: role}
		_, err := svc.BulkSend(context.Background(), BulkSendRequest{CourseID: "crs-1", Title: "Exam", Body: "Friday"}, sender)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	}
	assert.Zero(t, repo.bulkCalls)
}

func TestNotificationServiceBulkSendEmptyCourse(t *testing.T) {
	repo := &mockNotificationRepo{}
	enrollments := &mockEnrollmentReader{}
	svc := NewNotificationService(repo, enrollments, &mockCourseReader{}, validator.New(), zap.NewNop())

	sender := &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager}
	result, err := svc.BulkSend(context.Background(), BulkSendRequest{CourseID: "crs-1", Title: "Exam", Body: "Friday"}, sender)
	require.NoError(t, err)
	assert.Zero(t, result.Receipts)
}

func TestNotificationServiceMarkRead(t *testing.T) {
	repo := &mockNotificationRepo{receipts: map[string]models.ReceiptDetail{
		"rcpt-1": {NotificationReceipt: models.NotificationReceipt{ID: "rcpt-1", UserID: "stu-1"}},
	}}
	svc := NewNotificationService(repo, &mockEnrollmentReader{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.MarkRead(context.Background(), "rcpt-1", "stu-1"))
	assert.Contains(t, repo.markedRead, "rcpt-1")
}

func TestNotificationServiceMarkReadForeignReceipt(t *testing.T) {
	repo := &mockNotificationRepo{receipts: map[string]models.ReceiptDetail{
		"rcpt-1": {NotificationReceipt: models.NotificationReceipt{ID: "rcpt-1", UserID: "stu-1"}},
	}}
	svc := NewNotificationService(repo, &mockEnrollmentReader{}, &mockCourseReader{}, validator.New(), zap.NewNop())

	err := svc.MarkRead(context.Background(), "rcpt-1", "stu-2")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
