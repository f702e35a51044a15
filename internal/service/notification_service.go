package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	CreateWithReceipts(ctx context.Context, notification *models.Notification, recipientIDs []string) (int, error)
	ListReceiptsByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.ReceiptDetail, error)
	MarkReceiptRead(ctx context.Context, receiptID, userID string, readAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type notificationEnrollmentReader interface {
	ListStudentIDsByCourse(ctx context.Context, courseID string) ([]string, error)
}

type notificationCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// NotificationRequest describes a single notification create payload.
type NotificationRequest struct {
	Title      string                  `json:"title" validate:"required"`
	Body       string                  `json:"body" validate:"required"`
	Type       models.NotificationType `json:"type" validate:"required,oneof=GENERAL COURSE SCHEDULE"`
	CourseID   *string                 `json:"course_id"`
	ScheduleID *string                 `json:"schedule_id"`
}

// BulkSendRequest targets every student enrolled in a course.
type BulkSendRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// NotificationService orchestrates notifications and per-user receipts.
// The bulk dispatch writes the notification and every receipt in one
// transaction so a failure mid-fan-out leaves nothing behind.
type NotificationService struct {
	repo        notificationRepository
	enrollments notificationEnrollmentReader
	courses     notificationCourseReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewNotificationService constructs NotificationService.
func NewNotificationService(repo notificationRepository, enrollments notificationEnrollmentReader, courses notificationCourseReader, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		repo:        repo,
		enrollments: enrollments,
		courses:     courses,
		validator:   validate,
		logger:      logger,
	}
}

// List returns notifications.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	notifications, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one notification.
func (s *NotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}
	return notification, nil
}

// Create records a single notification without receipts.
func (s *NotificationService) Create(ctx context.Context, req NotificationRequest, sender *models.JWTClaims) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}
	notification := &models.Notification{
		Title:      req.Title,
		Body:       req.Body,
		Type:       req.Type,
		SenderID:   sender.UserID,
		CourseID:   req.CourseID,
		ScheduleID: req.ScheduleID,
		SentAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// BulkSend creates a COURSE notification and one unread receipt per student
// enrolled in the course. Only managers may dispatch; any failure rolls the
// whole fan-out back.
func (s *NotificationService) BulkSend(ctx context.Context, req BulkSendRequest, sender *models.JWTClaims) (*models.BulkSendResult, error) {
	if sender == nil || sender.Role != models.RoleManager {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only managers can send bulk notifications")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk send payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	studentIDs, err := s.enrollments.ListStudentIDsByCourse(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve recipients")
	}

	notification := &models.Notification{
		Title:    req.Title,
		Body:     req.Body,
		Type:     models.NotificationCourse,
		SenderID: sender.UserID,
		CourseID: &req.CourseID,
		SentAt:   time.Now().UTC(),
	}
	receipts, err := s.repo.CreateWithReceipts(ctx, notification, studentIDs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bulk notification dispatched",
		zap.String("notification_id", notification.ID),
		zap.String("course_id", req.CourseID),
		zap.Int("receipts", receipts))
	return &models.BulkSendResult{NotificationID: notification.ID, Receipts: receipts}, nil
}

// ListReceipts returns the acting user's receipts, newest first.
func (s *NotificationService) ListReceipts(ctx context.Context, userID string, unreadOnly bool) ([]models.ReceiptDetail, error) {
	receipts, err := s.repo.ListReceiptsByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list receipts")
	}
	return receipts, nil
}

// MarkRead flags one of the acting user's receipts as read. Re-marking an
// already-read receipt keeps the original read timestamp.
func (s *NotificationService) MarkRead(ctx context.Context, receiptID, userID string) error {
	err := s.repo.MarkReceiptRead(ctx, receiptID, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "receipt not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark receipt read")
	}
	return nil
}

// Delete removes a notification and, via cascade, its receipts.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}
