package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/horario-api/internal/models"
)

// NotificationRepository provides persistence for notifications and receipts.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List returns notifications filtered by the provided criteria.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	base := `FROM notifications WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.SenderID != "" {
		conditions = append(conditions, fmt.Sprintf("sender_id = $%d", len(args)+1))
		args = append(args, filter.SenderID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, title, body, type, sender_id, course_id, schedule_id, sent_at %s ORDER BY sent_at DESC LIMIT %d OFFSET %d`, base, size, offset)
	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return notifications, total, nil
}

// FindByID returns a notification by its ID.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	const query = `SELECT id, title, body, type, sender_id, course_id, schedule_id, sent_at FROM notifications WHERE id = $1`
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find notification by id: %w", err)
	}
	return &notification, nil
}

// Create persists a single notification without receipts.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.SentAt.IsZero() {
		notification.SentAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, title, body, type, sender_id, course_id, schedule_id, sent_at)
        VALUES (:id, :title, :body, :type, :sender_id, :course_id, :schedule_id, :sent_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// CreateWithReceipts persists a notification and one unread receipt per
// recipient in a single transaction, so a failure mid fan-out leaves nothing
// behind.
func (r *NotificationRepository) CreateWithReceipts(ctx context.Context, notification *models.Notification, recipientIDs []string) (int, error) {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.SentAt.IsZero() {
		notification.SentAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk notification: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `INSERT INTO notifications (id, title, body, type, sender_id, course_id, schedule_id, sent_at)
        VALUES (:id, :title, :body, :type, :sender_id, :course_id, :schedule_id, :sent_at)`, notification); err != nil {
		err = fmt.Errorf("create notification: %w", err)
		return 0, err
	}

	for _, userID := range recipientIDs {
		receipt := models.NotificationReceipt{
			ID:             uuid.NewString(),
			NotificationID: notification.ID,
			UserID:         userID,
		}
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO notification_receipts (id, notification_id, user_id, read)
            VALUES (:id, :notification_id, :user_id, :read)`, &receipt); err != nil {
			err = fmt.Errorf("create notification receipt: %w", err)
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk notification: %w", err)
	}
	return len(recipientIDs), nil
}

// ListReceiptsByUser returns a user's receipts newest first.
func (r *NotificationRepository) ListReceiptsByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.ReceiptDetail, error) {
	query := `SELECT nr.id, nr.notification_id, nr.user_id, nr.read, nr.read_at,
        n.title, n.body, n.type, n.sent_at
        FROM notification_receipts nr
        JOIN notifications n ON n.id = nr.notification_id
        WHERE nr.user_id = $1`
	if unreadOnly {
		query += ` AND nr.read = FALSE`
	}
	query += ` ORDER BY n.sent_at DESC`

	var receipts []models.ReceiptDetail
	if err := r.db.SelectContext(ctx, &receipts, query, userID); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

// MarkReceiptRead flags a receipt as read for its owner. Returns
// sql.ErrNoRows when the receipt does not exist or belongs to another user.
func (r *NotificationRepository) MarkReceiptRead(ctx context.Context, receiptID, userID string, readAt time.Time) error {
	const query = `UPDATE notification_receipts SET read = TRUE, read_at = COALESCE(read_at, $3) WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, receiptID, userID, readAt)
	if err != nil {
		return fmt.Errorf("mark receipt read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark receipt read: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a notification. Its receipts cascade with it.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
