package models

import "time"

// NotificationType classifies what a notification refers to.
type NotificationType string

const (
	NotificationGeneral  NotificationType = "GENERAL"
	NotificationCourse   NotificationType = "COURSE"
	NotificationSchedule NotificationType = "SCHEDULE"
)

// Valid reports whether the value is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationGeneral, NotificationCourse, NotificationSchedule:
		return true
	}
	return false
}

// Notification represents a persisted notification row.
type Notification struct {
	ID         string           `db:"id" json:"id"`
	Title      string           `db:"title" json:"title"`
	Body       string           `db:"body" json:"body"`
	Type       NotificationType `db:"type" json:"type"`
	SenderID   string           `db:"sender_id" json:"sender_id"`
	CourseID   *string          `db:"course_id" json:"course_id,omitempty"`
	ScheduleID *string          `db:"schedule_id" json:"schedule_id,omitempty"`
	SentAt     time.Time        `db:"sent_at" json:"sent_at"`
}

// NotificationReceipt links a notification to one receiving user.
type NotificationReceipt struct {
	ID             string     `db:"id" json:"id"`
	NotificationID string     `db:"notification_id" json:"notification_id"`
	UserID         string     `db:"user_id" json:"user_id"`
	Read           bool       `db:"read" json:"read"`
	ReadAt         *time.Time `db:"read_at" json:"read_at,omitempty"`
}

// ReceiptDetail enriches a receipt with its notification.
type ReceiptDetail struct {
	NotificationReceipt
	Title  string           `db:"title" json:"title"`
	Body   string           `db:"body" json:"body"`
	Type   NotificationType `db:"type" json:"type"`
	SentAt time.Time        `db:"sent_at" json:"sent_at"`
}

// NotificationFilter provides filters for listing notifications.
type NotificationFilter struct {
	Type     NotificationType
	SenderID string
	CourseID string
	Page     int
	PageSize int
}

// BulkSendResult reports the outcome of a bulk dispatch.
type BulkSendResult struct {
	NotificationID string `json:"notification_id"`
	Receipts       int    `json:"receipts"`
}
