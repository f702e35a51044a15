package models

import "time"

// Preference holds per-user display settings. One row per user.
type Preference struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	DarkTheme bool      `db:"dark_theme" json:"dark_theme"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
