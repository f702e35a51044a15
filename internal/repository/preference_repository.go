package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/horario-api/internal/models"
)

// PreferenceRepository provides persistence for per-user preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates the repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindByUser returns the user's preference row.
func (r *PreferenceRepository) FindByUser(ctx context.Context, userID string) (*models.Preference, error) {
	const query = `SELECT id, user_id, dark_theme, updated_at FROM preferences WHERE user_id = $1`
	var pref models.Preference
	if err := r.db.GetContext(ctx, &pref, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find preference: %w", err)
	}
	return &pref, nil
}

// ToggleDarkTheme creates the user's preference row when missing and flips
// the dark-theme flag in one statement, returning the new value. The upsert
// makes concurrent toggles serialize on the user_id unique index.
func (r *PreferenceRepository) ToggleDarkTheme(ctx context.Context, userID string) (bool, error) {
	const query = `INSERT INTO preferences (id, user_id, dark_theme, updated_at)
        VALUES ($1, $2, TRUE, NOW())
        ON CONFLICT (user_id)
        DO UPDATE SET dark_theme = NOT preferences.dark_theme, updated_at = NOW()
        RETURNING dark_theme`
	var darkTheme bool
	if err := r.db.GetContext(ctx, &darkTheme, query, uuid.NewString(), userID); err != nil {
		return false, fmt.Errorf("toggle dark theme: %w", err)
	}
	return darkTheme, nil
}
