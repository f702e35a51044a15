package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type preferenceRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.Preference, error)
	ToggleDarkTheme(ctx context.Context, userID string) (bool, error)
}

// PreferenceService manages per-user display preferences.
type PreferenceService struct {
	repo   preferenceRepository
	logger *zap.Logger
}

// NewPreferenceService constructs PreferenceService.
func NewPreferenceService(repo preferenceRepository, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, logger: logger}
}

// Get returns the user's preferences. Users without a stored row get the
// defaults back.
func (s *PreferenceService) Get(ctx context.Context, userID string) (*models.Preference, error) {
	pref, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Preference{UserID: userID, DarkTheme: false}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	return pref, nil
}

// ToggleDarkTheme flips the user's dark-theme flag in a single upsert and
// returns the new value. The first toggle for a user yields true.
func (s *PreferenceService) ToggleDarkTheme(ctx context.Context, userID string) (bool, error) {
	dark, err := s.repo.ToggleDarkTheme(ctx, userID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle dark theme")
	}
	return dark, nil
}
