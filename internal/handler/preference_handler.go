package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/horario-api/internal/service"
	appErrors "github.com/campushq/horario-api/pkg/errors"
	"github.com/campushq/horario-api/pkg/response"
)

// PreferenceHandler handles per-user preference endpoints.
type PreferenceHandler struct {
	service *service.PreferenceService
}

// NewPreferenceHandler constructs a preference handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// Get godoc
// @Summary Get the acting user's preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	pref, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref, nil)
}

// ToggleDarkTheme godoc
// @Summary Flip the acting user's dark-theme flag
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences/dark-theme [post]
func (h *PreferenceHandler) ToggleDarkTheme(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dark, err := h.service.ToggleDarkTheme(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"dark_theme": dark}, nil)
}
