package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/horario-api/pkg/response"
)

// DiscoveryHandler serves the public resource index at the API root.
type DiscoveryHandler struct {
	prefix string
}

// NewDiscoveryHandler constructs a discovery handler.
func NewDiscoveryHandler(prefix string) *DiscoveryHandler {
	return &DiscoveryHandler{prefix: prefix}
}

// Index godoc
// @Summary List available API resources
// @Tags Discovery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *DiscoveryHandler) Index(c *gin.Context) {
	base := h.prefix
	resources := gin.H{
		"users":         base + "/users",
		"programs":      base + "/programs",
		"courses":       base + "/courses",
		"course_search": base + "/courses/search",
		"rooms":         base + "/rooms",
		"schedules":     base + "/schedules",
		"enrollments":   base + "/enrollments",
		"notifications": base + "/notifications",
		"preferences":   base + "/preferences",
		"my_schedule":   base + "/student/schedules",
		"auth":          base + "/auth/token",
	}
	response.JSON(c, http.StatusOK, resources, nil)
}
