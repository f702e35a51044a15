package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/horario-api/internal/middleware"
	"github.com/campushq/horario-api/internal/models"
	"github.com/campushq/horario-api/internal/service"
	appErrors "github.com/campushq/horario-api/pkg/errors"
	"github.com/campushq/horario-api/pkg/response"
)

// StudentScheduleHandler serves the acting student's schedule view and export.
type StudentScheduleHandler struct {
	service *service.StudentScheduleService
	export  *service.ExportService
}

// NewStudentScheduleHandler constructs a student schedule handler.
func NewStudentScheduleHandler(svc *service.StudentScheduleService, export *service.ExportService) *StudentScheduleHandler {
	return &StudentScheduleHandler{service: svc, export: export}
}

// List godoc
// @Summary Get the acting student's weekly schedule
// @Description Ordered by day then start time; days with more than four classes carry a warning in meta
// @Tags StudentSchedule
// @Produce json
// @Param day query string false "Filter to one day (MON..FRI)"
// @Success 200 {object} response.Envelope
// @Router /student/schedules [get]
func (h *StudentScheduleHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	day := models.Weekday(c.Query("day"))
	schedules, warnings, err := h.service.List(c.Request.Context(), claims.UserID, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := middleware.ExtractMeta(c)
	if len(warnings) > 0 {
		if meta == nil {
			meta = map[string]interface{}{}
		}
		meta["warnings"] = warnings
	}
	response.JSON(c, http.StatusOK, schedules, nil, meta)
}

// Export godoc
// @Summary Download the acting student's schedule
// @Tags StudentSchedule
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} file
// @Router /student/schedules/export [get]
func (h *StudentScheduleHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.export.StudentSchedule(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
