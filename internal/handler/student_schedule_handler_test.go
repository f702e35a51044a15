package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/horario-api/internal/middleware"
	"github.com/campushq/horario-api/internal/models"
	"github.com/campushq/horario-api/internal/service"
	"github.com/campushq/horario-api/pkg/export"
)

type scheduleReaderStub struct {
	schedules []models.ScheduleDetail
	lastDay   models.Weekday
}

func (s *scheduleReaderStub) ListByStudent(ctx context.Context, studentID string, day models.Weekday) ([]models.ScheduleDetail, error) {
	s.lastDay = day
	return s.schedules, nil
}

func mondayClasses(n int) []models.ScheduleDetail {
	classes := make([]models.ScheduleDetail, n)
	for i := range classes {
		classes[i] = models.ScheduleDetail{
			Schedule:   models.Schedule{ID: "sch-" + string(rune('a'+i)), Day: models.Monday, StartTime: "08:00", EndTime: "10:00"},
			CourseCode: "MAT101",
		}
	}
	return classes
}

func newStudentScheduleFixture(reader *scheduleReaderStub) *StudentScheduleHandler {
	scheduleSvc := service.NewStudentScheduleService(reader, nil)
	exportSvc := service.NewExportService(reader, export.NewCSVExporter(), export.NewPDFExporter(), nil)
	return NewStudentScheduleHandler(scheduleSvc, exportSvc)
}

func TestStudentScheduleHandlerListWithWarnings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newStudentScheduleFixture(&scheduleReaderStub{schedules: mondayClasses(5)})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/student/schedules", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.ScheduleDetail `json:"data"`
		Meta struct {
			Warnings []service.ScheduleWarning `json:"warnings"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 5)
	require.Len(t, envelope.Meta.Warnings, 1)
	assert.Equal(t, service.WarnTooManyForDay, envelope.Meta.Warnings[0].Code)
	assert.Equal(t, 5, envelope.Meta.Warnings[0].Count)
}

func TestStudentScheduleHandlerListDayFilterPassedThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := &scheduleReaderStub{schedules: mondayClasses(2)}
	handler := newStudentScheduleFixture(reader)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/student/schedules?day=MON", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Monday, reader.lastDay)
}

func TestStudentScheduleHandlerListInvalidDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newStudentScheduleFixture(&scheduleReaderStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/student/schedules?day=SUN", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentScheduleHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newStudentScheduleFixture(&scheduleReaderStub{schedules: mondayClasses(1)})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/student/schedules/export?format=csv", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule-stu-1.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Day,Start,End"))
}

func TestStudentScheduleHandlerExportBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newStudentScheduleFixture(&scheduleReaderStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/student/schedules/export?format=xlsx", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
