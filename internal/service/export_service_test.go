package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/horario-api/internal/models"
	"github.com/campushq/horario-api/pkg/export"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

func exportFixture() *mockStudentScheduleReader {
	return &mockStudentScheduleReader{schedules: map[string][]models.ScheduleDetail{
		"stu-1": {
			{
				Schedule:    models.Schedule{ID: "sch-1", Day: models.Monday, StartTime: "08:00", EndTime: "10:30"},
				CourseCode:  "MAT101",
				CourseName:  "Calculus I",
				RoomCode:    "A-201",
				ManagerName: "Ada Manager",
			},
		},
	}}
}

func TestExportServiceStudentScheduleCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), export.NewCSVExporter(), export.NewPDFExporter(), nil)

	file, err := svc.StudentSchedule(context.Background(), "stu-1", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "schedule-stu-1.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Data)
	assert.True(t, strings.HasPrefix(body, "Day,Start,End,Course Code,Course,Room,Manager"))
	assert.Contains(t, body, "MON,08:00,10:30,MAT101,Calculus I,A-201,Ada Manager")
}

func TestExportServiceStudentSchedulePDF(t *testing.T) {
	svc := NewExportService(exportFixture(), export.NewCSVExporter(), export.NewPDFExporter(), nil)

	file, err := svc.StudentSchedule(context.Background(), "stu-1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "schedule-stu-1.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.NotEmpty(t, file.Data)
}

func TestExportServiceStudentScheduleBadFormat(t *testing.T) {
	svc := NewExportService(exportFixture(), export.NewCSVExporter(), export.NewPDFExporter(), nil)

	_, err := svc.StudentSchedule(context.Background(), "stu-1", "xlsx")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
