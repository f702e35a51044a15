package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type mockStudentScheduleReader struct {
	schedules map[string][]models.ScheduleDetail
}

func (m *mockStudentScheduleReader) ListByStudent(ctx context.Context, studentID string, day models.Weekday) ([]models.ScheduleDetail, error) {
	all := m.schedules[studentID]
	if day == "" {
		return all, nil
	}
	var filtered []models.ScheduleDetail
	for _, sched := range all {
		if sched.Day == day {
			filtered = append(filtered, sched)
		}
	}
	return filtered, nil
}

func classOn(day models.Weekday, start string) models.ScheduleDetail {
	return models.ScheduleDetail{
		Schedule:   models.Schedule{ID: "sch-" + start, Day: day, StartTime: start},
		CourseCode: "MAT101",
	}
}

func TestStudentScheduleServiceList(t *testing.T) {
	reader := &mockStudentScheduleReader{schedules: map[string][]models.ScheduleDetail{
		"stu-1": {classOn(models.Monday, "08:00"), classOn(models.Tuesday, "10:00")},
	}}
	svc := NewStudentScheduleService(reader, nil)

	schedules, warnings, err := svc.List(context.Background(), "stu-1", "")
	require.NoError(t, err)
	assert.Len(t, schedules, 2)
	assert.Empty(t, warnings)
}

func TestStudentScheduleServiceListFiltersByDay(t *testing.T) {
	reader := &mockStudentScheduleReader{schedules: map[string][]models.ScheduleDetail{
		"stu-1": {classOn(models.Monday, "08:00"), classOn(models.Tuesday, "10:00")},
	}}
	svc := NewStudentScheduleService(reader, nil)

	schedules, _, err := svc.List(context.Background(), "stu-1", models.Monday)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, models.Monday, schedules[0].Day)
}

func TestStudentScheduleServiceWarnsOnOverloadedDay(t *testing.T) {
	reader := &mockStudentScheduleReader{schedules: map[string][]models.ScheduleDetail{
		"stu-1": {
			classOn(models.Monday, "07:00"),
			classOn(models.Monday, "09:00"),
			classOn(models.Monday, "11:00"),
			classOn(models.Monday, "13:00"),
			classOn(models.Monday, "15:00"),
			classOn(models.Friday, "08:00"),
		},
	}}
	svc := NewStudentScheduleService(reader, nil)

	schedules, warnings, err := svc.List(context.Background(), "stu-1", "")
	require.NoError(t, err)
	assert.Len(t, schedules, 6)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnTooManyForDay, warnings[0].Code)
	assert.Equal(t, models.Monday, warnings[0].Day)
	assert.Equal(t, 5, warnings[0].Count)
}

func TestStudentScheduleServiceRejectsInvalidDay(t *testing.T) {
	svc := NewStudentScheduleService(&mockStudentScheduleReader{}, nil)

	_, _, err := svc.List(context.Background(), "stu-1", models.Weekday("SUN"))
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
