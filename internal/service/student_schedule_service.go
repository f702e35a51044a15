package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

// WarnTooManyForDay flags a day holding more than four classes in a
// student's schedule view. Reporting only, it never blocks a write.
const WarnTooManyForDay = "TOO_MANY_FOR_DAY"

type studentScheduleReader interface {
	ListByStudent(ctx context.Context, studentID string, day models.Weekday) ([]models.ScheduleDetail, error)
}

// ScheduleWarning annotates a student's schedule view.
type ScheduleWarning struct {
	Code  string         `json:"code"`
	Day   models.Weekday `json:"day"`
	Count int            `json:"count"`
}

// StudentScheduleService assembles a student's weekly view from their
// enrolled courses.
type StudentScheduleService struct {
	schedules studentScheduleReader
	logger    *zap.Logger
}

// NewStudentScheduleService constructs StudentScheduleService.
func NewStudentScheduleService(schedules studentScheduleReader, logger *zap.Logger) *StudentScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentScheduleService{schedules: schedules, logger: logger}
}

// List returns the student's schedule, optionally filtered to one day,
// ordered by day then start time. Days exceeding four classes get a
// TOO_MANY_FOR_DAY warning attached.
func (s *StudentScheduleService) List(ctx context.Context, studentID string, day models.Weekday) ([]models.ScheduleDetail, []ScheduleWarning, error) {
	if day != "" && !day.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid day")
	}
	schedules, err := s.schedules.ListByStudent(ctx, studentID, day)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}
	return schedules, dayWarnings(schedules), nil
}

func dayWarnings(schedules []models.ScheduleDetail) []ScheduleWarning {
	counts := map[models.Weekday]int{}
	for _, sched := range schedules {
		counts[sched.Day]++
	}
	var warnings []ScheduleWarning
	for _, day := range []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday} {
		if counts[day] > maxStudentClassesPerDay {
			warnings = append(warnings, ScheduleWarning{Code: WarnTooManyForDay, Day: day, Count: counts[day]})
		}
	}
	return warnings
}
