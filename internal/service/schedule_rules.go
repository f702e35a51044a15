package service

import (
	"fmt"
	"strconv"
	"strings"

	appErrors "github.com/campushq/horario-api/pkg/errors"
)

// Business rules carried over from the academic regulations: classes last
// 2-3 hours, run between 07:00 and 18:00, a manager teaches at most 4 classes
// a day and a student holds at most 8 enrollments.
const (
	minClassMinutes = 120
	maxClassMinutes = 180

	windowStartMinute = 7 * 60  // 07:00
	windowEndMinute   = 18 * 60 // 18:00

	maxClassesPerDay = 4
	maxEnrollments   = 8

	// maxStudentClassesPerDay only drives the day-view warning, it is not a
	// write-time constraint.
	maxStudentClassesPerDay = 4
)

// parseClock converts "HH:MM" (optionally "HH:MM:SS") into a minute-of-day.
func parseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// ValidateTimeSlot checks the slot invariants: end after start, duration in
// [120,180] minutes and the whole class inside the 07:00-18:00 window. It has
// no side effects; callers persist only after it passes.
func ValidateTimeSlot(start, end string) error {
	startMin, err := parseClock(start)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start time")
	}
	endMin, err := parseClock(end)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end time")
	}

	if endMin <= startMin {
		return appErrors.ErrInvalidTimeRange
	}
	duration := endMin - startMin
	if duration < minClassMinutes || duration > maxClassMinutes {
		return appErrors.ErrInvalidDuration
	}
	if startMin < windowStartMinute || endMin > windowEndMinute {
		return appErrors.ErrOutOfWindow
	}
	return nil
}
