package models

import "time"

// Weekday enumerates the teaching days. Classes run Monday through Friday.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
)

// Valid reports whether the value is a teaching day.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// weekdayOrder fixes Monday-first ordering for schedule listings.
var weekdayOrder = map[Weekday]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
}

// Order returns the Monday-first position of the day, or 0 when unknown.
func (d Weekday) Order() int {
	return weekdayOrder[d]
}

// Schedule represents a recurring weekly time slot binding a course, room and manager.
// Times are stored as "HH:MM" strings.
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	ManagerID string    `db:"manager_id" json:"manager_id"`
	Day       Weekday   `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail enriches Schedule with course, room and manager info.
type ScheduleDetail struct {
	Schedule
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	RoomCode    string `db:"room_code" json:"room_code"`
	ManagerName string `db:"manager_name" json:"manager_name"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	ProgramID string
	CourseID  string
	RoomID    string
	ManagerID string
	Day       Weekday
	Page      int
	PageSize  int
}
