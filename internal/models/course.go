package models

import "time"

// Course represents a course taught within a program.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	ProgramID string    `db:"program_id" json:"program_id"`
	Credits   int       `db:"credits" json:"credits"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with program info and manager assignments.
type CourseDetail struct {
	Course
	ProgramName string   `db:"program_name" json:"program_name"`
	ManagerIDs  []string `db:"-" json:"manager_ids"`
}

// CourseFilter provides filters for listing courses.
type CourseFilter struct {
	ProgramID string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
