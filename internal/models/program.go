package models

import "time"

// Program represents an academic program offering courses.
type Program struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Code          string    `db:"code" json:"code"`
	CoordinatorID *string   `db:"coordinator_id" json:"coordinator_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProgramDetail enriches Program with the coordinator's name.
type ProgramDetail struct {
	Program
	CoordinatorName *string `db:"coordinator_name" json:"coordinator_name,omitempty"`
}

// ProgramFilter provides filters for listing programs.
type ProgramFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
