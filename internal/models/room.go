package models

import "time"

// Room represents a physical classroom.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Building  string    `db:"building" json:"building"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter provides filters for listing rooms.
type RoomFilter struct {
	Building  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
