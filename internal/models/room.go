package models

import "time"

// Room represents a teaching room. Type uses the same theory/lab values as
// Course: lab courses require lab rooms and theory courses theory rooms.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"room_type" json:"room_type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Fits reports whether the room can host a section of the given size for a
// course of the given type.
func (r Room) Fits(courseType string, studentCount int) bool {
	return r.Type == courseType && r.Capacity >= studentCount
}
