package models

import "time"

// TimeSlot is one teaching period. Slot is the ordinal within the day,
// unique per day; StartTime/EndTime are optional display values.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	Day       string    `db:"day" json:"day"`
	Slot      int       `db:"slot" json:"slot"`
	StartTime *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime   *string   `db:"end_time" json:"end_time,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
