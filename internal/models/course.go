package models

import "time"

const (
	CourseTypeTheory = "theory"
	CourseTypeLab    = "lab"
)

// Course represents a subject offered during the term.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Type         string    `db:"course_type" json:"course_type"`
	HoursPerWeek int       `db:"hours_per_week" json:"hours_per_week"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsLab reports whether the course needs a lab room and a contiguous block.
func (c Course) IsLab() bool {
	return c.Type == CourseTypeLab
}
