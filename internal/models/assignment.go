package models

import "time"

// Assignment is one scheduled (section, course, faculty, room, timeslot)
// tuple within a proposal. Score is a copy of the owning proposal's total.
type Assignment struct {
	ID         string    `db:"id" json:"id"`
	SectionID  string    `db:"section_id" json:"section_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	FacultyID  string    `db:"faculty_id" json:"faculty_id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	TimeslotID string    `db:"timeslot_id" json:"timeslot_id"`
	ProposalID int       `db:"proposal_id" json:"proposal_id"`
	Score      int       `db:"score" json:"score"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	ProposalID *int
	SectionID  string
	FacultyID  string
	RoomID     string
	TimeslotID string
}

// AssignmentUpdate carries an unvalidated field edit for one assignment.
// Applying these is a passthrough: no clash re-validation is performed.
type AssignmentUpdate struct {
	AssignmentID string  `json:"assignment_id"`
	FacultyID    *string `json:"faculty_id,omitempty"`
	RoomID       *string `json:"room_id,omitempty"`
	TimeslotID   *string `json:"timeslot_id,omitempty"`
}

// ProposalSummary aggregates one stored proposal version.
type ProposalSummary struct {
	ProposalID int       `db:"proposal_id" json:"proposal_id"`
	Score      int       `db:"score" json:"score"`
	EntryCount int       `db:"entry_count" json:"entry_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
