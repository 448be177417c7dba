package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	ConflictTypeFaculty = "faculty"
	ConflictTypeRoom    = "room"
	ConflictTypeSection = "section"
)

// Conflict is a derived record describing one clash group: two or more
// assignments of the same proposal sharing a resource at a time slot.
// Conflicts are disposable; every detection run replaces the scoped set.
type Conflict struct {
	ID         string         `db:"id" json:"id"`
	Type       string         `db:"conflict_type" json:"conflict_type"`
	EntityID   string         `db:"entity_id" json:"entity_id"`
	TimeslotID string         `db:"timeslot_id" json:"timeslot_id"`
	Reason     string         `db:"reason" json:"reason"`
	Detail     pq.StringArray `db:"detail" json:"detail"`
	ProposalID *int           `db:"proposal_id" json:"proposal_id,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// RepairAction records one applied (or attempted) conflict repair.
type RepairAction struct {
	ConflictType string `json:"conflict_type"`
	Action       string `json:"action"`
	AssignmentID string `json:"assignment_id"`
	FromTimeslot string `json:"from_timeslot,omitempty"`
	ToTimeslot   string `json:"to_timeslot,omitempty"`
	FromRoom     string `json:"from_room,omitempty"`
	ToRoom       string `json:"to_room,omitempty"`
}

const (
	RepairActionMoved       = "moved"
	RepairActionRoomChanged = "room_changed"
	RepairActionMovedRoom   = "moved_and_room_changed"
)
