package models

import "time"

// FacultyAvailability marks a faculty member as available (or explicitly
// unavailable) for a single time slot. The builder treats a missing record
// as not available; availability is explicit opt-in.
type FacultyAvailability struct {
	ID          string    `db:"id" json:"id"`
	FacultyID   string    `db:"faculty_id" json:"faculty_id"`
	TimeslotID  string    `db:"timeslot_id" json:"timeslot_id"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AvailabilityIndex maps faculty id -> timeslot id -> explicit availability
// flag. Lookup semantics differ by consumer: the builder requires an entry
// with value true, while the resolver and substitute search only reject an
// entry with value false.
type AvailabilityIndex map[string]map[string]bool

// BuildAvailabilityIndex folds availability rows into an index.
func BuildAvailabilityIndex(rows []FacultyAvailability) AvailabilityIndex {
	idx := make(AvailabilityIndex)
	for _, row := range rows {
		if idx[row.FacultyID] == nil {
			idx[row.FacultyID] = make(map[string]bool)
		}
		idx[row.FacultyID][row.TimeslotID] = row.IsAvailable
	}
	return idx
}

// CanTeach reports opt-in availability: true only for an explicit
// is_available=true record.
func (idx AvailabilityIndex) CanTeach(facultyID, timeslotID string) bool {
	slots, ok := idx[facultyID]
	if !ok {
		return false
	}
	return slots[timeslotID]
}

// Denied reports an explicit is_available=false record.
func (idx AvailabilityIndex) Denied(facultyID, timeslotID string) bool {
	slots, ok := idx[facultyID]
	if !ok {
		return false
	}
	available, recorded := slots[timeslotID]
	return recorded && !available
}
