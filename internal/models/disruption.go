package models

// SubstituteOption proposes a faculty member free to cover a slot.
type SubstituteOption struct {
	FacultyID string `json:"faculty_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

// SlotRoomOption proposes moving a class to another slot, optionally into a
// different room.
type SlotRoomOption struct {
	Timeslot TimeSlot `json:"timeslot"`
	Room     Room     `json:"room"`
	Note     string   `json:"note,omitempty"`
}

// FacultyLeaveResult lists the repair options for one class affected by a
// faculty member being away for a day.
type FacultyLeaveResult struct {
	Assignment  Assignment         `json:"assignment"`
	Substitutes []SubstituteOption `json:"substitutes"`
	Reschedule  []SlotRoomOption   `json:"reschedule"`
}

// RoomOutageResult lists the repair options for one class affected by a
// room being out of service for a day.
type RoomOutageResult struct {
	Assignment     Assignment       `json:"assignment"`
	AlternateRooms []Room           `json:"alternate_rooms"`
	Reschedule     []SlotRoomOption `json:"reschedule"`
}

// HolidayResult lists make-up options for one class cancelled by a holiday.
type HolidayResult struct {
	Assignment          Assignment       `json:"assignment"`
	CompensationOptions []SlotRoomOption `json:"compensation_options"`
}
