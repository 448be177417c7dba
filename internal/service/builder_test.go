package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/timetable-api/internal/models"
)

func mondaySlots(ordinals ...int) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(ordinals))
	for _, n := range ordinals {
		slots = append(slots, models.TimeSlot{ID: fmt.Sprintf("mon-%d", n), Day: "Monday", Slot: n})
	}
	return slots
}

func availableFor(facultyID string, slots []models.TimeSlot) models.AvailabilityIndex {
	rows := make([]models.FacultyAvailability, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, models.FacultyAvailability{FacultyID: facultyID, TimeslotID: slot.ID, IsAvailable: true})
	}
	return models.BuildAvailabilityIndex(rows)
}

func TestBuilderPlacesSingleTheoryCourse(t *testing.T) {
	slots := mondaySlots(1, 2, 3, 4, 5)
	in := BuildInput{
		Sections:         []models.Section{{ID: "sec1", Name: "CS-A", StudentCount: 40}},
		CoursesBySection: map[string][]models.Course{"sec1": {{ID: "crs1", Name: "Algorithms", Type: models.CourseTypeTheory}}},
		Faculty:          []models.Faculty{{ID: "fac1", Name: "Dr. Rao"}},
		Rooms:            []models.Room{{ID: "room1", Type: models.CourseTypeTheory, Capacity: 50}},
		Timeslots:        slots,
		Availability:     availableFor("fac1", slots),
	}

	placements := NewBuilder(4, 3, rand.New(rand.NewSource(1))).Build(in)

	require.Len(t, placements, 1)
	p := placements[0]
	assert.Equal(t, "sec1", p.SectionID)
	assert.Equal(t, "crs1", p.CourseID)
	assert.Equal(t, "fac1", p.FacultyID)
	assert.Equal(t, "room1", p.RoomID)
	assert.Equal(t, "Monday", p.Day)
}

func TestBuilderHonorsDailyCap(t *testing.T) {
	slots := mondaySlots(1, 2, 3, 4, 5, 6)
	courses := make([]models.Course, 0, 6)
	for i := 1; i <= 6; i++ {
		courses = append(courses, models.Course{ID: fmt.Sprintf("crs%d", i), Name: fmt.Sprintf("Course %d", i), Type: models.CourseTypeTheory})
	}
	in := BuildInput{
		Sections:         []models.Section{{ID: "sec1", StudentCount: 30}},
		CoursesBySection: map[string][]models.Course{"sec1": courses},
		Faculty:          []models.Faculty{{ID: "fac1"}},
		Rooms:            []models.Room{{ID: "room1", Type: models.CourseTypeTheory, Capacity: 40}},
		Timeslots:        slots,
		Availability:     availableFor("fac1", slots),
	}

	placements := NewBuilder(4, 3, rand.New(rand.NewSource(7))).Build(in)

	// Six feasible slots exist, but the only faculty member may teach at
	// most four units on one day.
	assert.Len(t, placements, 4)
}

func TestBuilderLabTakesContiguousBlock(t *testing.T) {
	slots := mondaySlots(1, 2, 3, 4, 5)
	in := BuildInput{
		Sections:         []models.Section{{ID: "sec1", StudentCount: 25}},
		CoursesBySection: map[string][]models.Course{"sec1": {{ID: "lab1", Name: "Physics Lab", Type: models.CourseTypeLab}}},
		Faculty:          []models.Faculty{{ID: "fac1"}},
		Rooms:            []models.Room{{ID: "lab-room", Type: models.CourseTypeLab, Capacity: 30}},
		Timeslots:        slots,
		Availability:     availableFor("fac1", slots),
	}

	placements := NewBuilder(4, 3, rand.New(rand.NewSource(3))).Build(in)

	require.Len(t, placements, 3)
	for i, p := range placements {
		assert.Equal(t, "Monday", p.Day)
		assert.Equal(t, "lab-room", p.RoomID)
		assert.Equal(t, "fac1", p.FacultyID)
		if i > 0 {
			assert.Equal(t, placements[i-1].Slot+1, p.Slot)
		}
	}
}

func TestBuilderLabNeedsUnbrokenOrdinalRun(t *testing.T) {
	// Slot 3 is missing, so no three-slot window is contiguous.
	slots := mondaySlots(1, 2, 4, 5)
	in := BuildInput{
		Sections:         []models.Section{{ID: "sec1", StudentCount: 25}},
		CoursesBySection: map[string][]models.Course{"sec1": {{ID: "lab1", Type: models.CourseTypeLab}}},
		Faculty:          []models.Faculty{{ID: "fac1"}},
		Rooms:            []models.Room{{ID: "lab-room", Type: models.CourseTypeLab, Capacity: 30}},
		Timeslots:        slots,
		Availability:     availableFor("fac1", slots),
	}

	placements := NewBuilder(4, 3, rand.New(rand.NewSource(3))).Build(in)

	assert.Empty(t, placements)
}

func TestBuilderRequiresExplicitAvailability(t *testing.T) {
	slots := mondaySlots(1, 2, 3)
	in := BuildInput{
		Sections:         []models.Section{{ID: "sec1", StudentCount: 40}},
		CoursesBySection: map[string][]models.Course{"sec1": {{ID: "crs1", Type: models.CourseTypeTheory}}},
		Faculty:          []models.Faculty{{ID: "fac1"}},
		Rooms:            []models.Room{{ID: "room1", Type: models.CourseTypeTheory, Capacity: 50}},
		Timeslots:        slots,
		Availability:     models.AvailabilityIndex{},
	}

	placements := NewBuilder(4, 3, rand.New(rand.NewSource(1))).Build(in)

	assert.Empty(t, placements)
}

func TestBuilderRejectsUnsuitableRooms(t *testing.T) {
	slots := mondaySlots(1, 2, 3)
	base := BuildInput{
		Sections:     []models.Section{{ID: "sec1", StudentCount: 40}},
		Faculty:      []models.Faculty{{ID: "fac1"}},
		Timeslots:    slots,
		Availability: availableFor("fac1", slots),
	}

	t.Run("wrong type", func(t *testing.T) {
		in := base
		in.CoursesBySection = map[string][]models.Course{"sec1": {{ID: "crs1", Type: models.CourseTypeTheory}}}
		in.Rooms = []models.Room{{ID: "lab-room", Type: models.CourseTypeLab, Capacity: 60}}
		assert.Empty(t, NewBuilder(4, 3, rand.New(rand.NewSource(1))).Build(in))
	})

	t.Run("too small", func(t *testing.T) {
		in := base
		in.CoursesBySection = map[string][]models.Course{"sec1": {{ID: "crs1", Type: models.CourseTypeTheory}}}
		in.Rooms = []models.Room{{ID: "room1", Type: models.CourseTypeTheory, Capacity: 39}}
		assert.Empty(t, NewBuilder(4, 3, rand.New(rand.NewSource(1))).Build(in))
	})
}

func TestBuilderPrefersBestFitRoom(t *testing.T) {
	slots := mondaySlots(1)
	in := BuildInput{
		Sections:         []models.Section{{ID: "sec1", StudentCount: 40}},
		CoursesBySection: map[string][]models.Course{"sec1": {{ID: "crs1", Type: models.CourseTypeTheory}}},
		Faculty:          []models.Faculty{{ID: "fac1"}},
		Rooms: []models.Room{
			{ID: "hall", Type: models.CourseTypeTheory, Capacity: 120},
			{ID: "small", Type: models.CourseTypeTheory, Capacity: 30},
			{ID: "snug", Type: models.CourseTypeTheory, Capacity: 45},
		},
		Timeslots:    slots,
		Availability: availableFor("fac1", slots),
	}

	placements := NewBuilder(4, 3, rand.New(rand.NewSource(5))).Build(in)

	require.Len(t, placements, 1)
	assert.Equal(t, "snug", placements[0].RoomID)
}

func TestBuilderOutputHasNoClashes(t *testing.T) {
	days := []string{"Monday", "Tuesday", "Wednesday"}
	slots := []models.TimeSlot{}
	for _, day := range days {
		for n := 1; n <= 5; n++ {
			slots = append(slots, models.TimeSlot{ID: fmt.Sprintf("%s-%d", day, n), Day: day, Slot: n})
		}
	}
	courses := []models.Course{
		{ID: "crs1", Type: models.CourseTypeTheory},
		{ID: "crs2", Type: models.CourseTypeTheory},
		{ID: "lab1", Type: models.CourseTypeLab},
	}
	rows := []models.FacultyAvailability{}
	for _, facultyID := range []string{"fac1", "fac2"} {
		for _, slot := range slots {
			rows = append(rows, models.FacultyAvailability{FacultyID: facultyID, TimeslotID: slot.ID, IsAvailable: true})
		}
	}
	availability := models.BuildAvailabilityIndex(rows)

	in := BuildInput{
		Sections: []models.Section{{ID: "sec1", StudentCount: 35}, {ID: "sec2", StudentCount: 45}},
		CoursesBySection: map[string][]models.Course{
			"sec1": courses,
			"sec2": courses,
		},
		Faculty: []models.Faculty{{ID: "fac1"}, {ID: "fac2"}},
		Rooms: []models.Room{
			{ID: "room1", Type: models.CourseTypeTheory, Capacity: 50},
			{ID: "room2", Type: models.CourseTypeTheory, Capacity: 60},
			{ID: "lab-room", Type: models.CourseTypeLab, Capacity: 50},
		},
		Timeslots:    slots,
		Availability: availability,
	}

	for seed := int64(1); seed <= 5; seed++ {
		placements := NewBuilder(4, 3, rand.New(rand.NewSource(seed))).Build(in)
		require.NotEmpty(t, placements)

		sectionSeen := map[string]bool{}
		facultySeen := map[string]bool{}
		roomSeen := map[string]bool{}
		for _, p := range placements {
			sectionKey := p.SectionID + "|" + p.TimeslotID
			facultyKey := p.FacultyID + "|" + p.TimeslotID
			roomKey := p.RoomID + "|" + p.TimeslotID
			assert.False(t, sectionSeen[sectionKey], "section double booked at %s", p.TimeslotID)
			assert.False(t, facultySeen[facultyKey], "faculty double booked at %s", p.TimeslotID)
			assert.False(t, roomSeen[roomKey], "room double booked at %s", p.TimeslotID)
			sectionSeen[sectionKey] = true
			facultySeen[facultyKey] = true
			roomSeen[roomKey] = true
		}
	}
}
