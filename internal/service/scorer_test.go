package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencampus/timetable-api/internal/models"
)

var (
	scorerRooms = map[string]models.Room{
		"room1": {ID: "room1", Type: models.CourseTypeTheory, Capacity: 50},
	}
	scorerSections = map[string]models.Section{
		"sec1": {ID: "sec1", StudentCount: 40},
	}
	fullSections = map[string]models.Section{
		"sec1": {ID: "sec1", StudentCount: 50},
	}
)

func TestScorerSinglePlacement(t *testing.T) {
	placements := []Placement{
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: 1},
	}
	faculty := []models.Faculty{{ID: "fac1"}}

	breakdown := NewScorer(4).Score(placements, faculty, scorerRooms, scorerSections)

	// Base 1000, room utilization 40/50 adds 16, preference adds 1.
	assert.Equal(t, 1017, breakdown.Total)
	assert.Zero(t, breakdown.WorkloadPenalty)
	assert.Zero(t, breakdown.GapPenalty)
	assert.InDelta(t, 16.0, breakdown.RoomUtilizationBonus, 1e-9)
}

func TestScorerPenalizesIdleSlots(t *testing.T) {
	placements := []Placement{
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: 1},
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: 3},
	}
	faculty := []models.Faculty{{ID: "fac1"}}

	breakdown := NewScorer(4).Score(placements, faculty, scorerRooms, fullSections)

	assert.InDelta(t, 1.25, breakdown.GapPenalty, 1e-9)
	assert.Zero(t, breakdown.CompactnessBonus)
	assert.Equal(t, 1020, breakdown.Total)
}

func TestScorerRewardsBackToBackPairs(t *testing.T) {
	placements := []Placement{
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: 1},
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: 2},
	}
	faculty := []models.Faculty{{ID: "fac1"}}

	breakdown := NewScorer(4).Score(placements, faculty, scorerRooms, fullSections)

	assert.Zero(t, breakdown.GapPenalty)
	assert.InDelta(t, 0.75, breakdown.CompactnessBonus, 1e-9)
	assert.Equal(t, 1022, breakdown.Total)
}

func TestScorerPenalizesWorkloadSpread(t *testing.T) {
	// Both classes land on one of two faculty members, on separate days so
	// neither the gap nor the compactness factor fires.
	placements := []Placement{
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: 1},
		{SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Tuesday", Slot: 1},
	}
	faculty := []models.Faculty{{ID: "fac1"}, {ID: "fac2"}}

	breakdown := NewScorer(4).Score(placements, faculty, scorerRooms, fullSections)

	// Counts [2, 0] have a standard deviation of 1, weighted to 6 points.
	assert.InDelta(t, 6.0, breakdown.WorkloadPenalty, 1e-9)
	assert.Equal(t, 1015, breakdown.Total)
}

func TestScorerOverCapSafetyCheck(t *testing.T) {
	placements := make([]Placement, 0, 5)
	for slot := 1; slot <= 5; slot++ {
		placements = append(placements, Placement{
			SectionID: "sec1", FacultyID: "fac1", RoomID: "room1", Day: "Monday", Slot: slot,
		})
	}
	faculty := []models.Faculty{{ID: "fac1"}}

	breakdown := NewScorer(4).Score(placements, faculty, scorerRooms, fullSections)

	// One faculty-day over the cap of four costs a flat weighted 3 points.
	assert.InDelta(t, 3.0, breakdown.WorkloadPenalty, 1e-9)
	assert.InDelta(t, 3.0, breakdown.CompactnessBonus, 1e-9)
	assert.Equal(t, 1021, breakdown.Total)
}

func TestScorerEmptyCandidate(t *testing.T) {
	breakdown := NewScorer(4).Score(nil, []models.Faculty{{ID: "fac1"}}, scorerRooms, scorerSections)

	assert.Zero(t, breakdown.RoomUtilizationBonus)
	assert.Equal(t, 1001, breakdown.Total)
}
