package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	"github.com/opencampus/timetable-api/pkg/config"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

func weekSlots(days ...string) []models.TimeSlot {
	slots := []models.TimeSlot{}
	for _, day := range days {
		for n := 1; n <= 2; n++ {
			slots = append(slots, models.TimeSlot{ID: fmt.Sprintf("%s-%d", day, n), Day: day, Slot: n})
		}
	}
	return slots
}

func newDisruptionService(store *memoryTimetableStore, availability []models.FacultyAvailability, slots []models.TimeSlot) *DisruptionService {
	return NewDisruptionService(
		store,
		stubFaculty{items: []models.Faculty{{ID: "fac1", Name: "Dr. Rao"}, {ID: "fac2", Name: "Dr. Iyer"}}},
		stubCourses{items: []models.Course{{ID: "crs1", Name: "Algorithms", Type: models.CourseTypeTheory}}},
		stubRooms{items: []models.Room{
			{ID: "room1", Name: "R101", Type: models.CourseTypeTheory, Capacity: 50},
			{ID: "room2", Name: "R102", Type: models.CourseTypeTheory, Capacity: 50},
		}},
		stubSections{items: []models.Section{{ID: "sec1", StudentCount: 40}, {ID: "sec2", StudentCount: 40}}},
		stubTimeslots{items: slots},
		stubAvailability{items: availability},
		config.SchedulerConfig{RescheduleOptions: 3, RoomOutageOptions: 2, HolidayOptions: 2},
		zap.NewNop(),
	)
}

func TestFacultyLeaveProposesSubstitutesAndReschedules(t *testing.T) {
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
	}}
	svc := newDisruptionService(store, nil, weekSlots("Monday", "Tuesday"))

	results, err := svc.FacultyLeave(context.Background(), 1, "fac1", "Monday")
	require.NoError(t, err)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "a1", r.Assignment.ID)

	require.Len(t, r.Substitutes, 1)
	assert.Equal(t, "fac2", r.Substitutes[0].FacultyID)
	assert.Equal(t, "free at this slot", r.Substitutes[0].Reason)

	require.Len(t, r.Reschedule, 2)
	for _, option := range r.Reschedule {
		assert.Equal(t, "Tuesday", option.Timeslot.Day)
		assert.Equal(t, "room1", option.Room.ID)
		assert.Equal(t, "original room", option.Note)
	}
}

func TestFacultyLeaveExcludesBusySubstitutes(t *testing.T) {
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
		{ID: "a2", ProposalID: 1, SectionID: "sec2", CourseID: "crs1", FacultyID: "fac2", RoomID: "room2", TimeslotID: "Monday-1"},
	}}
	svc := newDisruptionService(store, nil, weekSlots("Monday", "Tuesday"))

	results, err := svc.FacultyLeave(context.Background(), 1, "fac1", "Monday")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].Substitutes)
}

func TestFacultyLeaveOffersAlternateRoomWhenOriginalTaken(t *testing.T) {
	// Another class keeps room1 busy in every Tuesday slot.
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
		{ID: "a2", ProposalID: 1, SectionID: "sec2", CourseID: "crs1", FacultyID: "fac2", RoomID: "room1", TimeslotID: "Tuesday-1"},
		{ID: "a3", ProposalID: 1, SectionID: "sec2", CourseID: "crs1", FacultyID: "fac2", RoomID: "room1", TimeslotID: "Tuesday-2"},
	}}
	svc := newDisruptionService(store, nil, weekSlots("Monday", "Tuesday"))

	results, err := svc.FacultyLeave(context.Background(), 1, "fac1", "Monday")
	require.NoError(t, err)

	require.Len(t, results, 1)
	require.Len(t, results[0].Reschedule, 2)
	for _, option := range results[0].Reschedule {
		assert.Equal(t, "room2", option.Room.ID)
		assert.Equal(t, "alternate room", option.Note)
	}
}

func TestFacultyLeaveUnknownFaculty(t *testing.T) {
	store := &memoryTimetableStore{}
	svc := newDisruptionService(store, nil, weekSlots("Monday"))

	_, err := svc.FacultyLeave(context.Background(), 1, "ghost", "Monday")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFacultyLeaveRejectsNonTeachingDay(t *testing.T) {
	store := &memoryTimetableStore{}
	svc := newDisruptionService(store, nil, weekSlots("Monday"))

	_, err := svc.FacultyLeave(context.Background(), 1, "fac1", "Sunday")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRoomOutageListsSameSlotAndRescheduleOptions(t *testing.T) {
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
	}}
	svc := newDisruptionService(store, nil, weekSlots("Monday", "Tuesday"))

	results, err := svc.RoomOutage(context.Background(), 1, "room1", "Monday")
	require.NoError(t, err)

	require.Len(t, results, 1)
	r := results[0]

	require.Len(t, r.AlternateRooms, 1)
	assert.Equal(t, "room2", r.AlternateRooms[0].ID)

	require.Len(t, r.Reschedule, 2)
	for _, option := range r.Reschedule {
		assert.Equal(t, "Tuesday", option.Timeslot.Day)
		assert.Equal(t, "room1", option.Room.ID)
	}
}

func TestRoomOutageUnknownRoom(t *testing.T) {
	store := &memoryTimetableStore{}
	svc := newDisruptionService(store, nil, weekSlots("Monday"))

	_, err := svc.RoomOutage(context.Background(), 1, "ghost", "Monday")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestHolidayProposesMakeUpSlots(t *testing.T) {
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
		{ID: "a2", ProposalID: 1, SectionID: "sec2", CourseID: "crs1", FacultyID: "fac2", RoomID: "room2", TimeslotID: "Monday-2"},
	}}
	svc := newDisruptionService(store, nil, weekSlots("Monday", "Tuesday", "Wednesday"))

	results, err := svc.Holiday(context.Background(), 1, "Monday")
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		require.NotEmpty(t, r.CompensationOptions)
		assert.LessOrEqual(t, len(r.CompensationOptions), 2)
		for _, option := range r.CompensationOptions {
			assert.NotEqual(t, "Monday", option.Timeslot.Day)
			assert.Equal(t, r.Assignment.RoomID, option.Room.ID)
		}
	}
}

func TestHolidayWithoutFreeMakeUpSlots(t *testing.T) {
	// Only the holiday itself has teaching slots, so nothing can move.
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
	}}
	svc := newDisruptionService(store, nil, weekSlots("Monday"))

	results, err := svc.Holiday(context.Background(), 1, "Monday")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].CompensationOptions)
}
