package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

func newSimulationService(store *memoryTimetableStore, historySize int) *SimulationService {
	return NewSimulationService(
		store,
		stubFaculty{items: []models.Faculty{{ID: "fac1", Name: "Dr. Rao"}, {ID: "fac2", Name: "Dr. Iyer"}}},
		stubCourses{items: []models.Course{{ID: "crs1", Name: "Algorithms", Type: models.CourseTypeTheory}}},
		stubRooms{items: []models.Room{
			{ID: "room1", Name: "R101", Type: models.CourseTypeTheory, Capacity: 50},
			{ID: "room2", Name: "R102", Type: models.CourseTypeTheory, Capacity: 60},
			{ID: "room3", Name: "R103", Type: models.CourseTypeTheory, Capacity: 30},
		}},
		stubSections{items: []models.Section{{ID: "sec1", Name: "CS-A", StudentCount: 40}, {ID: "sec2", Name: "CS-B", StudentCount: 45}}},
		stubTimeslots{items: weekSlots("Monday", "Tuesday")},
		stubAvailability{},
		historySize,
		zap.NewNop(),
	)
}

func simulationAssignments() []models.Assignment {
	return []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
		{ID: "a2", ProposalID: 1, SectionID: "sec2", CourseID: "crs1", FacultyID: "fac1", RoomID: "room2", TimeslotID: "Monday-2"},
		{ID: "a3", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Tuesday-1"},
	}
}

func TestSimulateFacultyUnavailable(t *testing.T) {
	store := &memoryTimetableStore{assignments: simulationAssignments()}
	svc := newSimulationService(store, 10)

	record, err := svc.SimulateFacultyUnavailable(context.Background(), 1, "fac1", "Monday")
	require.NoError(t, err)

	assert.Equal(t, models.SimulationFacultyUnavailable, record.Type)
	assert.Equal(t, "fac1", record.TargetID)
	assert.Equal(t, "Dr. Rao", record.TargetName)
	assert.Equal(t, 2, record.ClassesAffected)
	assert.Equal(t, 85, record.StudentsImpacted)
	// 2 classes * 2 + 85 students / 10 = 12.
	assert.Equal(t, 12, record.ImpactScore)
	assert.Equal(t, models.SeverityMedium, record.Severity)
	assert.Len(t, record.AffectedClasses, 2)
	assert.NotEmpty(t, record.Recommendations)
}

func TestSimulateCountsEachSectionOnce(t *testing.T) {
	store := &memoryTimetableStore{assignments: []models.Assignment{
		{ID: "a1", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room1", TimeslotID: "Monday-1"},
		{ID: "a2", ProposalID: 1, SectionID: "sec1", CourseID: "crs1", FacultyID: "fac1", RoomID: "room2", TimeslotID: "Monday-2"},
	}}
	svc := newSimulationService(store, 10)

	record, err := svc.SimulateFacultyUnavailable(context.Background(), 1, "fac1", "Monday")
	require.NoError(t, err)

	assert.Equal(t, 2, record.ClassesAffected)
	assert.Equal(t, 40, record.StudentsImpacted)
	// 2 classes * 2 + 40 students / 10 = 8.
	assert.Equal(t, 8, record.ImpactScore)
	assert.Equal(t, models.SeverityMedium, record.Severity)
}

func TestSimulateRoomShortageListsComparableRooms(t *testing.T) {
	store := &memoryTimetableStore{assignments: simulationAssignments()}
	svc := newSimulationService(store, 10)

	record, err := svc.SimulateRoomShortage(context.Background(), 1, "room1", "Monday")
	require.NoError(t, err)

	assert.Equal(t, models.SimulationRoomShortage, record.Type)
	assert.Equal(t, 1, record.ClassesAffected)
	assert.Equal(t, 40, record.StudentsImpacted)
	// 1 class * 3 + 40 students / 15 = 5.
	assert.Equal(t, 5, record.ImpactScore)

	// Only rooms of the same type with at least room1's capacity qualify.
	require.Len(t, record.AlternativeRooms, 1)
	assert.Equal(t, "room2", record.AlternativeRooms[0].ID)
}

func TestSimulationSeverityThresholds(t *testing.T) {
	assert.Equal(t, models.SeverityMedium, severityFor(25))
	assert.Equal(t, models.SeverityHigh, severityFor(26))
	assert.Equal(t, models.SeverityHigh, severityFor(50))
	assert.Equal(t, models.SeverityCritical, severityFor(51))
}

func TestSimulationImpactScoreCaps(t *testing.T) {
	assert.Equal(t, 100, facultyImpactScore(40, 500))
	assert.Equal(t, 100, roomImpactScore(30, 300))
}

func TestSimulationUnknownTargets(t *testing.T) {
	store := &memoryTimetableStore{}
	svc := newSimulationService(store, 10)

	_, err := svc.SimulateFacultyUnavailable(context.Background(), 1, "ghost", "Monday")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.SimulateRoomShortage(context.Background(), 1, "ghost", "Monday")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.SimulateFacultyUnavailable(context.Background(), 1, "fac1", "Someday")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSimulationHistoryAndCompare(t *testing.T) {
	store := &memoryTimetableStore{assignments: simulationAssignments()}
	svc := newSimulationService(store, 10)

	facultyRun, err := svc.SimulateFacultyUnavailable(context.Background(), 1, "fac1", "Monday")
	require.NoError(t, err)
	roomRun, err := svc.SimulateRoomShortage(context.Background(), 1, "room1", "Monday")
	require.NoError(t, err)

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, roomRun.ID, history[0].ID)
	assert.Equal(t, facultyRun.ID, history[1].ID)

	comparison, err := svc.Compare(facultyRun.ID, roomRun.ID)
	require.NoError(t, err)
	// Impact 12 vs 5: the room loss is the smaller disruption.
	assert.Equal(t, 2, comparison.Winner)
	assert.Equal(t, 7, comparison.ScoreDifference)
	assert.Contains(t, comparison.Recommendation, "scenario 2")

	_, err = svc.Compare(facultyRun.ID, "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	svc.ClearHistory()
	assert.Empty(t, svc.History())
}
