package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

type simulationAssignmentReader interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

// SimulationService estimates the blast radius of hypothetical disruptions
// without touching the stored timetable. Runs are kept in a bounded
// in-memory history so two scenarios can be compared.
type SimulationService struct {
	store    simulationAssignmentReader
	catalogs catalogReaders
	history  *simulationHistory
	logger   *zap.Logger
}

// NewSimulationService wires the simulator with a history bounded to
// historySize records.
func NewSimulationService(
	store simulationAssignmentReader,
	faculty facultyReader,
	courses courseReader,
	rooms roomReader,
	sections sectionReader,
	timeslots timeslotReader,
	availability availabilityReader,
	historySize int,
	logger *zap.Logger,
) *SimulationService {
	return &SimulationService{
		store: store,
		catalogs: catalogReaders{
			faculty:      faculty,
			courses:      courses,
			rooms:        rooms,
			sections:     sections,
			timeslots:    timeslots,
			availability: availability,
		},
		history: newSimulationHistory(historySize),
		logger:  logger,
	}
}

// SimulateFacultyUnavailable estimates the impact of a faculty member being
// away on the given day for one proposal.
func (s *SimulationService) SimulateFacultyUnavailable(ctx context.Context, proposalID int, facultyID, day string) (*models.SimulationRecord, error) {
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a teaching day", day))
	}
	cat, assignments, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	faculty, ok := cat.FacultyByID[facultyID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}

	affected, students := s.collectAffected(cat, assignments, func(a models.Assignment, slot models.TimeSlot) bool {
		return a.FacultyID == facultyID && slot.Day == day
	})

	score := facultyImpactScore(len(affected), students)
	record := models.SimulationRecord{
		ID:               uuid.NewString(),
		Type:             models.SimulationFacultyUnavailable,
		Timestamp:        time.Now().UTC(),
		TargetID:         facultyID,
		TargetName:       faculty.Name,
		ImpactScore:      score,
		ClassesAffected:  len(affected),
		StudentsImpacted: students,
		Severity:         severityFor(score),
		Recommendations:  facultyRecommendations(len(affected), faculty.Name, day),
		AffectedClasses:  affected,
	}
	s.history.Add(record)
	s.logger.Info("simulated faculty unavailability",
		zap.String("faculty", facultyID),
		zap.String("day", day),
		zap.Int("impact", score),
	)
	return &record, nil
}

// SimulateRoomShortage estimates the impact of a room dropping out on the
// given day, including which rooms could absorb the displaced classes.
func (s *SimulationService) SimulateRoomShortage(ctx context.Context, proposalID int, roomID, day string) (*models.SimulationRecord, error) {
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a teaching day", day))
	}
	cat, assignments, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	room, ok := cat.RoomsByID[roomID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}

	affected, students := s.collectAffected(cat, assignments, func(a models.Assignment, slot models.TimeSlot) bool {
		return a.RoomID == roomID && slot.Day == day
	})

	alternatives := []models.Room{}
	for _, candidate := range cat.Rooms {
		if candidate.ID != roomID && candidate.Type == room.Type && candidate.Capacity >= room.Capacity {
			alternatives = append(alternatives, candidate)
		}
	}

	score := roomImpactScore(len(affected), students)
	record := models.SimulationRecord{
		ID:               uuid.NewString(),
		Type:             models.SimulationRoomShortage,
		Timestamp:        time.Now().UTC(),
		TargetID:         roomID,
		TargetName:       room.Name,
		ImpactScore:      score,
		ClassesAffected:  len(affected),
		StudentsImpacted: students,
		Severity:         severityFor(score),
		Recommendations:  roomRecommendations(len(affected), len(alternatives), room.Name, day),
		AffectedClasses:  affected,
		AlternativeRooms: alternatives,
	}
	s.history.Add(record)
	s.logger.Info("simulated room shortage",
		zap.String("room", roomID),
		zap.String("day", day),
		zap.Int("impact", score),
	)
	return &record, nil
}

// History returns past simulation runs, newest first.
func (s *SimulationService) History() []models.SimulationRecord {
	return s.history.List()
}

// ClearHistory drops all stored runs.
func (s *SimulationService) ClearHistory() {
	s.history.Clear()
}

// Compare contrasts two stored runs by impact score. The run with the lower
// score is the less disruptive scenario.
func (s *SimulationService) Compare(firstID, secondID string) (*models.SimulationComparison, error) {
	first, ok := s.history.Find(firstID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("simulation %s not found", firstID))
	}
	second, ok := s.history.Find(secondID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("simulation %s not found", secondID))
	}

	comparison := &models.SimulationComparison{
		First:           first,
		Second:          second,
		ScoreDifference: abs(first.ImpactScore - second.ImpactScore),
	}
	switch {
	case first.ImpactScore < second.ImpactScore:
		comparison.Winner = 1
		comparison.Recommendation = fmt.Sprintf("scenario 1 (%s) is less disruptive", first.TargetName)
	case second.ImpactScore < first.ImpactScore:
		comparison.Winner = 2
		comparison.Recommendation = fmt.Sprintf("scenario 2 (%s) is less disruptive", second.TargetName)
	default:
		comparison.Recommendation = "both scenarios have equal impact"
	}
	return comparison, nil
}

func (s *SimulationService) load(ctx context.Context, proposalID int) (*catalog, []models.Assignment, error) {
	cat, err := loadCatalog(ctx, s.catalogs)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := s.store.List(ctx, models.AssignmentFilter{ProposalID: &proposalID})
	if err != nil {
		return nil, nil, err
	}
	return cat, assignments, nil
}

func (s *SimulationService) collectAffected(cat *catalog, assignments []models.Assignment, match func(models.Assignment, models.TimeSlot) bool) ([]models.AffectedClass, int) {
	affected := []models.AffectedClass{}
	students := 0
	seenSections := map[string]bool{}
	for _, a := range assignments {
		slot, ok := cat.SlotsByID[a.TimeslotID]
		if !ok || !match(a, slot) {
			continue
		}
		section := cat.SectionsByID[a.SectionID]
		affected = append(affected, models.AffectedClass{
			Course:  nameOr(cat.CoursesByID[a.CourseID].Name, a.CourseID),
			Section: nameOr(section.Name, a.SectionID),
			Faculty: nameOr(cat.FacultyByID[a.FacultyID].Name, a.FacultyID),
			Room:    nameOr(cat.RoomsByID[a.RoomID].Name, a.RoomID),
			Day:     slot.Day,
			Slot:    slot.Slot,
		})
		// A section hit by several classes still impacts each student once.
		if !seenSections[a.SectionID] {
			seenSections[a.SectionID] = true
			students += section.StudentCount
		}
	}
	return affected, students
}

// facultyImpactScore weighs affected classes double against impacted
// students, capped at 100.
func facultyImpactScore(classes, students int) int {
	score := classes*2 + students/10
	if score > 100 {
		return 100
	}
	return score
}

// roomImpactScore weighs room loss heavier per class since rooms are the
// scarcer resource.
func roomImpactScore(classes, students int) int {
	score := classes*3 + students/15
	if score > 100 {
		return 100
	}
	return score
}

func severityFor(score int) string {
	switch {
	case score > 50:
		return models.SeverityCritical
	case score > 25:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}

func facultyRecommendations(classes int, name, day string) []string {
	if classes == 0 {
		return []string{fmt.Sprintf("%s has no classes on %s; no action needed", name, day)}
	}
	return []string{
		fmt.Sprintf("arrange substitutes for %d classes on %s", classes, day),
		"run the faculty-leave analysis for concrete substitute and reschedule options",
	}
}

func roomRecommendations(classes, alternatives int, name, day string) []string {
	if classes == 0 {
		return []string{fmt.Sprintf("%s hosts no classes on %s; no action needed", name, day)}
	}
	recs := []string{fmt.Sprintf("relocate %d classes out of %s on %s", classes, name, day)}
	if alternatives == 0 {
		recs = append(recs, "no room of comparable type and capacity is free; consider rescheduling instead")
	} else {
		recs = append(recs, fmt.Sprintf("%d rooms of comparable type and capacity could absorb the load", alternatives))
	}
	return recs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
