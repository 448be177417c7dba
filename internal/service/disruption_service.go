package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	"github.com/opencampus/timetable-api/pkg/config"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

type disruptionAssignmentReader interface {
	ListByProposal(ctx context.Context, proposalID int) ([]models.Assignment, error)
}

// DisruptionService answers what-if queries about faculty leave, room
// outages, and holidays. Every entry point is read-only: it proposes repair
// options and never touches the store. Committing a chosen option goes
// through the apply-changes passthrough.
type DisruptionService struct {
	store    disruptionAssignmentReader
	catalogs catalogReaders
	cfg      config.SchedulerConfig
	logger   *zap.Logger
}

// NewDisruptionService wires the analyzer.
func NewDisruptionService(
	store disruptionAssignmentReader,
	faculty facultyReader,
	courses courseReader,
	rooms roomReader,
	sections sectionReader,
	timeslots timeslotReader,
	availability availabilityReader,
	cfg config.SchedulerConfig,
	logger *zap.Logger,
) *DisruptionService {
	return &DisruptionService{
		store: store,
		catalogs: catalogReaders{
			faculty:      faculty,
			courses:      courses,
			rooms:        rooms,
			sections:     sections,
			timeslots:    timeslots,
			availability: availability,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// FacultyLeave lists, for each class the absent faculty member teaches that
// day, substitute faculty free at the exact slot plus a bounded number of
// alternative-day slot and room combinations.
func (s *DisruptionService) FacultyLeave(ctx context.Context, proposalID int, facultyID, day string) ([]models.FacultyLeaveResult, error) {
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a teaching day", day))
	}
	cat, assignments, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if _, ok := cat.FacultyByID[facultyID]; !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
	}

	results := []models.FacultyLeaveResult{}
	for _, a := range assignments {
		slot, ok := cat.SlotsByID[a.TimeslotID]
		if !ok || a.FacultyID != facultyID || slot.Day != day {
			continue
		}
		results = append(results, models.FacultyLeaveResult{
			Assignment:  a,
			Substitutes: s.substitutes(cat, assignments, a),
			Reschedule:  s.rescheduleOptions(cat, assignments, a, day, s.cfg.RescheduleOptions, true),
		})
	}
	return results, nil
}

// RoomOutage lists, for each class hosted in the room that day, same-slot
// alternative rooms plus a bounded number of alternative-day slots keeping
// the original room.
func (s *DisruptionService) RoomOutage(ctx context.Context, proposalID int, roomID, day string) ([]models.RoomOutageResult, error) {
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a teaching day", day))
	}
	cat, assignments, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if _, ok := cat.RoomsByID[roomID]; !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}

	results := []models.RoomOutageResult{}
	for _, a := range assignments {
		slot, ok := cat.SlotsByID[a.TimeslotID]
		if !ok || a.RoomID != roomID || slot.Day != day {
			continue
		}
		results = append(results, models.RoomOutageResult{
			Assignment:     a,
			AlternateRooms: s.sameSlotRooms(cat, assignments, a),
			Reschedule:     s.originalRoomSlots(cat, assignments, a, day, s.cfg.RoomOutageOptions),
		})
	}
	return results, nil
}

// Holiday lists, for every class on the cancelled day, make-up slots on
// other days where faculty, section, and the original room are all free.
// There is no alternate-room search in this path.
func (s *DisruptionService) Holiday(ctx context.Context, proposalID int, day string) ([]models.HolidayResult, error) {
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%q is not a teaching day", day))
	}
	cat, assignments, err := s.load(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	results := []models.HolidayResult{}
	for _, a := range assignments {
		slot, ok := cat.SlotsByID[a.TimeslotID]
		if !ok || slot.Day != day {
			continue
		}
		results = append(results, models.HolidayResult{
			Assignment:          a,
			CompensationOptions: s.originalRoomSlots(cat, assignments, a, day, s.cfg.HolidayOptions),
		})
	}
	return results, nil
}

func (s *DisruptionService) load(ctx context.Context, proposalID int) (*catalog, []models.Assignment, error) {
	cat, err := loadCatalog(ctx, s.catalogs)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := s.store.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}
	return cat, assignments, nil
}

// substitutes finds faculty free at the assignment's exact slot and not
// explicitly marked unavailable for it.
func (s *DisruptionService) substitutes(cat *catalog, assignments []models.Assignment, a models.Assignment) []models.SubstituteOption {
	options := []models.SubstituteOption{}
	for _, f := range cat.Faculty {
		if f.ID == a.FacultyID {
			continue
		}
		if cat.Availability.Denied(f.ID, a.TimeslotID) {
			continue
		}
		if !assignmentFree(assignments, func(other models.Assignment) bool {
			return other.FacultyID == f.ID && other.TimeslotID == a.TimeslotID
		}) {
			continue
		}
		options = append(options, models.SubstituteOption{
			FacultyID: f.ID,
			Name:      f.Name,
			Reason:    "free at this slot",
		})
	}
	return options
}

// rescheduleOptions finds up to limit slots on days other than skipDay where
// the assignment's faculty and section are free. The original room is
// preferred; when allowAlternate is set and the original room is taken, a
// capacity and type matching alternate room is offered instead.
func (s *DisruptionService) rescheduleOptions(cat *catalog, assignments []models.Assignment, a models.Assignment, skipDay string, limit int, allowAlternate bool) []models.SlotRoomOption {
	course := cat.CoursesByID[a.CourseID]
	section := cat.SectionsByID[a.SectionID]

	options := []models.SlotRoomOption{}
	for _, slot := range cat.Timeslots {
		if len(options) >= limit {
			break
		}
		if slot.Day == skipDay {
			continue
		}
		if cat.Availability.Denied(a.FacultyID, slot.ID) {
			continue
		}
		facultyFree := assignmentFree(assignments, func(other models.Assignment) bool {
			return other.ID != a.ID && other.FacultyID == a.FacultyID && other.TimeslotID == slot.ID
		})
		sectionFree := assignmentFree(assignments, func(other models.Assignment) bool {
			return other.ID != a.ID && other.SectionID == a.SectionID && other.TimeslotID == slot.ID
		})
		if !facultyFree || !sectionFree {
			continue
		}

		if roomFreeAt(assignments, a.RoomID, slot.ID, a.ID) {
			options = append(options, models.SlotRoomOption{
				Timeslot: slot,
				Room:     cat.RoomsByID[a.RoomID],
				Note:     "original room",
			})
			continue
		}
		if !allowAlternate {
			continue
		}
		for _, room := range cat.Rooms {
			if room.ID == a.RoomID || !room.Fits(course.Type, section.StudentCount) {
				continue
			}
			if !roomFreeAt(assignments, room.ID, slot.ID, a.ID) {
				continue
			}
			options = append(options, models.SlotRoomOption{
				Timeslot: slot,
				Room:     room,
				Note:     "alternate room",
			})
			break
		}
	}
	return options
}

// originalRoomSlots finds up to limit slots on other days where faculty,
// section, and the original room are simultaneously free.
func (s *DisruptionService) originalRoomSlots(cat *catalog, assignments []models.Assignment, a models.Assignment, skipDay string, limit int) []models.SlotRoomOption {
	options := []models.SlotRoomOption{}
	for _, slot := range cat.Timeslots {
		if len(options) >= limit {
			break
		}
		if slot.Day == skipDay {
			continue
		}
		if cat.Availability.Denied(a.FacultyID, slot.ID) {
			continue
		}
		facultyFree := assignmentFree(assignments, func(other models.Assignment) bool {
			return other.ID != a.ID && other.FacultyID == a.FacultyID && other.TimeslotID == slot.ID
		})
		sectionFree := assignmentFree(assignments, func(other models.Assignment) bool {
			return other.ID != a.ID && other.SectionID == a.SectionID && other.TimeslotID == slot.ID
		})
		if !facultyFree || !sectionFree || !roomFreeAt(assignments, a.RoomID, slot.ID, a.ID) {
			continue
		}
		options = append(options, models.SlotRoomOption{
			Timeslot: slot,
			Room:     cat.RoomsByID[a.RoomID],
			Note:     "original room",
		})
	}
	return options
}

// sameSlotRooms finds alternative rooms free at the assignment's own slot
// with matching type and sufficient capacity.
func (s *DisruptionService) sameSlotRooms(cat *catalog, assignments []models.Assignment, a models.Assignment) []models.Room {
	course := cat.CoursesByID[a.CourseID]
	section := cat.SectionsByID[a.SectionID]

	rooms := []models.Room{}
	for _, room := range cat.Rooms {
		if room.ID == a.RoomID || !room.Fits(course.Type, section.StudentCount) {
			continue
		}
		if !roomFreeAt(assignments, room.ID, a.TimeslotID, a.ID) {
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms
}

func assignmentFree(assignments []models.Assignment, taken func(models.Assignment) bool) bool {
	for _, a := range assignments {
		if taken(a) {
			return false
		}
	}
	return true
}

func roomFreeAt(assignments []models.Assignment, roomID, slotID, excludeID string) bool {
	for _, a := range assignments {
		if a.ID != excludeID && a.RoomID == roomID && a.TimeslotID == slotID {
			return false
		}
	}
	return true
}
