package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
)

type resolverStore interface {
	ListByProposal(ctx context.Context, proposalID int) ([]models.Assignment, error)
	UpdatePlacement(ctx context.Context, upd models.AssignmentUpdate) error
}

type conflictDetector interface {
	Detect(ctx context.Context, proposalID *int) ([]models.Conflict, error)
}

// ResolveResult reports one resolution pass over a proposal.
type ResolveResult struct {
	ProposalID    int                   `json:"proposal_id"`
	ResolvedCount int                   `json:"resolved_count"`
	ResidualCount int                   `json:"residual_count"`
	Repairs       []models.RepairAction `json:"repairs"`
	Residual      []models.Conflict     `json:"residual"`
}

// ResolverService repairs detected clashes with a single greedy pass.
// Faculty conflicts are handled first, then room, then section. Within a
// clash group the lowest-id assignment stays fixed and the next one is
// relocated; when no relocation satisfies every constraint the conflict is
// left standing. The pass is best-effort: a repair is not checked against
// clashes it may introduce outside its own group, which the closing
// re-detection surfaces as residual conflicts.
type ResolverService struct {
	store    resolverStore
	detector conflictDetector
	catalogs catalogReaders
	cache    timetableCache
	metrics  *MetricsService
	lock     *ScopeLock
	logger   *zap.Logger
}

// NewResolverService wires the resolver.
func NewResolverService(
	store resolverStore,
	detector conflictDetector,
	faculty facultyReader,
	courses courseReader,
	rooms roomReader,
	sections sectionReader,
	timeslots timeslotReader,
	availability availabilityReader,
	cache timetableCache,
	metrics *MetricsService,
	lock *ScopeLock,
	logger *zap.Logger,
) *ResolverService {
	return &ResolverService{
		store:    store,
		detector: detector,
		cache:    cache,
		catalogs: catalogReaders{
			faculty:      faculty,
			courses:      courses,
			rooms:        rooms,
			sections:     sections,
			timeslots:    timeslots,
			availability: availability,
		},
		metrics: metrics,
		lock:    lock,
		logger:  logger,
	}
}

// Resolve runs detection, attempts one repair per conflict, then re-detects
// and reports the residual set plus the full repair log.
func (s *ResolverService) Resolve(ctx context.Context, proposalID int) (*ResolveResult, error) {
	release := s.lock.Acquire()
	defer release()

	conflicts, err := s.detector.Detect(ctx, &proposalID)
	if err != nil {
		return nil, err
	}
	result := &ResolveResult{ProposalID: proposalID, Repairs: []models.RepairAction{}}
	if len(conflicts) == 0 {
		result.Residual = []models.Conflict{}
		return result, nil
	}

	cat, err := loadCatalog(ctx, s.catalogs)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	ws := &workingSet{assignments: assignments, availability: cat.Availability}

	for _, conflictType := range []string{models.ConflictTypeFaculty, models.ConflictTypeRoom, models.ConflictTypeSection} {
		for _, conflict := range conflicts {
			if conflict.Type != conflictType {
				continue
			}
			repair, err := s.repairOne(ctx, conflict, cat, ws)
			if err != nil {
				return nil, err
			}
			if repair != nil {
				result.Repairs = append(result.Repairs, *repair)
				result.ResolvedCount++
			}
		}
	}

	residual, err := s.detector.Detect(ctx, &proposalID)
	if err != nil {
		return nil, err
	}
	result.Residual = residual
	result.ResidualCount = len(residual)

	if result.ResolvedCount > 0 {
		invalidateTimetableCache(ctx, s.cache, s.logger)
	}

	s.metrics.RecordResolved(result.ResolvedCount)
	s.logger.Info("conflict resolution pass finished",
		zap.Int("proposal", proposalID),
		zap.Int("resolved", result.ResolvedCount),
		zap.Int("residual", result.ResidualCount),
	)
	return result, nil
}

// repairOne attempts exactly one relocation for a conflict. A nil repair
// with nil error means the conflict was skipped or could not be repaired.
func (s *ResolverService) repairOne(ctx context.Context, conflict models.Conflict, cat *catalog, ws *workingSet) (*models.RepairAction, error) {
	group := ws.clashGroup(conflict)
	if len(group) < 2 {
		// An earlier repair in this pass already broke the group up.
		return nil, nil
	}
	sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	move := group[1]

	var repair *models.RepairAction
	switch conflict.Type {
	case models.ConflictTypeFaculty:
		repair = s.relocateForFaculty(move, cat, ws)
	case models.ConflictTypeRoom:
		repair = s.relocateForRoom(move, cat, ws)
	case models.ConflictTypeSection:
		repair = s.relocateForSection(move, cat, ws)
	}
	if repair == nil {
		return nil, nil
	}

	upd := models.AssignmentUpdate{AssignmentID: move.ID}
	if repair.ToTimeslot != "" {
		upd.TimeslotID = &repair.ToTimeslot
	}
	if repair.ToRoom != "" {
		upd.RoomID = &repair.ToRoom
	}
	if err := s.store.UpdatePlacement(ctx, upd); err != nil {
		return nil, err
	}
	ws.apply(move.ID, repair.ToTimeslot, repair.ToRoom)
	return repair, nil
}

// relocateForFaculty moves the assignment to the first other timeslot where
// the faculty member is not denied and faculty, section, and the original
// room are all free. Only the timeslot changes.
func (s *ResolverService) relocateForFaculty(move models.Assignment, cat *catalog, ws *workingSet) *models.RepairAction {
	for _, slot := range cat.Timeslots {
		if slot.ID == move.TimeslotID {
			continue
		}
		if cat.Availability.Denied(move.FacultyID, slot.ID) {
			continue
		}
		if !ws.facultyFree(move.FacultyID, slot.ID, move.ID) ||
			!ws.sectionFree(move.SectionID, slot.ID, move.ID) ||
			!ws.roomFree(move.RoomID, slot.ID, move.ID) {
			continue
		}
		return &models.RepairAction{
			ConflictType: models.ConflictTypeFaculty,
			Action:       models.RepairActionMoved,
			AssignmentID: move.ID,
			FromTimeslot: move.TimeslotID,
			ToTimeslot:   slot.ID,
		}
	}
	return nil
}

// relocateForRoom first tries a same-slot alternative room of matching type
// and capacity; failing that it falls back to another timeslot where
// faculty, section, and the original room are all free.
func (s *ResolverService) relocateForRoom(move models.Assignment, cat *catalog, ws *workingSet) *models.RepairAction {
	course := cat.CoursesByID[move.CourseID]
	section := cat.SectionsByID[move.SectionID]

	for _, room := range cat.Rooms {
		if room.ID == move.RoomID || !room.Fits(course.Type, section.StudentCount) {
			continue
		}
		if !ws.roomFree(room.ID, move.TimeslotID, move.ID) {
			continue
		}
		return &models.RepairAction{
			ConflictType: models.ConflictTypeRoom,
			Action:       models.RepairActionRoomChanged,
			AssignmentID: move.ID,
			FromRoom:     move.RoomID,
			ToRoom:       room.ID,
		}
	}

	for _, slot := range cat.Timeslots {
		if slot.ID == move.TimeslotID {
			continue
		}
		if cat.Availability.Denied(move.FacultyID, slot.ID) {
			continue
		}
		if !ws.facultyFree(move.FacultyID, slot.ID, move.ID) ||
			!ws.sectionFree(move.SectionID, slot.ID, move.ID) ||
			!ws.roomFree(move.RoomID, slot.ID, move.ID) {
			continue
		}
		return &models.RepairAction{
			ConflictType: models.ConflictTypeRoom,
			Action:       models.RepairActionMoved,
			AssignmentID: move.ID,
			FromTimeslot: move.TimeslotID,
			ToTimeslot:   slot.ID,
		}
	}
	return nil
}

// relocateForSection moves the assignment to another timeslot where faculty
// and section are free, keeping the original room when possible and
// otherwise taking a matching alternative room at that timeslot.
func (s *ResolverService) relocateForSection(move models.Assignment, cat *catalog, ws *workingSet) *models.RepairAction {
	course := cat.CoursesByID[move.CourseID]
	section := cat.SectionsByID[move.SectionID]

	for _, slot := range cat.Timeslots {
		if slot.ID == move.TimeslotID {
			continue
		}
		if cat.Availability.Denied(move.FacultyID, slot.ID) {
			continue
		}
		if !ws.facultyFree(move.FacultyID, slot.ID, move.ID) || !ws.sectionFree(move.SectionID, slot.ID, move.ID) {
			continue
		}
		if ws.roomFree(move.RoomID, slot.ID, move.ID) {
			return &models.RepairAction{
				ConflictType: models.ConflictTypeSection,
				Action:       models.RepairActionMoved,
				AssignmentID: move.ID,
				FromTimeslot: move.TimeslotID,
				ToTimeslot:   slot.ID,
			}
		}
		for _, room := range cat.Rooms {
			if room.ID == move.RoomID || !room.Fits(course.Type, section.StudentCount) {
				continue
			}
			if !ws.roomFree(room.ID, slot.ID, move.ID) {
				continue
			}
			return &models.RepairAction{
				ConflictType: models.ConflictTypeSection,
				Action:       models.RepairActionMovedRoom,
				AssignmentID: move.ID,
				FromTimeslot: move.TimeslotID,
				ToTimeslot:   slot.ID,
				FromRoom:     move.RoomID,
				ToRoom:       room.ID,
			}
		}
	}
	return nil
}

// workingSet is the resolver's in-memory view of a proposal, kept in sync
// with every applied repair so later checks see earlier moves.
type workingSet struct {
	assignments  []models.Assignment
	availability models.AvailabilityIndex
}

// clashGroup returns the assignments currently clashing for a conflict's
// resource and timeslot. Assignments with missing references are skipped.
func (ws *workingSet) clashGroup(conflict models.Conflict) []models.Assignment {
	group := []models.Assignment{}
	for _, a := range ws.assignments {
		if a.TimeslotID == "" || a.TimeslotID != conflict.TimeslotID {
			continue
		}
		var entity string
		switch conflict.Type {
		case models.ConflictTypeFaculty:
			entity = a.FacultyID
		case models.ConflictTypeRoom:
			entity = a.RoomID
		default:
			entity = a.SectionID
		}
		if entity != "" && entity == conflict.EntityID {
			group = append(group, a)
		}
	}
	return group
}

func (ws *workingSet) facultyFree(facultyID, slotID, excludeID string) bool {
	for _, a := range ws.assignments {
		if a.ID != excludeID && a.FacultyID == facultyID && a.TimeslotID == slotID {
			return false
		}
	}
	return true
}

func (ws *workingSet) roomFree(roomID, slotID, excludeID string) bool {
	for _, a := range ws.assignments {
		if a.ID != excludeID && a.RoomID == roomID && a.TimeslotID == slotID {
			return false
		}
	}
	return true
}

func (ws *workingSet) sectionFree(sectionID, slotID, excludeID string) bool {
	for _, a := range ws.assignments {
		if a.ID != excludeID && a.SectionID == sectionID && a.TimeslotID == slotID {
			return false
		}
	}
	return true
}

func (ws *workingSet) apply(assignmentID, newTimeslot, newRoom string) {
	for i := range ws.assignments {
		if ws.assignments[i].ID != assignmentID {
			continue
		}
		if newTimeslot != "" {
			ws.assignments[i].TimeslotID = newTimeslot
		}
		if newRoom != "" {
			ws.assignments[i].RoomID = newRoom
		}
		return
	}
}
