package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
)

type conflictAssignmentReader interface {
	ListByProposal(ctx context.Context, proposalID int) ([]models.Assignment, error)
	ListAll(ctx context.Context) ([]models.Assignment, error)
}

type conflictStore interface {
	DeleteByScope(ctx context.Context, proposalID *int) error
	BulkCreate(ctx context.Context, conflicts []models.Conflict) error
	ListByScope(ctx context.Context, proposalID *int) ([]models.Conflict, error)
}

// ConflictService derives clash records from stored assignments. Conflicts
// are a disposable view: every detection run wipes the scoped set and
// reinserts freshly computed records, so repeated runs over an unchanged
// store yield the same set.
type ConflictService struct {
	assignments conflictAssignmentReader
	conflicts   conflictStore
	courses     courseReader
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewConflictService wires the detector.
func NewConflictService(assignments conflictAssignmentReader, conflicts conflictStore, courses courseReader, metrics *MetricsService, logger *zap.Logger) *ConflictService {
	return &ConflictService{
		assignments: assignments,
		conflicts:   conflicts,
		courses:     courses,
		metrics:     metrics,
		logger:      logger,
	}
}

type clashKey struct {
	proposalID int
	entityID   string
	timeslotID string
}

// Detect finds all clashes in scope, persists them, and returns the fresh
// set. A nil proposalID scans across every stored proposal.
func (s *ConflictService) Detect(ctx context.Context, proposalID *int) ([]models.Conflict, error) {
	if err := s.conflicts.DeleteByScope(ctx, proposalID); err != nil {
		return nil, err
	}

	var (
		assignments []models.Assignment
		err         error
	)
	if proposalID != nil {
		assignments, err = s.assignments.ListByProposal(ctx, *proposalID)
	} else {
		assignments, err = s.assignments.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	courseNames, err := s.courseNames(ctx)
	if err != nil {
		return nil, err
	}

	conflicts := []models.Conflict{}
	conflicts = append(conflicts, s.detectByResource(assignments, models.ConflictTypeFaculty, courseNames)...)
	conflicts = append(conflicts, s.detectByResource(assignments, models.ConflictTypeRoom, courseNames)...)
	conflicts = append(conflicts, s.detectByResource(assignments, models.ConflictTypeSection, courseNames)...)

	if err := s.conflicts.BulkCreate(ctx, conflicts); err != nil {
		return nil, err
	}

	byType := lo.CountValuesBy(conflicts, func(c models.Conflict) string { return c.Type })
	for conflictType, count := range byType {
		s.metrics.RecordConflicts(conflictType, count)
	}
	if len(conflicts) > 0 {
		s.logger.Info("conflicts detected", zap.Int("count", len(conflicts)), zap.Any("by_type", byType))
	}
	return conflicts, nil
}

// List returns the stored conflict set without re-detecting.
func (s *ConflictService) List(ctx context.Context, proposalID *int) ([]models.Conflict, error) {
	return s.conflicts.ListByScope(ctx, proposalID)
}

// detectByResource groups assignments by (proposal, resource, timeslot) for
// one resource kind; each group of two or more becomes exactly one conflict.
// Assignments with a missing resource or timeslot reference are skipped.
func (s *ConflictService) detectByResource(assignments []models.Assignment, conflictType string, courseNames map[string]string) []models.Conflict {
	entityOf := func(a models.Assignment) string {
		switch conflictType {
		case models.ConflictTypeFaculty:
			return a.FacultyID
		case models.ConflictTypeRoom:
			return a.RoomID
		default:
			return a.SectionID
		}
	}

	grouped := lo.GroupBy(
		lo.Filter(assignments, func(a models.Assignment, _ int) bool {
			return entityOf(a) != "" && a.TimeslotID != ""
		}),
		func(a models.Assignment) clashKey {
			return clashKey{proposalID: a.ProposalID, entityID: entityOf(a), timeslotID: a.TimeslotID}
		},
	)

	conflicts := make([]models.Conflict, 0)
	for key, group := range grouped {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		names := lo.Uniq(lo.Map(group, func(a models.Assignment, _ int) string {
			if name, ok := courseNames[a.CourseID]; ok {
				return name
			}
			return a.CourseID
		}))
		proposal := key.proposalID
		conflicts = append(conflicts, models.Conflict{
			Type:       conflictType,
			EntityID:   key.entityID,
			TimeslotID: key.timeslotID,
			Reason:     fmt.Sprintf("%s %s booked for %d classes in the same slot: %s", conflictType, key.entityID, len(group), strings.Join(names, ", ")),
			Detail:     pq.StringArray(lo.Map(group, func(a models.Assignment, _ int) string { return a.ID })),
			ProposalID: &proposal,
		})
	}

	// Map iteration order is random; keep the persisted order stable.
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].EntityID != conflicts[j].EntityID {
			return conflicts[i].EntityID < conflicts[j].EntityID
		}
		return conflicts[i].TimeslotID < conflicts[j].TimeslotID
	})
	return conflicts
}

func (s *ConflictService) courseNames(ctx context.Context) (map[string]string, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(courses, func(c models.Course) (string, string) { return c.ID, c.Name }), nil
}
