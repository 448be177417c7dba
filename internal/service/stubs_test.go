package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencampus/timetable-api/internal/models"
)

// In-memory fakes for the narrow store interfaces, shared across the service
// tests.

type stubFaculty struct{ items []models.Faculty }

func (s stubFaculty) List(context.Context) ([]models.Faculty, error) { return s.items, nil }

type stubCourses struct{ items []models.Course }

func (s stubCourses) List(context.Context) ([]models.Course, error) { return s.items, nil }

type stubRooms struct{ items []models.Room }

func (s stubRooms) List(context.Context) ([]models.Room, error) { return s.items, nil }

type stubSections struct{ items []models.Section }

func (s stubSections) List(context.Context) ([]models.Section, error) { return s.items, nil }

type stubTimeslots struct{ items []models.TimeSlot }

func (s stubTimeslots) List(context.Context) ([]models.TimeSlot, error) { return s.items, nil }

type stubAvailability struct{ items []models.FacultyAvailability }

func (s stubAvailability) List(context.Context) ([]models.FacultyAvailability, error) {
	return s.items, nil
}

// memoryTimetableStore keeps assignments in memory and records mutations.
type memoryTimetableStore struct {
	assignments    []models.Assignment
	nextID         int
	replaceCalls   int
	deleteAllCalls int
	updates        []models.AssignmentUpdate
}

func (m *memoryTimetableStore) List(_ context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	out := []models.Assignment{}
	for _, a := range m.assignments {
		if filter.ProposalID != nil && a.ProposalID != *filter.ProposalID {
			continue
		}
		if filter.SectionID != "" && a.SectionID != filter.SectionID {
			continue
		}
		if filter.FacultyID != "" && a.FacultyID != filter.FacultyID {
			continue
		}
		if filter.RoomID != "" && a.RoomID != filter.RoomID {
			continue
		}
		if filter.TimeslotID != "" && a.TimeslotID != filter.TimeslotID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryTimetableStore) ListByProposal(ctx context.Context, proposalID int) ([]models.Assignment, error) {
	return m.List(ctx, models.AssignmentFilter{ProposalID: &proposalID})
}

func (m *memoryTimetableStore) ListAll(context.Context) ([]models.Assignment, error) {
	out := make([]models.Assignment, len(m.assignments))
	copy(out, m.assignments)
	return out, nil
}

func (m *memoryTimetableStore) ReplaceAll(_ context.Context, assignments []models.Assignment) error {
	m.replaceCalls++
	m.assignments = nil
	for _, a := range assignments {
		if a.ID == "" {
			m.nextID++
			a.ID = fmt.Sprintf("a%03d", m.nextID)
		}
		m.assignments = append(m.assignments, a)
	}
	return nil
}

func (m *memoryTimetableStore) DeleteAll(context.Context) error {
	m.deleteAllCalls++
	m.assignments = nil
	return nil
}

func (m *memoryTimetableStore) ProposalSummaries(context.Context) ([]models.ProposalSummary, error) {
	byProposal := map[int]*models.ProposalSummary{}
	for _, a := range m.assignments {
		summary, ok := byProposal[a.ProposalID]
		if !ok {
			summary = &models.ProposalSummary{ProposalID: a.ProposalID, Score: a.Score}
			byProposal[a.ProposalID] = summary
		}
		summary.EntryCount++
	}
	out := []models.ProposalSummary{}
	for _, summary := range byProposal {
		out = append(out, *summary)
	}
	return out, nil
}

func (m *memoryTimetableStore) UpdatePlacement(_ context.Context, upd models.AssignmentUpdate) error {
	m.updates = append(m.updates, upd)
	for i := range m.assignments {
		if m.assignments[i].ID != upd.AssignmentID {
			continue
		}
		if upd.FacultyID != nil {
			m.assignments[i].FacultyID = *upd.FacultyID
		}
		if upd.RoomID != nil {
			m.assignments[i].RoomID = *upd.RoomID
		}
		if upd.TimeslotID != nil {
			m.assignments[i].TimeslotID = *upd.TimeslotID
		}
		return nil
	}
	return fmt.Errorf("assignment %s not found", upd.AssignmentID)
}

// memoryConflictStore keeps conflict records in memory.
type memoryConflictStore struct {
	conflicts   []models.Conflict
	nextID      int
	deleteCalls int
}

func (m *memoryConflictStore) DeleteByScope(_ context.Context, proposalID *int) error {
	m.deleteCalls++
	if proposalID == nil {
		m.conflicts = nil
		return nil
	}
	kept := []models.Conflict{}
	for _, c := range m.conflicts {
		if c.ProposalID != nil && *c.ProposalID == *proposalID {
			continue
		}
		kept = append(kept, c)
	}
	m.conflicts = kept
	return nil
}

func (m *memoryConflictStore) BulkCreate(_ context.Context, conflicts []models.Conflict) error {
	for _, c := range conflicts {
		if c.ID == "" {
			m.nextID++
			c.ID = fmt.Sprintf("conf%03d", m.nextID)
		}
		m.conflicts = append(m.conflicts, c)
	}
	return nil
}

func (m *memoryConflictStore) ListByScope(_ context.Context, proposalID *int) ([]models.Conflict, error) {
	if proposalID == nil {
		out := make([]models.Conflict, len(m.conflicts))
		copy(out, m.conflicts)
		return out, nil
	}
	out := []models.Conflict{}
	for _, c := range m.conflicts {
		if c.ProposalID != nil && *c.ProposalID == *proposalID {
			out = append(out, c)
		}
	}
	return out, nil
}

// memoryCache is a map-backed stand-in for the redis timetable cache. It
// round-trips values through JSON the way the real repository does.
type memoryCache struct {
	entries map[string][]byte
	deletes int
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.deletes++
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}
