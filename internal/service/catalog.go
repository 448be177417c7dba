package service

import (
	"context"
	"sync"

	"github.com/opencampus/timetable-api/internal/models"
)

// Narrow read interfaces over the entity repositories. Every scheduling
// service declares only the stores it needs.
type facultyReader interface {
	List(ctx context.Context) ([]models.Faculty, error)
}

type courseReader interface {
	List(ctx context.Context) ([]models.Course, error)
}

type roomReader interface {
	List(ctx context.Context) ([]models.Room, error)
}

type sectionReader interface {
	List(ctx context.Context) ([]models.Section, error)
}

type timeslotReader interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
}

type availabilityReader interface {
	List(ctx context.Context) ([]models.FacultyAvailability, error)
}

// catalogReaders bundles the full set of entity readers for services that
// need all of them at once.
type catalogReaders struct {
	faculty      facultyReader
	courses      courseReader
	rooms        roomReader
	sections     sectionReader
	timeslots    timeslotReader
	availability availabilityReader
}

// catalog is a point-in-time snapshot of every scheduling input.
type catalog struct {
	Faculty      []models.Faculty
	Courses      []models.Course
	Rooms        []models.Room
	Sections     []models.Section
	Timeslots    []models.TimeSlot
	Availability models.AvailabilityIndex

	FacultyByID  map[string]models.Faculty
	CoursesByID  map[string]models.Course
	RoomsByID    map[string]models.Room
	SectionsByID map[string]models.Section
	SlotsByID    map[string]models.TimeSlot
}

func loadCatalog(ctx context.Context, r catalogReaders) (*catalog, error) {
	faculty, err := r.faculty.List(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := r.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := r.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	sections, err := r.sections.List(ctx)
	if err != nil {
		return nil, err
	}
	timeslots, err := r.timeslots.List(ctx)
	if err != nil {
		return nil, err
	}
	availability, err := r.availability.List(ctx)
	if err != nil {
		return nil, err
	}

	cat := &catalog{
		Faculty:      faculty,
		Courses:      courses,
		Rooms:        rooms,
		Sections:     sections,
		Timeslots:    timeslots,
		Availability: models.BuildAvailabilityIndex(availability),
		FacultyByID:  make(map[string]models.Faculty, len(faculty)),
		CoursesByID:  make(map[string]models.Course, len(courses)),
		RoomsByID:    make(map[string]models.Room, len(rooms)),
		SectionsByID: make(map[string]models.Section, len(sections)),
		SlotsByID:    make(map[string]models.TimeSlot, len(timeslots)),
	}
	for _, f := range faculty {
		cat.FacultyByID[f.ID] = f
	}
	for _, c := range courses {
		cat.CoursesByID[c.ID] = c
	}
	for _, room := range rooms {
		cat.RoomsByID[room.ID] = room
	}
	for _, s := range sections {
		cat.SectionsByID[s.ID] = s
	}
	for _, ts := range timeslots {
		cat.SlotsByID[ts.ID] = ts
	}
	return cat, nil
}

// ScopeLock serializes operations that follow the replace-scope pattern
// (delete then reinsert). Generation and resolution share one lock so their
// deletes and inserts never interleave.
type ScopeLock struct {
	mu sync.Mutex
}

// NewScopeLock creates a scope lock.
func NewScopeLock() *ScopeLock {
	return &ScopeLock{}
}

// Acquire blocks until the scope is free and returns the release func.
func (l *ScopeLock) Acquire() func() {
	l.mu.Lock()
	return l.mu.Unlock
}
