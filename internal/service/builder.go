package service

import (
	"math/rand"
	"sort"

	"github.com/opencampus/timetable-api/internal/models"
)

// Placement is one slot-unit produced by a construction pass. Lab courses
// emit one placement per slot of their block.
type Placement struct {
	SectionID  string `json:"section_id"`
	CourseID   string `json:"course_id"`
	FacultyID  string `json:"faculty_id"`
	RoomID     string `json:"room_id"`
	TimeslotID string `json:"timeslot_id"`
	Day        string `json:"day"`
	Slot       int    `json:"slot"`
}

// BuildInput carries the catalogs one construction pass reads. The builder
// never mutates them.
type BuildInput struct {
	Sections         []models.Section
	CoursesBySection map[string][]models.Course
	Faculty          []models.Faculty
	Rooms            []models.Room
	Timeslots        []models.TimeSlot
	Availability     models.AvailabilityIndex
}

// Builder constructs one candidate timetable with greedy first-fit placement.
// Section, course, day, and tie orders are randomized so repeated passes
// explore different regions of the solution space; there is no backtracking,
// so an infeasible (section, course) pair is silently left unplaced.
type Builder struct {
	dailyCap     int
	labBlockSize int
	rng          *rand.Rand
}

// NewBuilder creates a builder. The caller owns the rng; one builder must not
// be shared across goroutines.
func NewBuilder(dailyCap, labBlockSize int, rng *rand.Rand) *Builder {
	return &Builder{dailyCap: dailyCap, labBlockSize: labBlockSize, rng: rng}
}

type buildState struct {
	sectionBusy map[string]map[string]bool
	facultyBusy map[string]map[string]bool
	roomBusy    map[string]map[string]bool

	facultyLoad    map[string]int
	facultyDayLoad map[string]map[string]int
}

func newBuildState() *buildState {
	return &buildState{
		sectionBusy:    make(map[string]map[string]bool),
		facultyBusy:    make(map[string]map[string]bool),
		roomBusy:       make(map[string]map[string]bool),
		facultyLoad:    make(map[string]int),
		facultyDayLoad: make(map[string]map[string]int),
	}
}

func markBusy(index map[string]map[string]bool, id, slotID string) {
	if index[id] == nil {
		index[id] = make(map[string]bool)
	}
	index[id][slotID] = true
}

// Build runs one construction pass and returns the placements in commit order.
func (b *Builder) Build(in BuildInput) []Placement {
	slotsByDay := groupSlotsByDay(in.Timeslots)
	days := make([]string, 0, len(slotsByDay))
	for _, day := range models.Weekdays {
		if len(slotsByDay[day]) > 0 {
			days = append(days, day)
		}
	}

	st := newBuildState()
	placements := []Placement{}

	for _, section := range b.shuffledSections(in.Sections) {
		for _, course := range b.shuffledCourses(in.CoursesBySection[section.ID]) {
			blockSize := 1
			if course.IsLab() {
				blockSize = b.labBlockSize
			}
			block := b.findBlock(section, course, days, slotsByDay, in, st, blockSize)
			if block == nil {
				// Infeasible pair; the caller observes this only as a
				// missing entry in the output.
				continue
			}
			placements = append(placements, block...)
		}
	}
	return placements
}

// findBlock searches days, windows, faculty, and rooms in order and commits
// the first combination that satisfies every constraint.
func (b *Builder) findBlock(section models.Section, course models.Course, days []string, slotsByDay map[string][]models.TimeSlot, in BuildInput, st *buildState, blockSize int) []Placement {
	for _, day := range b.shuffledDays(days) {
		slots := slotsByDay[day]
		for start := 0; start+blockSize <= len(slots); start++ {
			window := slots[start : start+blockSize]
			if !contiguous(window) || b.sectionBlocked(st, section.ID, window) {
				continue
			}
			for _, faculty := range b.rankedFaculty(in.Faculty, st) {
				if !b.facultyFits(st, in.Availability, faculty.ID, day, window, blockSize) {
					continue
				}
				for _, room := range b.rankedRooms(in.Rooms, course, section) {
					if b.roomBlocked(st, room.ID, window) {
						continue
					}
					return b.commit(st, section, course, faculty, room, day, window)
				}
			}
		}
	}
	return nil
}

func (b *Builder) sectionBlocked(st *buildState, sectionID string, window []models.TimeSlot) bool {
	for _, slot := range window {
		if st.sectionBusy[sectionID][slot.ID] {
			return true
		}
	}
	return false
}

func (b *Builder) roomBlocked(st *buildState, roomID string, window []models.TimeSlot) bool {
	for _, slot := range window {
		if st.roomBusy[roomID][slot.ID] {
			return true
		}
	}
	return false
}

// facultyFits enforces the per-day cap, explicit opt-in availability for
// every slot of the window, and the faculty-busy index.
func (b *Builder) facultyFits(st *buildState, availability models.AvailabilityIndex, facultyID, day string, window []models.TimeSlot, blockSize int) bool {
	if st.facultyDayLoad[facultyID][day]+blockSize > b.dailyCap {
		return false
	}
	for _, slot := range window {
		if !availability.CanTeach(facultyID, slot.ID) {
			return false
		}
		if st.facultyBusy[facultyID][slot.ID] {
			return false
		}
	}
	return true
}

func (b *Builder) commit(st *buildState, section models.Section, course models.Course, faculty models.Faculty, room models.Room, day string, window []models.TimeSlot) []Placement {
	block := make([]Placement, 0, len(window))
	for _, slot := range window {
		markBusy(st.sectionBusy, section.ID, slot.ID)
		markBusy(st.facultyBusy, faculty.ID, slot.ID)
		markBusy(st.roomBusy, room.ID, slot.ID)
		block = append(block, Placement{
			SectionID:  section.ID,
			CourseID:   course.ID,
			FacultyID:  faculty.ID,
			RoomID:     room.ID,
			TimeslotID: slot.ID,
			Day:        day,
			Slot:       slot.Slot,
		})
	}
	st.facultyLoad[faculty.ID] += len(window)
	if st.facultyDayLoad[faculty.ID] == nil {
		st.facultyDayLoad[faculty.ID] = make(map[string]int)
	}
	st.facultyDayLoad[faculty.ID][day] += len(window)
	return block
}

// rankedFaculty orders faculty ascending by committed load. Equal loads keep
// a shuffled relative order so the least-loaded tie is picked at random.
func (b *Builder) rankedFaculty(faculty []models.Faculty, st *buildState) []models.Faculty {
	ranked := make([]models.Faculty, len(faculty))
	copy(ranked, faculty)
	b.rng.Shuffle(len(ranked), func(i, j int) { ranked[i], ranked[j] = ranked[j], ranked[i] })
	sort.SliceStable(ranked, func(i, j int) bool {
		return st.facultyLoad[ranked[i].ID] < st.facultyLoad[ranked[j].ID]
	})
	return ranked
}

// rankedRooms filters rooms by type and capacity and orders the survivors
// best-fit first (smallest sufficient capacity), shuffling ties.
func (b *Builder) rankedRooms(rooms []models.Room, course models.Course, section models.Section) []models.Room {
	fitting := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Fits(course.Type, section.StudentCount) {
			fitting = append(fitting, room)
		}
	}
	b.rng.Shuffle(len(fitting), func(i, j int) { fitting[i], fitting[j] = fitting[j], fitting[i] })
	sort.SliceStable(fitting, func(i, j int) bool { return fitting[i].Capacity < fitting[j].Capacity })
	return fitting
}

func (b *Builder) shuffledSections(sections []models.Section) []models.Section {
	out := make([]models.Section, len(sections))
	copy(out, sections)
	b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (b *Builder) shuffledCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	copy(out, courses)
	b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (b *Builder) shuffledDays(days []string) []string {
	out := make([]string, len(days))
	copy(out, days)
	b.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// groupSlotsByDay buckets slots per weekday sorted ascending by ordinal.
func groupSlotsByDay(slots []models.TimeSlot) map[string][]models.TimeSlot {
	byDay := make(map[string][]models.TimeSlot)
	for _, slot := range slots {
		byDay[slot.Day] = append(byDay[slot.Day], slot)
	}
	for day := range byDay {
		sort.Slice(byDay[day], func(i, j int) bool { return byDay[day][i].Slot < byDay[day][j].Slot })
	}
	return byDay
}

// contiguous reports whether the window's slot ordinals form an unbroken run.
func contiguous(window []models.TimeSlot) bool {
	for i := 1; i < len(window); i++ {
		if window[i].Slot != window[i-1].Slot+1 {
			return false
		}
	}
	return true
}
