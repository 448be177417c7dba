package service

import (
	"math/rand"
)

// ClashInjector deliberately corrupts a completed candidate by forcing pairs
// of placements onto the same resource and time slot. It exists only to give
// the detector and resolver something to chew on in demos and tests; it is
// gated behind SCHEDULER_INJECT_DEMO_CLASHES and never runs inside the
// builder itself.
type ClashInjector struct {
	rng *rand.Rand
}

// NewClashInjector creates an injector sharing the caller's rng.
func NewClashInjector(rng *rand.Rand) *ClashInjector {
	return &ClashInjector{rng: rng}
}

// Inject mutates up to count placements in place, cycling through faculty,
// room, and section clashes. Placements sharing a section are skipped for
// faculty/room kinds so each injected clash is exactly one kind.
func (ci *ClashInjector) Inject(placements []Placement, count int) int {
	if len(placements) < 2 {
		return 0
	}
	injected := 0
	kinds := []string{"faculty", "room", "section"}
	for attempt := 0; attempt < count*4 && injected < count; attempt++ {
		i := ci.rng.Intn(len(placements))
		j := ci.rng.Intn(len(placements))
		if i == j || placements[i].TimeslotID == placements[j].TimeslotID {
			continue
		}
		src, dst := placements[i], &placements[j]
		switch kinds[injected%len(kinds)] {
		case "faculty":
			if src.SectionID == dst.SectionID {
				continue
			}
			dst.FacultyID = src.FacultyID
		case "room":
			if src.SectionID == dst.SectionID {
				continue
			}
			dst.RoomID = src.RoomID
		case "section":
			if src.SectionID != dst.SectionID {
				continue
			}
		}
		dst.TimeslotID = src.TimeslotID
		dst.Day = src.Day
		dst.Slot = src.Slot
		injected++
	}
	return injected
}
