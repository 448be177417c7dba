package service

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/opencampus/timetable-api/internal/models"
)

// Weighting of the individual factors against the base score of 1000.
const (
	scoreBase = 1000.0

	workloadWeight    = 0.30
	gapWeight         = 0.25
	compactnessWeight = 0.15
	roomWeight        = 0.20
	preferenceWeight  = 0.10

	stdDevScale       = 20.0
	overCapPenalty    = 10.0
	idleSlotPenalty   = 5.0
	compactPairBonus  = 5.0
	roomScale         = 100.0
	preferenceRaw     = 10.0
)

// ScoreBreakdown reports the total score and the weighted contribution of
// each factor.
type ScoreBreakdown struct {
	Total                int     `json:"total"`
	WorkloadPenalty      float64 `json:"workload_penalty"`
	GapPenalty           float64 `json:"gap_penalty"`
	CompactnessBonus     float64 `json:"compactness_bonus"`
	RoomUtilizationBonus float64 `json:"room_utilization_bonus"`
	PreferenceBonus      float64 `json:"preference_bonus"`
}

// Scorer rates one candidate timetable. The preference factor is a fixed
// extension point reserved for per-faculty time preferences.
type Scorer struct {
	dailyCap int
}

// NewScorer creates a scorer using the given per-day slot cap for the
// independent over-cap safety check.
func NewScorer(dailyCap int) *Scorer {
	return &Scorer{dailyCap: dailyCap}
}

// Score computes the weighted total for a candidate. Faculty without any
// placement count as zero toward the workload spread.
func (s *Scorer) Score(placements []Placement, faculty []models.Faculty, rooms map[string]models.Room, sections map[string]models.Section) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		WorkloadPenalty:      s.workloadPenalty(placements, faculty),
		GapPenalty:           gapWeight * idleSlotPenalty * float64(s.idleSlots(placements)),
		CompactnessBonus:     compactnessWeight * compactPairBonus * float64(s.compactPairs(placements)),
		RoomUtilizationBonus: roomWeight * roomScale * s.roomUtilization(placements, rooms, sections),
		PreferenceBonus:      preferenceWeight * preferenceRaw,
	}
	total := scoreBase -
		breakdown.WorkloadPenalty -
		breakdown.GapPenalty +
		breakdown.CompactnessBonus +
		breakdown.RoomUtilizationBonus +
		breakdown.PreferenceBonus
	breakdown.Total = int(math.Round(total))
	return breakdown
}

// workloadPenalty combines the spread of per-faculty placement counts with a
// flat penalty per faculty-day over the daily cap. The builder keeps its own
// cap, so the over-cap term normally stays zero; it is recomputed here as a
// safety check.
func (s *Scorer) workloadPenalty(placements []Placement, faculty []models.Faculty) float64 {
	counts := make(map[string]int, len(faculty))
	dayCounts := make(map[string]map[string]int)
	for _, p := range placements {
		counts[p.FacultyID]++
		if dayCounts[p.FacultyID] == nil {
			dayCounts[p.FacultyID] = make(map[string]int)
		}
		dayCounts[p.FacultyID][p.Day]++
	}

	overCapDays := 0
	for _, days := range dayCounts {
		for _, n := range days {
			if n > s.dailyCap {
				overCapDays++
			}
		}
	}

	values := make([]float64, 0, len(faculty))
	for _, f := range faculty {
		values = append(values, float64(counts[f.ID]))
	}
	return workloadWeight * (stdDev(values)*stdDevScale + overCapPenalty*float64(overCapDays))
}

// idleSlots counts gaps inside each faculty member's day: a consecutive pair
// of placements d ordinals apart contributes d-1 idle slots.
func (s *Scorer) idleSlots(placements []Placement) int {
	idle := 0
	for _, ordinals := range facultyDayOrdinals(placements) {
		for i := 1; i < len(ordinals); i++ {
			if d := ordinals[i] - ordinals[i-1]; d > 1 {
				idle += d - 1
			}
		}
	}
	return idle
}

// compactPairs counts back-to-back placement pairs within a faculty-day.
func (s *Scorer) compactPairs(placements []Placement) int {
	pairs := 0
	for _, ordinals := range facultyDayOrdinals(placements) {
		for i := 1; i < len(ordinals); i++ {
			if ordinals[i]-ordinals[i-1] == 1 {
				pairs++
			}
		}
	}
	return pairs
}

// roomUtilization averages min(studentCount/capacity, 1) over placements.
func (s *Scorer) roomUtilization(placements []Placement, rooms map[string]models.Room, sections map[string]models.Section) float64 {
	if len(placements) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range placements {
		room, okRoom := rooms[p.RoomID]
		section, okSection := sections[p.SectionID]
		if !okRoom || !okSection || room.Capacity <= 0 {
			continue
		}
		sum += math.Min(float64(section.StudentCount)/float64(room.Capacity), 1.0)
	}
	return sum / float64(len(placements))
}

// facultyDayOrdinals groups placement slot ordinals per (faculty, day),
// sorted ascending.
func facultyDayOrdinals(placements []Placement) map[string][]int {
	grouped := lo.GroupBy(placements, func(p Placement) string { return p.FacultyID + "|" + p.Day })
	ordinals := make(map[string][]int, len(grouped))
	for key, group := range grouped {
		ordinals[key] = lo.Map(group, func(p Placement, _ int) int { return p.Slot })
		sort.Ints(ordinals[key])
	}
	return ordinals
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
