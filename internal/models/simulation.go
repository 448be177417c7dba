package models

import "time"

const (
	SimulationFacultyUnavailable = "FACULTY_UNAVAILABLE"
	SimulationRoomShortage       = "ROOM_SHORTAGE"

	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// AffectedClass is a denormalized view of one impacted assignment for
// simulation reports.
type AffectedClass struct {
	Course  string `json:"course"`
	Section string `json:"section"`
	Faculty string `json:"faculty,omitempty"`
	Room    string `json:"room,omitempty"`
	Day     string `json:"day"`
	Slot    int    `json:"slot"`
}

// SimulationRecord captures one what-if impact analysis run.
type SimulationRecord struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Timestamp        time.Time       `json:"timestamp"`
	TargetID         string          `json:"target_id"`
	TargetName       string          `json:"target_name,omitempty"`
	ImpactScore      int             `json:"impact_score"`
	ClassesAffected  int             `json:"classes_affected"`
	StudentsImpacted int             `json:"students_impacted"`
	Severity         string          `json:"severity"`
	Recommendations  []string        `json:"recommendations"`
	AffectedClasses  []AffectedClass `json:"affected_classes"`
	AlternativeRooms []Room          `json:"alternative_rooms,omitempty"`
}

// SimulationComparison contrasts two stored simulation runs.
type SimulationComparison struct {
	First           SimulationRecord `json:"first"`
	Second          SimulationRecord `json:"second"`
	Winner          int              `json:"winner"`
	ScoreDifference int              `json:"score_difference"`
	Recommendation  string           `json:"recommendation"`
}
