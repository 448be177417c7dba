package service

import (
	"sync"

	"github.com/opencampus/timetable-api/internal/models"
)

// simulationHistory is a bounded, process-scoped record of past what-if
// runs. When full, the oldest record is dropped.
type simulationHistory struct {
	mu       sync.Mutex
	capacity int
	records  []models.SimulationRecord
}

func newSimulationHistory(capacity int) *simulationHistory {
	if capacity <= 0 {
		capacity = 1
	}
	return &simulationHistory{capacity: capacity}
}

func (h *simulationHistory) Add(record models.SimulationRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	if len(h.records) > h.capacity {
		h.records = h.records[len(h.records)-h.capacity:]
	}
}

// List returns a copy, newest first.
func (h *simulationHistory) List() []models.SimulationRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.SimulationRecord, len(h.records))
	for i, record := range h.records {
		out[len(h.records)-1-i] = record
	}
	return out
}

func (h *simulationHistory) Find(id string) (models.SimulationRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, record := range h.records {
		if record.ID == id {
			return record, true
		}
	}
	return models.SimulationRecord{}, false
}

func (h *simulationHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}
