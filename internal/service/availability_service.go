package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
)

type availabilityStore interface {
	List(ctx context.Context) ([]models.FacultyAvailability, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.FacultyAvailability, error)
	Upsert(ctx context.Context, row *models.FacultyAvailability) error
	BulkUpsert(ctx context.Context, rows []models.FacultyAvailability) error
	Delete(ctx context.Context, id string) error
}

// AvailabilityEntry is one slot flag in an availability payload.
type AvailabilityEntry struct {
	TimeslotID  string `json:"timeslot_id" binding:"required"`
	IsAvailable bool   `json:"is_available"`
}

// SetAvailabilityRequest replaces or extends a faculty member's availability
// flags in one call.
type SetAvailabilityRequest struct {
	FacultyID string              `json:"faculty_id" binding:"required"`
	Entries   []AvailabilityEntry `json:"entries" binding:"required,min=1,dive"`
}

// AvailabilityService manages explicit faculty availability flags. The
// builder only places faculty into slots with an explicit true flag, so
// seeding availability is a prerequisite of generation.
type AvailabilityService struct {
	repo   availabilityStore
	logger *zap.Logger
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(repo availabilityStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{repo: repo, logger: logger}
}

func (s *AvailabilityService) List(ctx context.Context) ([]models.FacultyAvailability, error) {
	return s.repo.List(ctx)
}

func (s *AvailabilityService) ListByFaculty(ctx context.Context, facultyID string) ([]models.FacultyAvailability, error) {
	return s.repo.ListByFaculty(ctx, facultyID)
}

// Set upserts all entries of the request for one faculty member.
func (s *AvailabilityService) Set(ctx context.Context, req SetAvailabilityRequest) ([]models.FacultyAvailability, error) {
	rows := make([]models.FacultyAvailability, 0, len(req.Entries))
	for _, entry := range req.Entries {
		rows = append(rows, models.FacultyAvailability{
			FacultyID:   req.FacultyID,
			TimeslotID:  entry.TimeslotID,
			IsAvailable: entry.IsAvailable,
		})
	}
	if err := s.repo.BulkUpsert(ctx, rows); err != nil {
		return nil, err
	}
	s.logger.Info("availability updated", zap.String("faculty", req.FacultyID), zap.Int("entries", len(rows)))
	return rows, nil
}

func (s *AvailabilityService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
