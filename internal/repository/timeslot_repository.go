package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// TimeSlotRepository provides persistence for timeslot records.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository creates a new timeslot repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns all timeslots in weekday then slot order.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, day, slot, start_time, end_time, created_at, updated_at FROM timeslots
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday'], day), slot ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// FindByID loads a timeslot by id.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	const query = `SELECT id, day, slot, start_time, end_time, created_at, updated_at FROM timeslots WHERE id = $1`
	var ts models.TimeSlot
	if err := r.db.GetContext(ctx, &ts, query, id); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Create stores a new timeslot.
func (r *TimeSlotRepository) Create(ctx context.Context, ts *models.TimeSlot) error {
	if ts.ID == "" {
		ts.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now

	const query = `INSERT INTO timeslots (id, day, slot, start_time, end_time, created_at, updated_at)
		VALUES (:id, :day, :slot, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ts); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// Update modifies a timeslot.
func (r *TimeSlotRepository) Update(ctx context.Context, ts *models.TimeSlot) error {
	ts.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timeslots SET day = :day, slot = :slot, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ts); err != nil {
		return fmt.Errorf("update timeslot: %w", err)
	}
	return nil
}

// Delete removes a timeslot by id.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
