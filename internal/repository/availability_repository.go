package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// AvailabilityRepository provides persistence for faculty availability rows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// List returns all availability rows.
func (r *AvailabilityRepository) List(ctx context.Context) ([]models.FacultyAvailability, error) {
	const query = `SELECT id, faculty_id, timeslot_id, is_available, created_at, updated_at FROM faculty_availability`
	var rows []models.FacultyAvailability
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return rows, nil
}

// ListByFaculty returns availability rows for one faculty member.
func (r *AvailabilityRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.FacultyAvailability, error) {
	const query = `SELECT id, faculty_id, timeslot_id, is_available, created_at, updated_at
		FROM faculty_availability WHERE faculty_id = $1`
	var rows []models.FacultyAvailability
	if err := r.db.SelectContext(ctx, &rows, query, facultyID); err != nil {
		return nil, fmt.Errorf("list availability for faculty %s: %w", facultyID, err)
	}
	return rows, nil
}

// Upsert inserts one availability row, replacing any existing flag for the
// same faculty and timeslot.
func (r *AvailabilityRepository) Upsert(ctx context.Context, row *models.FacultyAvailability) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	const query = `INSERT INTO faculty_availability (id, faculty_id, timeslot_id, is_available, created_at, updated_at)
		VALUES (:id, :faculty_id, :timeslot_id, :is_available, :created_at, :updated_at)
		ON CONFLICT (faculty_id, timeslot_id)
		DO UPDATE SET is_available = EXCLUDED.is_available, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

// BulkUpsert writes a batch of availability rows atomically.
func (r *AvailabilityRepository) BulkUpsert(ctx context.Context, rows []models.FacultyAvailability) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	const query = `INSERT INTO faculty_availability (id, faculty_id, timeslot_id, is_available, created_at, updated_at)
		VALUES (:id, :faculty_id, :timeslot_id, :is_available, :created_at, :updated_at)
		ON CONFLICT (faculty_id, timeslot_id)
		DO UPDATE SET is_available = EXCLUDED.is_available, updated_at = EXCLUDED.updated_at`
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, rows[i]); err != nil {
			return fmt.Errorf("bulk upsert availability: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability tx: %w", err)
	}
	return nil
}

// Delete removes one availability row by id.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faculty_availability WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete availability: %w", err)
	}
	return nil
}
