package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// FacultyRepository provides persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a new faculty repository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns all faculty ordered by name.
func (r *FacultyRepository) List(ctx context.Context) ([]models.Faculty, error) {
	const query = `SELECT id, name, max_load, created_at, updated_at FROM faculty ORDER BY name ASC`
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, nil
}

// FindByID loads a faculty member by id.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	const query = `SELECT id, name, max_load, created_at, updated_at FROM faculty WHERE id = $1`
	var f models.Faculty
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create stores a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, f *models.Faculty) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	const query = `INSERT INTO faculty (id, name, max_load, created_at, updated_at) VALUES (:id, :name, :max_load, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update modifies a faculty record.
func (r *FacultyRepository) Update(ctx context.Context, f *models.Faculty) error {
	f.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET name = :name, max_load = :max_load, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// Delete removes a faculty record by id.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return nil
}
