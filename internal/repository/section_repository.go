package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// SectionRepository provides persistence for section records.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns all sections ordered by name.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	const query = `SELECT id, name, student_count, created_at, updated_at FROM sections ORDER BY name ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID loads a section by id.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	const query = `SELECT id, name, student_count, created_at, updated_at FROM sections WHERE id = $1`
	var s models.Section
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create stores a new section.
func (r *SectionRepository) Create(ctx context.Context, s *models.Section) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	const query = `INSERT INTO sections (id, name, student_count, created_at, updated_at)
		VALUES (:id, :name, :student_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update modifies a section.
func (r *SectionRepository) Update(ctx context.Context, s *models.Section) error {
	s.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sections SET name = :name, student_count = :student_count, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section by id.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
