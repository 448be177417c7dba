package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// ConflictRepository provides persistence for derived conflict records.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository creates a new conflict repository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

const conflictColumns = `id, conflict_type, entity_id, timeslot_id, reason, detail, proposal_id, created_at`

// ListByScope returns conflicts for one proposal, or every conflict when
// proposalID is nil.
func (r *ConflictRepository) ListByScope(ctx context.Context, proposalID *int) ([]models.Conflict, error) {
	var (
		conflicts []models.Conflict
		err       error
	)
	if proposalID != nil {
		query := `SELECT ` + conflictColumns + ` FROM conflicts WHERE proposal_id = $1 ORDER BY conflict_type ASC, entity_id ASC`
		err = r.db.SelectContext(ctx, &conflicts, query, *proposalID)
	} else {
		query := `SELECT ` + conflictColumns + ` FROM conflicts ORDER BY conflict_type ASC, entity_id ASC`
		err = r.db.SelectContext(ctx, &conflicts, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	return conflicts, nil
}

// DeleteByScope clears conflicts for one proposal, or all conflicts when
// proposalID is nil. Every detection run calls this first.
func (r *ConflictRepository) DeleteByScope(ctx context.Context, proposalID *int) error {
	var err error
	if proposalID != nil {
		_, err = r.db.ExecContext(ctx, `DELETE FROM conflicts WHERE proposal_id = $1`, *proposalID)
	} else {
		_, err = r.db.ExecContext(ctx, `DELETE FROM conflicts`)
	}
	if err != nil {
		return fmt.Errorf("delete conflicts: %w", err)
	}
	return nil
}

// BulkCreate stores a batch of conflict records.
func (r *ConflictRepository) BulkCreate(ctx context.Context, conflicts []models.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range conflicts {
		if conflicts[i].ID == "" {
			conflicts[i].ID = uuid.NewString()
		}
		conflicts[i].CreatedAt = now
	}
	const query = `INSERT INTO conflicts (id, conflict_type, entity_id, timeslot_id, reason, detail, proposal_id, created_at)
		VALUES (:id, :conflict_type, :entity_id, :timeslot_id, :reason, :detail, :proposal_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, conflicts); err != nil {
		return fmt.Errorf("bulk create conflicts: %w", err)
	}
	return nil
}
