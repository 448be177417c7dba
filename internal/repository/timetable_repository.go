package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// TimetableRepository provides persistence for timetable assignments.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const assignmentColumns = `id, section_id, course_id, faculty_id, room_id, timeslot_id, proposal_id, score, created_at, updated_at`

// List returns assignments matching the filter, newest proposal first then
// by section.
func (r *TimetableRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE 1=1`
	args := []interface{}{}
	idx := 1

	appendCond := func(column string, value interface{}) {
		query += fmt.Sprintf(" AND %s = $%d", column, idx)
		args = append(args, value)
		idx++
	}

	if filter.ProposalID != nil {
		appendCond("proposal_id", *filter.ProposalID)
	}
	if filter.SectionID != "" {
		appendCond("section_id", filter.SectionID)
	}
	if filter.FacultyID != "" {
		appendCond("faculty_id", filter.FacultyID)
	}
	if filter.RoomID != "" {
		appendCond("room_id", filter.RoomID)
	}
	if filter.TimeslotID != "" {
		appendCond("timeslot_id", filter.TimeslotID)
	}
	query += " ORDER BY proposal_id ASC, section_id ASC, timeslot_id ASC"

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListByProposal returns every assignment of one proposal.
func (r *TimetableRepository) ListByProposal(ctx context.Context, proposalID int) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE proposal_id = $1 ORDER BY section_id ASC, timeslot_id ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, proposalID); err != nil {
		return nil, fmt.Errorf("list assignments for proposal %d: %w", proposalID, err)
	}
	return assignments, nil
}

// ListAll returns every stored assignment across all proposals.
func (r *TimetableRepository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments ORDER BY proposal_id ASC, section_id ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list all assignments: %w", err)
	}
	return assignments, nil
}

// FindByID loads one assignment.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReplaceAll deletes every stored assignment and bulk-inserts the given set
// in a single transaction. Used when persisting a fresh generation run.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, assignments []models.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	if err := r.bulkCreateWithTx(ctx, tx, assignments); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}
	return nil
}

// DeleteAll removes every stored assignment.
func (r *TimetableRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments`); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	return nil
}

// DeleteByProposal removes a single proposal's assignments.
func (r *TimetableRepository) DeleteByProposal(ctx context.Context, proposalID int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE proposal_id = $1`, proposalID); err != nil {
		return fmt.Errorf("delete assignments for proposal %d: %w", proposalID, err)
	}
	return nil
}

func (r *TimetableRepository) bulkCreateWithTx(ctx context.Context, tx sqlx.ExtContext, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	now := time.Now().UTC()
	const query = `INSERT INTO assignments (id, section_id, course_id, faculty_id, room_id, timeslot_id, proposal_id, score, created_at, updated_at)
		VALUES (:id, :section_id, :course_id, :faculty_id, :room_id, :timeslot_id, :proposal_id, :score, :created_at, :updated_at)`
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		assignments[i].CreatedAt = now
		assignments[i].UpdatedAt = now
	}
	if _, err := sqlx.NamedExecContext(ctx, tx, query, assignments); err != nil {
		return fmt.Errorf("bulk create assignments: %w", err)
	}
	return nil
}

// UpdatePlacement rewrites the movable fields of one assignment. Nil fields
// are left untouched.
func (r *TimetableRepository) UpdatePlacement(ctx context.Context, upd models.AssignmentUpdate) error {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now().UTC()}
	idx := 2

	if upd.FacultyID != nil {
		sets = append(sets, fmt.Sprintf("faculty_id = $%d", idx))
		args = append(args, *upd.FacultyID)
		idx++
	}
	if upd.RoomID != nil {
		sets = append(sets, fmt.Sprintf("room_id = $%d", idx))
		args = append(args, *upd.RoomID)
		idx++
	}
	if upd.TimeslotID != nil {
		sets = append(sets, fmt.Sprintf("timeslot_id = $%d", idx))
		args = append(args, *upd.TimeslotID)
		idx++
	}
	args = append(args, upd.AssignmentID)

	query := fmt.Sprintf("UPDATE assignments SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update assignment %s: %w", upd.AssignmentID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update assignment %s: no rows affected", upd.AssignmentID)
	}
	return nil
}

// ProposalSummaries aggregates stored proposals ordered by score descending.
func (r *TimetableRepository) ProposalSummaries(ctx context.Context) ([]models.ProposalSummary, error) {
	const query = `SELECT proposal_id, MAX(score) AS score, COUNT(*) AS entry_count, MIN(created_at) AS created_at
		FROM assignments GROUP BY proposal_id ORDER BY score DESC, proposal_id ASC`
	var summaries []models.ProposalSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("proposal summaries: %w", err)
	}
	return summaries, nil
}
