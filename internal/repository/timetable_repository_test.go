package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func assignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "section_id", "course_id", "faculty_id", "room_id", "timeslot_id", "proposal_id", "score", "created_at", "updated_at"})
}

func TestTimetableRepositoryListByProposal(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := assignmentRows().
		AddRow("a1", "sec1", "c1", "f1", "r1", "ts1", 1, 1017, time.Now(), time.Now()).
		AddRow("a2", "sec2", "c1", "f1", "r2", "ts2", 1, 1017, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM assignments WHERE proposal_id = \\$1").
		WithArgs(1).
		WillReturnRows(rows)

	assignments, err := repo.ListByProposal(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
	assert.Equal(t, "a1", assignments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListAppliesFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	proposal := 2
	mock.ExpectQuery("SELECT .+ FROM assignments WHERE 1=1 AND proposal_id = \\$1 AND faculty_id = \\$2").
		WithArgs(2, "f1").
		WillReturnRows(assignmentRows())

	_, err := repo.List(context.Background(), models.AssignmentFilter{ProposalID: &proposal, FacultyID: "f1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	assignments := []models.Assignment{
		{SectionID: "sec1", CourseID: "c1", FacultyID: "f1", RoomID: "r1", TimeslotID: "ts1", ProposalID: 1, Score: 1017},
		{SectionID: "sec2", CourseID: "c1", FacultyID: "f1", RoomID: "r2", TimeslotID: "ts2", ProposalID: 2, Score: 1012},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), assignments))
	assert.NotEmpty(t, assignments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceAllEmptySetStillClears(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments")).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceAll(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdatePlacement(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	slot := "ts9"
	mock.ExpectExec("UPDATE assignments SET updated_at = \\$1, timeslot_id = \\$2 WHERE id = \\$3").
		WithArgs(sqlmock.AnyArg(), "ts9", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePlacement(context.Background(), models.AssignmentUpdate{AssignmentID: "a1", TimeslotID: &slot})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdatePlacementMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	room := "r2"
	mock.ExpectExec("UPDATE assignments SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePlacement(context.Background(), models.AssignmentUpdate{AssignmentID: "missing", RoomID: &room})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryProposalSummaries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"proposal_id", "score", "entry_count", "created_at"}).
		AddRow(2, 1020, 28, time.Now()).
		AddRow(1, 1015, 30, time.Now())
	mock.ExpectQuery("SELECT proposal_id, MAX\\(score\\) AS score, COUNT\\(\\*\\) AS entry_count").
		WillReturnRows(rows)

	summaries, err := repo.ProposalSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].ProposalID)
	assert.Equal(t, 1020, summaries[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
