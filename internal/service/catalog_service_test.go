package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

type facultyStoreMock struct {
	byID    map[string]models.Faculty
	deleted []string
}

func (m *facultyStoreMock) List(context.Context) ([]models.Faculty, error) {
	out := []models.Faculty{}
	for _, f := range m.byID {
		out = append(out, f)
	}
	return out, nil
}

func (m *facultyStoreMock) FindByID(_ context.Context, id string) (*models.Faculty, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (m *facultyStoreMock) Create(_ context.Context, f *models.Faculty) error {
	if f.ID == "" {
		f.ID = "fac-new"
	}
	m.byID[f.ID] = *f
	return nil
}

func (m *facultyStoreMock) Update(_ context.Context, f *models.Faculty) error {
	m.byID[f.ID] = *f
	return nil
}

func (m *facultyStoreMock) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestFacultyServiceCreateAndGet(t *testing.T) {
	store := &facultyStoreMock{byID: map[string]models.Faculty{}}
	svc := NewFacultyService(store, zap.NewNop())

	created, err := svc.Create(context.Background(), CreateFacultyRequest{Name: "Dr. Rao", MaxLoad: 16})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", got.Name)
	assert.Equal(t, 16, got.MaxLoad)
}

func TestFacultyServiceGetMissingMapsToNotFound(t *testing.T) {
	svc := NewFacultyService(&facultyStoreMock{byID: map[string]models.Faculty{}}, zap.NewNop())

	_, err := svc.Get(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceUpdate(t *testing.T) {
	store := &facultyStoreMock{byID: map[string]models.Faculty{
		"fac1": {ID: "fac1", Name: "Dr. Rao", MaxLoad: 12},
	}}
	svc := NewFacultyService(store, zap.NewNop())

	updated, err := svc.Update(context.Background(), "fac1", CreateFacultyRequest{Name: "Dr. Rao", MaxLoad: 18})
	require.NoError(t, err)

	assert.Equal(t, 18, updated.MaxLoad)
	assert.Equal(t, 18, store.byID["fac1"].MaxLoad)
}

func TestFacultyServiceDeleteMissing(t *testing.T) {
	store := &facultyStoreMock{byID: map[string]models.Faculty{}}
	svc := NewFacultyService(store, zap.NewNop())

	err := svc.Delete(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.deleted)
}

type availabilityStoreMock struct {
	rows    []models.FacultyAvailability
	deleted []string
}

func (m *availabilityStoreMock) List(context.Context) ([]models.FacultyAvailability, error) {
	return m.rows, nil
}

func (m *availabilityStoreMock) ListByFaculty(_ context.Context, facultyID string) ([]models.FacultyAvailability, error) {
	out := []models.FacultyAvailability{}
	for _, row := range m.rows {
		if row.FacultyID == facultyID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *availabilityStoreMock) Upsert(_ context.Context, row *models.FacultyAvailability) error {
	m.rows = append(m.rows, *row)
	return nil
}

func (m *availabilityStoreMock) BulkUpsert(_ context.Context, rows []models.FacultyAvailability) error {
	m.rows = append(m.rows, rows...)
	return nil
}

func (m *availabilityStoreMock) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestAvailabilitySetFansOutEntries(t *testing.T) {
	store := &availabilityStoreMock{}
	svc := NewAvailabilityService(store, zap.NewNop())

	rows, err := svc.Set(context.Background(), SetAvailabilityRequest{
		FacultyID: "fac1",
		Entries: []AvailabilityEntry{
			{TimeslotID: "mon-1", IsAvailable: true},
			{TimeslotID: "mon-2", IsAvailable: false},
		},
	})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	require.Len(t, store.rows, 2)
	assert.Equal(t, "fac1", store.rows[0].FacultyID)
	assert.True(t, store.rows[0].IsAvailable)
	assert.False(t, store.rows[1].IsAvailable)

	byFaculty, err := svc.ListByFaculty(context.Background(), "fac1")
	require.NoError(t, err)
	assert.Len(t, byFaculty, 2)
}
