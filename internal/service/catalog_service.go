package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

// Thin CRUD services over the entity catalogs. They validate payload shape
// via binding tags and map store misses to typed errors; all scheduling
// logic stays in the engine services.

type facultyStore interface {
	List(ctx context.Context) ([]models.Faculty, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, f *models.Faculty) error
	Update(ctx context.Context, f *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

// CreateFacultyRequest is the payload for creating a faculty member.
type CreateFacultyRequest struct {
	Name    string `json:"name" binding:"required"`
	MaxLoad int    `json:"max_load" binding:"omitempty,min=0"`
}

// FacultyService manages faculty records.
type FacultyService struct {
	repo   facultyStore
	logger *zap.Logger
}

// NewFacultyService constructs the service.
func NewFacultyService(repo facultyStore, logger *zap.Logger) *FacultyService {
	return &FacultyService{repo: repo, logger: logger}
}

func (s *FacultyService) List(ctx context.Context) ([]models.Faculty, error) {
	return s.repo.List(ctx)
}

func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "faculty not found")
	}
	return f, nil
}

func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	f := &models.Faculty{Name: req.Name, MaxLoad: req.MaxLoad}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FacultyService) Update(ctx context.Context, id string, req CreateFacultyRequest) (*models.Faculty, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Name = req.Name
	f.MaxLoad = req.MaxLoad
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type courseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"course_type" binding:"required,oneof=theory lab"`
	HoursPerWeek int    `json:"hours_per_week" binding:"omitempty,min=0"`
}

// CourseService manages course records.
type CourseService struct {
	repo   courseStore
	logger *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(repo courseStore, logger *zap.Logger) *CourseService {
	return &CourseService{repo: repo, logger: logger}
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return s.repo.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course not found")
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	c := &models.Course{Name: req.Name, Type: req.Type, HoursPerWeek: req.HoursPerWeek}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, id string, req CreateCourseRequest) (*models.Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Type = req.Type
	c.HoursPerWeek = req.HoursPerWeek
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type roomStore interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, r *models.Room) error
	Update(ctx context.Context, r *models.Room) error
	Delete(ctx context.Context, id string) error
}

// CreateRoomRequest is the payload for creating a room.
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"room_type" binding:"required,oneof=theory lab"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// RoomService manages room records.
type RoomService struct {
	repo   roomStore
	logger *zap.Logger
}

// NewRoomService constructs the service.
func NewRoomService(repo roomStore, logger *zap.Logger) *RoomService {
	return &RoomService{repo: repo, logger: logger}
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	return s.repo.List(ctx)
}

func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "room not found")
	}
	return room, nil
}

func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	room := &models.Room{Name: req.Name, Type: req.Type, Capacity: req.Capacity}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) Update(ctx context.Context, id string, req CreateRoomRequest) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Name = req.Name
	room.Type = req.Type
	room.Capacity = req.Capacity
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type sectionStore interface {
	List(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id string) (*models.Section, error)
	Create(ctx context.Context, s *models.Section) error
	Update(ctx context.Context, s *models.Section) error
	Delete(ctx context.Context, id string) error
}

// CreateSectionRequest is the payload for creating a section.
type CreateSectionRequest struct {
	Name         string `json:"name" binding:"required"`
	StudentCount int    `json:"student_count" binding:"required,min=1"`
}

// SectionService manages section records.
type SectionService struct {
	repo   sectionStore
	logger *zap.Logger
}

// NewSectionService constructs the service.
func NewSectionService(repo sectionStore, logger *zap.Logger) *SectionService {
	return &SectionService{repo: repo, logger: logger}
}

func (s *SectionService) List(ctx context.Context) ([]models.Section, error) {
	return s.repo.List(ctx)
}

func (s *SectionService) Get(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "section not found")
	}
	return section, nil
}

func (s *SectionService) Create(ctx context.Context, req CreateSectionRequest) (*models.Section, error) {
	section := &models.Section{Name: req.Name, StudentCount: req.StudentCount}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) Update(ctx context.Context, id string, req CreateSectionRequest) (*models.Section, error) {
	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	section.Name = req.Name
	section.StudentCount = req.StudentCount
	if err := s.repo.Update(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

type timeslotStore interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, id string) (*models.TimeSlot, error)
	Create(ctx context.Context, ts *models.TimeSlot) error
	Update(ctx context.Context, ts *models.TimeSlot) error
	Delete(ctx context.Context, id string) error
}

// CreateTimeSlotRequest is the payload for creating a timeslot.
type CreateTimeSlotRequest struct {
	Day       string  `json:"day" binding:"required,weekday"`
	Slot      int     `json:"slot" binding:"required,min=1"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// TimeSlotService manages timeslot records.
type TimeSlotService struct {
	repo   timeslotStore
	logger *zap.Logger
}

// NewTimeSlotService constructs the service.
func NewTimeSlotService(repo timeslotStore, logger *zap.Logger) *TimeSlotService {
	return &TimeSlotService{repo: repo, logger: logger}
}

func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	return s.repo.List(ctx)
}

func (s *TimeSlotService) Get(ctx context.Context, id string) (*models.TimeSlot, error) {
	ts, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "timeslot not found")
	}
	return ts, nil
}

func (s *TimeSlotService) Create(ctx context.Context, req CreateTimeSlotRequest) (*models.TimeSlot, error) {
	ts := &models.TimeSlot{Day: req.Day, Slot: req.Slot, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := s.repo.Create(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TimeSlotService) Update(ctx context.Context, id string, req CreateTimeSlotRequest) (*models.TimeSlot, error) {
	ts, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ts.Day = req.Day
	ts.Slot = req.Slot
	ts.StartTime = req.StartTime
	ts.EndTime = req.EndTime
	if err := s.repo.Update(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TimeSlotService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// notFoundOr maps a store miss to a typed not-found error and passes other
// failures through untouched.
func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return err
}
