package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/opencampus/timetable-api/internal/models"
	"github.com/opencampus/timetable-api/pkg/config"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
	"github.com/opencampus/timetable-api/pkg/export"
)

const timetableCachePattern = "timetable:*"

type timetableStore interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	ListByProposal(ctx context.Context, proposalID int) ([]models.Assignment, error)
	ReplaceAll(ctx context.Context, assignments []models.Assignment) error
	DeleteAll(ctx context.Context) error
	ProposalSummaries(ctx context.Context) ([]models.ProposalSummary, error)
	UpdatePlacement(ctx context.Context, upd models.AssignmentUpdate) error
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// GenerateRequest tunes one generation run. SectionCourses maps section ids
// to the course ids offered to that section; when empty every section is
// offered the full course catalog.
type GenerateRequest struct {
	SectionCourses map[string][]string `json:"section_courses,omitempty"`
}

// ProposalReport is one ranked candidate in a generation summary.
type ProposalReport struct {
	Rank       int            `json:"rank"`
	ProposalID int            `json:"proposal_id"`
	Score      ScoreBreakdown `json:"score"`
	EntryCount int            `json:"entry_count"`
}

// GenerateResult is the outcome of one full generation run.
type GenerateResult struct {
	BestProposalID int                 `json:"best_proposal_id"`
	Best           []models.Assignment `json:"best"`
	Proposals      []ProposalReport    `json:"proposals"`
	InjectedCount  int                 `json:"injected_count,omitempty"`
}

// TimetableService orchestrates candidate generation and owns the stored
// timetable. Each run builds the configured number of independent randomized
// candidates, scores them, and persists all of them as numbered proposals,
// replacing whatever was stored before.
type TimetableService struct {
	store    timetableStore
	catalogs catalogReaders
	cache    timetableCache
	metrics  *MetricsService
	lock     *ScopeLock
	cfg      config.SchedulerConfig
	cacheTTL time.Duration
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewTimetableService wires the orchestrator. The rng drives every shuffle
// of the run; tests pass a seeded source.
func NewTimetableService(
	store timetableStore,
	faculty facultyReader,
	courses courseReader,
	rooms roomReader,
	sections sectionReader,
	timeslots timeslotReader,
	availability availabilityReader,
	cache timetableCache,
	metrics *MetricsService,
	lock *ScopeLock,
	cfg config.SchedulerConfig,
	cacheTTL time.Duration,
	rng *rand.Rand,
	logger *zap.Logger,
) *TimetableService {
	return &TimetableService{
		store: store,
		catalogs: catalogReaders{
			faculty:      faculty,
			courses:      courses,
			rooms:        rooms,
			sections:     sections,
			timeslots:    timeslots,
			availability: availability,
		},
		cache:    cache,
		metrics:  metrics,
		lock:     lock,
		cfg:      cfg,
		cacheTTL: cacheTTL,
		rng:      rng,
		logger:   logger,
	}
}

type builtCandidate struct {
	proposalID int
	placements []Placement
	score      ScoreBreakdown
}

// Generate runs the full multi-candidate pipeline and persists every
// candidate, replacing all prior proposals.
func (s *TimetableService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	release := s.lock.Acquire()
	defer release()

	started := time.Now()

	cat, err := loadCatalog(ctx, s.catalogs)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	if len(cat.Sections) == 0 || len(cat.Faculty) == 0 || len(cat.Rooms) == 0 || len(cat.Timeslots) == 0 || len(cat.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "faculty, courses, rooms, sections and timeslots must all exist before generating")
	}

	coursesBySection, err := s.resolveSectionCourses(cat, req.SectionCourses)
	if err != nil {
		return nil, err
	}

	scorer := NewScorer(s.cfg.DailySlotCap)
	injector := NewClashInjector(s.rng)

	candidateCount := s.cfg.CandidateCount
	if candidateCount <= 0 {
		candidateCount = 1
	}

	injected := 0
	candidates := make([]builtCandidate, 0, candidateCount)
	for i := 1; i <= candidateCount; i++ {
		builder := NewBuilder(s.cfg.DailySlotCap, s.cfg.LabBlockSize, s.rng)
		placements := builder.Build(BuildInput{
			Sections:         cat.Sections,
			CoursesBySection: coursesBySection,
			Faculty:          cat.Faculty,
			Rooms:            cat.Rooms,
			Timeslots:        cat.Timeslots,
			Availability:     cat.Availability,
		})
		if s.cfg.InjectDemoClashes {
			injected += injector.Inject(placements, 3)
		}
		candidates = append(candidates, builtCandidate{
			proposalID: i,
			placements: placements,
			score:      scorer.Score(placements, cat.Faculty, cat.RoomsByID, cat.SectionsByID),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score.Total != candidates[j].score.Total {
			return candidates[i].score.Total > candidates[j].score.Total
		}
		return candidates[i].proposalID < candidates[j].proposalID
	})

	assignments := make([]models.Assignment, 0, len(candidates)*len(candidates[0].placements))
	reports := make([]ProposalReport, 0, len(candidates))
	for rank, cand := range candidates {
		reports = append(reports, ProposalReport{
			Rank:       rank + 1,
			ProposalID: cand.proposalID,
			Score:      cand.score,
			EntryCount: len(cand.placements),
		})
		for _, p := range cand.placements {
			assignments = append(assignments, models.Assignment{
				SectionID:  p.SectionID,
				CourseID:   p.CourseID,
				FacultyID:  p.FacultyID,
				RoomID:     p.RoomID,
				TimeslotID: p.TimeslotID,
				ProposalID: cand.proposalID,
				Score:      cand.score.Total,
			})
		}
	}

	if err := s.store.ReplaceAll(ctx, assignments); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)

	best := candidates[0]
	bestAssignments, err := s.store.ListByProposal(ctx, best.proposalID)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveGeneration(best.score.Total, len(best.placements), time.Since(started))
	s.logger.Info("timetable generated",
		zap.Int("candidates", len(candidates)),
		zap.Int("best_proposal", best.proposalID),
		zap.Int("best_score", best.score.Total),
		zap.Int("best_entries", len(best.placements)),
		zap.Int("injected_clashes", injected),
		zap.Duration("took", time.Since(started)),
	)

	return &GenerateResult{
		BestProposalID: best.proposalID,
		Best:           bestAssignments,
		Proposals:      reports,
		InjectedCount:  injected,
	}, nil
}

// resolveSectionCourses maps the request's per-section course ids onto the
// catalog, defaulting to the full catalog for every section.
func (s *TimetableService) resolveSectionCourses(cat *catalog, requested map[string][]string) (map[string][]models.Course, error) {
	out := make(map[string][]models.Course, len(cat.Sections))
	for _, section := range cat.Sections {
		ids, ok := requested[section.ID]
		if !ok {
			out[section.ID] = cat.Courses
			continue
		}
		courses := make([]models.Course, 0, len(ids))
		for _, id := range ids {
			course, found := cat.CoursesByID[id]
			if !found {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course %s for section %s", id, section.ID))
			}
			courses = append(courses, course)
		}
		out[section.ID] = courses
	}
	return out, nil
}

// GetTimetable lists stored assignments, serving proposal-scoped unfiltered
// reads from cache when available.
func (s *TimetableService) GetTimetable(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	key := timetableCacheKey(filter)
	if key != "" && s.cache != nil {
		var cached []models.Assignment
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	assignments, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if key != "" && s.cache != nil {
		if err := s.cache.Set(ctx, key, assignments, s.cacheTTL); err != nil {
			s.logger.Warn("cache timetable", zap.Error(err))
		}
	}
	return assignments, nil
}

// timetableCacheKey builds a key for cacheable reads. Resource-filtered
// queries are cheap and stay uncached.
func timetableCacheKey(filter models.AssignmentFilter) string {
	if filter.SectionID != "" || filter.FacultyID != "" || filter.RoomID != "" || filter.TimeslotID != "" {
		return ""
	}
	if filter.ProposalID == nil {
		return "timetable:all"
	}
	return "timetable:proposal:" + strconv.Itoa(*filter.ProposalID)
}

// ListProposals aggregates stored proposals, best score first.
func (s *TimetableService) ListProposals(ctx context.Context) ([]models.ProposalSummary, error) {
	return s.store.ProposalSummaries(ctx)
}

// DeleteAll clears the stored timetable across all proposals.
func (s *TimetableService) DeleteAll(ctx context.Context) error {
	release := s.lock.Acquire()
	defer release()

	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// ApplyChanges commits caller-supplied per-assignment edits verbatim. No
// clash re-validation happens here; callers are expected to run detection
// afterwards.
func (s *TimetableService) ApplyChanges(ctx context.Context, updates []models.AssignmentUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no changes supplied")
	}
	applied := 0
	for _, upd := range updates {
		if upd.AssignmentID == "" {
			return applied, appErrors.Clone(appErrors.ErrValidation, "assignment_id is required for every change")
		}
		if upd.FacultyID == nil && upd.RoomID == nil && upd.TimeslotID == nil {
			return applied, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("change for assignment %s sets no fields", upd.AssignmentID))
		}
		if err := s.store.UpdatePlacement(ctx, upd); err != nil {
			return applied, err
		}
		applied++
	}
	s.invalidateCache(ctx)
	s.logger.Info("applied manual timetable changes", zap.Int("count", applied))
	return applied, nil
}

// BuildExportDataset flattens stored assignments into a tabular dataset with
// catalog names resolved, ready for the CSV and PDF exporters.
func (s *TimetableService) BuildExportDataset(ctx context.Context, proposalID *int) (export.Dataset, error) {
	assignments, err := s.store.List(ctx, models.AssignmentFilter{ProposalID: proposalID})
	if err != nil {
		return export.Dataset{}, err
	}
	cat, err := loadCatalog(ctx, s.catalogs)
	if err != nil {
		return export.Dataset{}, err
	}

	dataset := export.Dataset{
		Headers: []string{"Proposal", "Section", "Course", "Faculty", "Room", "Day", "Slot", "Score"},
		Rows:    make([]map[string]string, 0, len(assignments)),
	}
	for _, a := range assignments {
		slot := cat.SlotsByID[a.TimeslotID]
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Proposal": strconv.Itoa(a.ProposalID),
			"Section":  nameOr(cat.SectionsByID[a.SectionID].Name, a.SectionID),
			"Course":   nameOr(cat.CoursesByID[a.CourseID].Name, a.CourseID),
			"Faculty":  nameOr(cat.FacultyByID[a.FacultyID].Name, a.FacultyID),
			"Room":     nameOr(cat.RoomsByID[a.RoomID].Name, a.RoomID),
			"Day":      slot.Day,
			"Slot":     strconv.Itoa(slot.Slot),
			"Score":    strconv.Itoa(a.Score),
		})
	}
	return dataset, nil
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func (s *TimetableService) invalidateCache(ctx context.Context) {
	invalidateTimetableCache(ctx, s.cache, s.logger)
}

// invalidateTimetableCache drops every cached timetable read. Any service
// that mutates placements must call it so stale assignments never outlive
// the write.
func invalidateTimetableCache(ctx context.Context, cache timetableCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.DeleteByPattern(ctx, timetableCachePattern); err != nil {
		logger.Warn("invalidate timetable cache", zap.Error(err))
	}
}
