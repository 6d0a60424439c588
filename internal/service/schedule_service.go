package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/internal/scheduler"
	appErrors "github.com/noah-isme/sparx-api/pkg/errors"
)

type scheduleBatchStore interface {
	LockSemester(ctx context.Context, exec sqlx.ExtContext, semester models.Semester) error
	Create(ctx context.Context, exec sqlx.ExtContext, batch *models.ScheduleBatch) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ScheduleBatch, error)
	ListByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string, status models.ScheduleBatchStatus) ([]models.ScheduleBatch, error)
	List(ctx context.Context, filter models.ScheduleBatchFilter) ([]models.ScheduleBatch, error)
	DeleteDrafts(ctx context.Context, exec sqlx.ExtContext, groupID string, semester models.Semester) (int64, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) error
	MarkPublished(ctx context.Context, exec sqlx.ExtContext, ids []string, at time.Time) (int64, error)
}

type scheduleEntryStore interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error
	ListByBatch(ctx context.Context, exec sqlx.ExtContext, batchID string) ([]models.ScheduleEntryDetail, error)
	ListOccupancy(ctx context.Context, exec sqlx.ExtContext, semester models.Semester, excludeGroupID string) ([]models.OccupiedSlot, error)
	List(ctx context.Context, filter models.ScheduleEntryFilter) ([]models.ScheduleEntryDetail, error)
}

type obligationReader interface {
	ListByGroup(ctx context.Context, exec sqlx.ExtContext, groupID string) ([]models.TeacherSubjectDetail, error)
}

type roomReader interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]models.Room, error)
}

type preferenceReader interface {
	List(ctx context.Context, exec sqlx.ExtContext) ([]models.Preference, error)
}

type groupReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentGroup, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type publishedEntriesCache interface {
	PublishedEntries(ctx context.Context, filter models.ScheduleEntryFilter) ([]models.ScheduleEntryDetail, bool)
	StorePublishedEntries(ctx context.Context, filter models.ScheduleEntryFilter, entries []models.ScheduleEntryDetail)
}

type semesterInvalidator interface {
	Invalidate(semester models.Semester)
}

// ScheduleServiceConfig tunes the lifecycle manager.
type ScheduleServiceConfig struct {
	DefaultWeights scheduler.Weights
	Now            func() time.Time
}

// ScheduleService manages generation, reoptimisation, publishing and deletion of schedule batches.
type ScheduleService struct {
	batches     scheduleBatchStore
	entries     scheduleEntryStore
	obligations obligationReader
	rooms       roomReader
	prefs       preferenceReader
	groups      groupReader
	tx          txProvider
	cache       publishedEntriesCache
	invalidator semesterInvalidator
	metrics     *MetricsService
	engine      *scheduler.Engine
	locks       *semesterLocks
	validator   *validator.Validate
	logger      *zap.Logger
	weights     scheduler.Weights
	now         func() time.Time
}

// NewScheduleService wires the lifecycle manager.
func NewScheduleService(
	batches scheduleBatchStore,
	entries scheduleEntryStore,
	obligations obligationReader,
	rooms roomReader,
	prefs preferenceReader,
	groups groupReader,
	tx txProvider,
	cache publishedEntriesCache,
	invalidator semesterInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DefaultWeights.Validate() != nil || cfg.DefaultWeights == (scheduler.Weights{}) {
		cfg.DefaultWeights = scheduler.DefaultWeights()
	}
	return &ScheduleService{
		batches:     batches,
		entries:     entries,
		obligations: obligations,
		rooms:       rooms,
		prefs:       prefs,
		groups:      groups,
		tx:          tx,
		cache:       cache,
		invalidator: invalidator,
		metrics:     metrics,
		engine:      scheduler.New(logger),
		locks:       newSemesterLocks(),
		validator:   validate,
		logger:      logger,
		weights:     cfg.DefaultWeights,
		now:         cfg.Now,
	}
}

// Generate builds a new DRAFT batch for a group, replacing its existing drafts.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (resp *dto.GenerateScheduleResponse, err error) {
	start := time.Now()
	var result *scheduler.Result
	defer func() {
		if result != nil {
			s.metrics.ObserveGeneration(time.Since(start), len(result.Entries), len(result.Conflicts), result.FallbackCount(), err)
		} else {
			s.metrics.ObserveGeneration(time.Since(start), 0, 0, 0, err)
		}
	}()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	weights, err := s.resolveWeights(req.Weights)
	if err != nil {
		return nil, err
	}
	semester := s.semesterOrCurrent(req.Semester)

	group, err := s.groups.FindByID(ctx, req.GroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group")
	}

	unlock := s.locks.lock(semester)
	defer unlock()

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.batches.LockSemester(ctx, tx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock semester")
	}
	if err = s.clearDrafts(ctx, tx, req, semester); err != nil {
		return nil, err
	}

	input, err := s.loadInput(ctx, tx, *group, semester)
	if err != nil {
		return nil, err
	}
	input.BatchID = uuid.NewString()
	input.Weights = weights
	input.Resolved = toResolvedSlots(req.ResolvedConflicts)

	result = s.engine.Run(input)

	batch := &models.ScheduleBatch{
		ID:              input.BatchID,
		Semester:        semester,
		GroupID:         group.ID,
		GroupName:       group.Name,
		Status:          models.ScheduleBatchStatusDraft,
		PreferenceScore: result.Metrics.PreferenceScore,
		TeacherGaps:     result.Metrics.TeacherGaps,
		StudentGaps:     result.Metrics.StudentGaps,
		EntriesCount:    len(result.Entries),
	}
	if err = s.batches.Create(ctx, tx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule batch")
	}
	if err = s.entries.InsertBatch(ctx, tx, result.Entries); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "slot taken by a concurrent generation, retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule entries")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule batch")
	}

	s.logger.Info("schedule batch generated",
		zap.String("batch_id", batch.ID),
		zap.String("group_id", group.ID),
		zap.String("semester", string(semester)),
		zap.Int("entries", len(result.Entries)),
		zap.Int("conflicts", len(result.Conflicts)),
	)

	return &dto.GenerateScheduleResponse{
		Batch:     *batch,
		Schedule:  nonNilEntries(result.Entries),
		Conflicts: nonNilConflicts(result.Conflicts),
		Summaries: result.Summaries,
		Group:     dto.GroupRef{ID: group.ID, Name: group.Name},
		Semester:  semester,
		Stats: dto.ScheduleStats{
			TotalEntries:    len(result.Entries),
			ConflictsCount:  len(result.Conflicts),
			WeeksCount:      scheduler.WeeksPerSemester,
			PreferenceScore: result.Metrics.PreferenceScore,
			TeacherGaps:     result.Metrics.TeacherGaps,
			StudentGaps:     result.Metrics.StudentGaps,
		},
	}, nil
}

func (s *ScheduleService) clearDrafts(ctx context.Context, tx *sqlx.Tx, req dto.GenerateScheduleRequest, semester models.Semester) error {
	if req.ExistingBatchID == "" {
		removed, err := s.batches.DeleteDrafts(ctx, tx, req.GroupID, semester)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove previous drafts")
		}
		if removed > 0 {
			s.logger.Debug("previous drafts removed", zap.String("group_id", req.GroupID), zap.Int64("count", removed))
		}
		return nil
	}

	existing, err := s.batches.FindByID(ctx, tx, req.ExistingBatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule batch")
	}
	if !existing.IsDraft() {
		return appErrors.Clone(appErrors.ErrInvalidState, "cannot replace a published schedule")
	}
	if existing.GroupID != req.GroupID || existing.Semester != semester {
		return appErrors.Clone(appErrors.ErrValidation, "existing batch belongs to another group or semester")
	}
	if err := s.batches.Delete(ctx, tx, existing.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove existing draft")
	}
	return nil
}

func (s *ScheduleService) loadInput(ctx context.Context, tx *sqlx.Tx, group models.StudentGroup, semester models.Semester) (scheduler.Input, error) {
	obligations, err := s.obligations.ListByGroup(ctx, tx, group.ID)
	if err != nil {
		return scheduler.Input{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher subjects")
	}
	rooms, err := s.rooms.List(ctx, tx)
	if err != nil {
		return scheduler.Input{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	prefs, err := s.prefs.List(ctx, tx)
	if err != nil {
		return scheduler.Input{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferences")
	}
	occupied, err := s.entries.ListOccupancy(ctx, tx, semester, group.ID)
	if err != nil {
		return scheduler.Input{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occupancy")
	}
	return scheduler.Input{
		Semester:    semester,
		Group:       group,
		Obligations: obligations,
		Rooms:       rooms,
		Preferences: prefs,
		Occupied:    occupied,
	}, nil
}

// Reoptimize regenerates the requested drafts in place. Individual failures are logged and skipped.
func (s *ScheduleService) Reoptimize(ctx context.Context, req dto.ReoptimizeScheduleRequest) (*dto.ReoptimizeScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reoptimize payload")
	}
	if _, err := s.resolveWeights(req.Weights); err != nil {
		return nil, err
	}

	drafts, err := s.batches.ListByIDs(ctx, nil, req.BatchIDs, models.ScheduleBatchStatusDraft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft batches")
	}
	if req.Semester != "" {
		drafts = lo.Filter(drafts, func(b models.ScheduleBatch, _ int) bool { return b.Semester == req.Semester })
	}
	if len(drafts) == 0 {
		s.metrics.ObserveLifecycle("reoptimize", appErrors.ErrInvalidState)
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "no draft batches found")
	}

	resp := &dto.ReoptimizeScheduleResponse{Reoptimized: []models.ScheduleBatch{}}
	for _, draft := range drafts {
		result, err := s.Generate(ctx, dto.GenerateScheduleRequest{
			GroupID:         draft.GroupID,
			Semester:        draft.Semester,
			ExistingBatchID: draft.ID,
			Weights:         req.Weights,
		})
		if err != nil {
			s.logger.Warn("reoptimize batch failed", zap.String("batch_id", draft.ID), zap.Error(err))
			continue
		}
		resp.Reoptimized = append(resp.Reoptimized, result.Batch)
	}
	resp.Count = len(resp.Reoptimized)
	s.metrics.ObserveLifecycle("reoptimize", nil)
	return resp, nil
}

// Publish promotes the DRAFT batches among the requested ids.
func (s *ScheduleService) Publish(ctx context.Context, req dto.PublishScheduleRequest) (resp *dto.PublishScheduleResponse, err error) {
	defer func() { s.metrics.ObserveLifecycle("publish", err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid publish payload")
	}

	candidates, err := s.batches.ListByIDs(ctx, nil, req.BatchIDs, models.ScheduleBatchStatusDraft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft batches")
	}
	if len(candidates) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "no draft batches found")
	}

	semesters := lo.Uniq(lo.Map(candidates, func(b models.ScheduleBatch, _ int) models.Semester { return b.Semester }))
	sort.Slice(semesters, func(i, j int) bool { return semesters[i] < semesters[j] })
	for _, semester := range semesters {
		unlock := s.locks.lock(semester)
		defer unlock()
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, semester := range semesters {
		if err = s.batches.LockSemester(ctx, tx, semester); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock semester")
		}
	}

	drafts, err := s.batches.ListByIDs(ctx, tx, req.BatchIDs, models.ScheduleBatchStatusDraft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft batches")
	}
	drafts = lo.Filter(drafts, func(b models.ScheduleBatch, _ int) bool { return lo.Contains(semesters, b.Semester) })
	if len(drafts) == 0 {
		err = appErrors.Clone(appErrors.ErrInvalidState, "no draft batches found")
		return nil, err
	}

	publishedAt := s.now().UTC()
	ids := lo.Map(drafts, func(b models.ScheduleBatch, _ int) string { return b.ID })
	if _, err = s.batches.MarkPublished(ctx, tx, ids, publishedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish schedule batches")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit publish")
	}

	for i := range drafts {
		drafts[i].Status = models.ScheduleBatchStatusPublished
		drafts[i].PublishedAt = &publishedAt
		drafts[i].UpdatedAt = publishedAt
	}
	for _, semester := range semesters {
		if s.invalidator != nil {
			s.invalidator.Invalidate(semester)
		}
	}
	s.metrics.ObservePublished(len(drafts))
	s.logger.Info("schedule batches published", zap.Strings("batch_ids", ids))

	return &dto.PublishScheduleResponse{Published: drafts, Count: len(drafts)}, nil
}

// DeleteBatch removes a DRAFT batch and its entries.
func (s *ScheduleService) DeleteBatch(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.ObserveLifecycle("delete", err) }()

	batch, err := s.batches.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule batch")
	}
	if !batch.IsDraft() {
		return appErrors.Clone(appErrors.ErrInvalidState, "cannot delete published schedule")
	}

	unlock := s.locks.lock(batch.Semester)
	defer unlock()

	if err = s.batches.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidState, "schedule batch is no longer a draft")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule batch")
	}
	s.logger.Info("schedule batch deleted", zap.String("batch_id", id))
	return nil
}

// ListBatches returns batches of a semester, newest first.
func (s *ScheduleService) ListBatches(ctx context.Context, query dto.ScheduleBatchQuery) ([]models.ScheduleBatch, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch query")
	}
	batches, err := s.batches.List(ctx, models.ScheduleBatchFilter{
		Semester: s.semesterOrCurrent(query.Semester),
		Status:   query.Status,
		GroupID:  query.GroupID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule batches")
	}
	if batches == nil {
		batches = []models.ScheduleBatch{}
	}
	return batches, nil
}

// GetBatch returns a batch together with its entries.
func (s *ScheduleService) GetBatch(ctx context.Context, id string) (*dto.ScheduleBatchDetail, error) {
	batch, err := s.batches.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule batch")
	}
	entries, err := s.entries.ListByBatch(ctx, nil, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	if entries == nil {
		entries = []models.ScheduleEntryDetail{}
	}
	return &dto.ScheduleBatchDetail{Batch: *batch, Entries: entries}, nil
}

// ListEntries returns entries ordered by week, day and slot. PUBLISHED-only reads are cached.
func (s *ScheduleService) ListEntries(ctx context.Context, query dto.ScheduleEntryQuery) ([]models.ScheduleEntryDetail, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule query")
	}
	filter := models.ScheduleEntryFilter{
		Semester:  s.semesterOrCurrent(query.Semester),
		Status:    query.Status,
		GroupID:   query.GroupID,
		TeacherID: query.TeacherID,
		BatchID:   query.BatchID,
	}

	if s.cache != nil {
		if cached, ok := s.cache.PublishedEntries(ctx, filter); ok {
			return cached, nil
		}
	}

	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	if entries == nil {
		entries = []models.ScheduleEntryDetail{}
	}
	if s.cache != nil {
		s.cache.StorePublishedEntries(ctx, filter, entries)
	}
	return entries, nil
}

// CurrentSemester exposes the clock derived default semester.
func (s *ScheduleService) CurrentSemester() models.Semester {
	return models.CurrentSemester(s.now())
}

func (s *ScheduleService) semesterOrCurrent(semester models.Semester) models.Semester {
	if semester != "" {
		return semester
	}
	return s.CurrentSemester()
}

func (s *ScheduleService) resolveWeights(req *dto.WeightsRequest) (scheduler.Weights, error) {
	if req == nil {
		return s.weights, nil
	}
	weights := req.ToWeights(s.weights)
	if err := weights.Validate(); err != nil {
		return scheduler.Weights{}, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, appErrors.ErrInvalidWeights.Message)
	}
	return weights, nil
}

// uniqueViolation is the Postgres SQLSTATE raised when a grid uniqueness constraint is hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func toResolvedSlots(in map[string][]dto.ResolvedSlotRequest) map[string][]scheduler.ResolvedSlot {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]scheduler.ResolvedSlot, len(in))
	for obligationID, slots := range in {
		out[obligationID] = lo.Map(slots, func(r dto.ResolvedSlotRequest, _ int) scheduler.ResolvedSlot {
			return scheduler.ResolvedSlot{Week: r.Week, Day: r.Day, Slot: r.Slot, RoomID: r.RoomID}
		})
	}
	return out
}

func nonNilEntries(entries []models.ScheduleEntry) []models.ScheduleEntry {
	if entries == nil {
		return []models.ScheduleEntry{}
	}
	return entries
}

func nonNilConflicts(conflicts []scheduler.Conflict) []scheduler.Conflict {
	if conflicts == nil {
		return []scheduler.Conflict{}
	}
	return conflicts
}

// semesterLocks serialises writers of one semester inside this process.
type semesterLocks struct {
	mu    sync.Mutex
	locks map[models.Semester]*sync.Mutex
}

func newSemesterLocks() *semesterLocks {
	return &semesterLocks{locks: make(map[models.Semester]*sync.Mutex)}
}

func (l *semesterLocks) lock(semester models.Semester) func() {
	l.mu.Lock()
	m, ok := l.locks[semester]
	if !ok {
		m = &sync.Mutex{}
		l.locks[semester] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
