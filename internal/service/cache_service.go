package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/models"
	appErrors "github.com/noah-isme/sparx-api/pkg/errors"
)

const publishedEntriesPrefix = "schedule:entries:"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService caches published timetable reads and records cache metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// PublishedEntriesKey derives the cache key for a PUBLISHED-only entry listing.
func PublishedEntriesKey(filter models.ScheduleEntryFilter) string {
	return fmt.Sprintf("%s%s:g=%s:t=%s:b=%s", publishedEntriesPrefix, filter.Semester, filter.GroupID, filter.TeacherID, filter.BatchID)
}

// PublishedEntries looks up a cached listing. Only PUBLISHED filters are cacheable.
func (s *CacheService) PublishedEntries(ctx context.Context, filter models.ScheduleEntryFilter) ([]models.ScheduleEntryDetail, bool) {
	if filter.Status != models.ScheduleBatchStatusPublished {
		return nil, false
	}
	var entries []models.ScheduleEntryDetail
	hit, err := s.get(ctx, PublishedEntriesKey(filter), &entries)
	if err != nil || !hit {
		return nil, false
	}
	return entries, true
}

// StorePublishedEntries caches a PUBLISHED-only listing. Failures are logged and swallowed.
func (s *CacheService) StorePublishedEntries(ctx context.Context, filter models.ScheduleEntryFilter, entries []models.ScheduleEntryDetail) {
	if filter.Status != models.ScheduleBatchStatusPublished {
		return
	}
	_ = s.set(ctx, PublishedEntriesKey(filter), entries, 0)
}

// InvalidateSemester drops every cached published listing of the semester.
func (s *CacheService) InvalidateSemester(ctx context.Context, semester models.Semester) error {
	return s.invalidate(ctx, publishedEntriesPrefix+string(semester)+":*")
}

func (s *CacheService) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

func (s *CacheService) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

func (s *CacheService) invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
