package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/pkg/jobs"
)

const jobInvalidateSemester = "invalidate_semester"

type semesterCache interface {
	InvalidateSemester(ctx context.Context, semester models.Semester) error
}

// CacheInvalidator drops cached published reads on a background worker queue.
type CacheInvalidator struct {
	cache  semesterCache
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewCacheInvalidator builds an invalidator. Start must be called before jobs are processed.
func NewCacheInvalidator(cache semesterCache, workers, retries int, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	inv := &CacheInvalidator{cache: cache, logger: logger}
	inv.queue = jobs.NewQueue("cache-invalidation", inv.handle, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		RetryDelay: 200 * time.Millisecond,
		Logger:     logger,
	})
	return inv
}

// Start launches the workers.
func (i *CacheInvalidator) Start(ctx context.Context) {
	i.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (i *CacheInvalidator) Stop() {
	i.queue.Stop()
}

// Invalidate schedules removal of the semester's cached reads, falling back to a
// synchronous call when the queue does not accept the job.
func (i *CacheInvalidator) Invalidate(semester models.Semester) {
	job := jobs.Job{Type: jobInvalidateSemester, Payload: semester}
	if err := i.queue.Enqueue(job); err != nil {
		i.logger.Warn("invalidation queue unavailable, running inline", zap.Error(err))
		if err := i.handle(context.Background(), job); err != nil {
			i.logger.Error("cache invalidation failed", zap.String("semester", string(semester)), zap.Error(err))
		}
	}
}

func (i *CacheInvalidator) handle(ctx context.Context, job jobs.Job) error {
	semester, ok := job.Payload.(models.Semester)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", job.Payload, job.Type)
	}
	return i.cache.InvalidateSemester(ctx, semester)
}
