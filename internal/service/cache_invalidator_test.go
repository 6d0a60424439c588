package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sparx-api/internal/models"
)

type semesterCacheSpy struct {
	calls chan models.Semester
}

func (s *semesterCacheSpy) InvalidateSemester(ctx context.Context, semester models.Semester) error {
	s.calls <- semester
	return nil
}

func TestCacheInvalidatorRunsOnQueue(t *testing.T) {
	spy := &semesterCacheSpy{calls: make(chan models.Semester, 1)}
	inv := NewCacheInvalidator(spy, 1, 1, nil)
	inv.Start(context.Background())
	defer inv.Stop()

	inv.Invalidate(models.SemesterSummer)

	select {
	case got := <-spy.calls:
		assert.Equal(t, models.SemesterSummer, got)
	case <-time.After(2 * time.Second):
		t.Fatal("invalidation not processed")
	}
}

func TestCacheInvalidatorFallsBackInline(t *testing.T) {
	spy := &semesterCacheSpy{calls: make(chan models.Semester, 1)}
	inv := NewCacheInvalidator(spy, 1, 0, nil)

	inv.Invalidate(models.SemesterWinter)

	assert.Equal(t, models.SemesterWinter, <-spy.calls)
}
