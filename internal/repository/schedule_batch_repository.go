package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sparx-api/internal/models"
)

const batchSelect = `SELECT b.id, b.semester, b.group_id, COALESCE(g.name, '') AS group_name, b.status,
b.preference_score, b.teacher_gaps, b.student_gaps,
(SELECT COUNT(*) FROM schedule_entries e WHERE e.batch_id = b.id) AS entries_count,
b.created_at, b.updated_at, b.published_at
FROM schedule_batches b LEFT JOIN student_groups g ON g.id = b.group_id`

// ScheduleBatchRepository persists generation batches.
type ScheduleBatchRepository struct {
	db *sqlx.DB
}

// NewScheduleBatchRepository constructs repository.
func NewScheduleBatchRepository(db *sqlx.DB) *ScheduleBatchRepository {
	return &ScheduleBatchRepository{db: db}
}

func (r *ScheduleBatchRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// LockSemester takes a transaction scoped advisory lock so generations of one
// semester are serialised across processes.
func (r *ScheduleBatchRepository) LockSemester(ctx context.Context, exec sqlx.ExtContext, semester models.Semester) error {
	const query = `SELECT pg_advisory_xact_lock(hashtext($1))`
	if _, err := r.exec(exec).ExecContext(ctx, query, "schedule:"+string(semester)); err != nil {
		return fmt.Errorf("lock semester %s: %w", semester, err)
	}
	return nil
}

// Create inserts a new batch.
func (r *ScheduleBatchRepository) Create(ctx context.Context, exec sqlx.ExtContext, batch *models.ScheduleBatch) error {
	if batch == nil {
		return fmt.Errorf("batch payload is nil")
	}
	if batch.GroupID == "" || batch.Semester == "" {
		return fmt.Errorf("group_id and semester are required")
	}
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.Status == "" {
		batch.Status = models.ScheduleBatchStatusDraft
	}
	now := time.Now().UTC()
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}
	batch.UpdatedAt = now

	const query = `
INSERT INTO schedule_batches (id, semester, group_id, status, preference_score, teacher_gaps, student_gaps, created_at, updated_at, published_at)
VALUES (:id, :semester, :group_id, :status, :preference_score, :teacher_gaps, :student_gaps, :created_at, :updated_at, :published_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, batch); err != nil {
		return fmt.Errorf("insert schedule batch: %w", err)
	}
	return nil
}

// FindByID loads a batch by its identifier.
func (r *ScheduleBatchRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ScheduleBatch, error) {
	query := batchSelect + ` WHERE b.id = $1`
	var batch models.ScheduleBatch
	if err := sqlx.GetContext(ctx, r.exec(exec), &batch, query, id); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListByIDs returns the batches among ids with the given status, oldest first.
func (r *ScheduleBatchRepository) ListByIDs(ctx context.Context, exec sqlx.ExtContext, ids []string, status models.ScheduleBatchStatus) ([]models.ScheduleBatch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := batchSelect + ` WHERE b.id = ANY($1) AND b.status = $2 ORDER BY b.created_at ASC`
	var batches []models.ScheduleBatch
	if err := sqlx.SelectContext(ctx, r.exec(exec), &batches, query, pq.Array(ids), status); err != nil {
		return nil, fmt.Errorf("list schedule batches by id: %w", err)
	}
	return batches, nil
}

// List returns batches matching the filter, newest first.
func (r *ScheduleBatchRepository) List(ctx context.Context, filter models.ScheduleBatchFilter) ([]models.ScheduleBatch, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("b.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("b.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}

	query := batchSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.created_at DESC"

	var batches []models.ScheduleBatch
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule batches: %w", err)
	}
	return batches, nil
}

// DeleteDrafts removes every DRAFT batch of the group and semester. Entries cascade.
func (r *ScheduleBatchRepository) DeleteDrafts(ctx context.Context, exec sqlx.ExtContext, groupID string, semester models.Semester) (int64, error) {
	const query = `DELETE FROM schedule_batches WHERE group_id = $1 AND semester = $2 AND status = $3`
	result, err := r.exec(exec).ExecContext(ctx, query, groupID, semester, models.ScheduleBatchStatusDraft)
	if err != nil {
		return 0, fmt.Errorf("delete draft schedule batches: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("draft schedule batch rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes a DRAFT batch. Published batches are never matched.
func (r *ScheduleBatchRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `DELETE FROM schedule_batches WHERE id = $1 AND status = $2`
	result, err := r.exec(exec).ExecContext(ctx, query, id, models.ScheduleBatchStatusDraft)
	if err != nil {
		return fmt.Errorf("delete schedule batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("schedule batch rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkPublished promotes the DRAFT batches among ids and returns how many changed.
func (r *ScheduleBatchRepository) MarkPublished(ctx context.Context, exec sqlx.ExtContext, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE schedule_batches SET status = $1, published_at = $2, updated_at = $2 WHERE id = ANY($3) AND status = $4`
	result, err := r.exec(exec).ExecContext(ctx, query, models.ScheduleBatchStatusPublished, at, pq.Array(ids), models.ScheduleBatchStatusDraft)
	if err != nil {
		return 0, fmt.Errorf("publish schedule batches: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("published batch rows affected: %w", err)
	}
	return affected, nil
}
