package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sparx-api/internal/models"
)

// insertChunkSize keeps multi-row inserts well below the Postgres parameter limit.
const insertChunkSize = 500

const entryDetailSelect = `SELECT e.id, e.batch_id, e.semester, e.week_number, e.day_of_week, e.time_slot,
e.room_id, e.teacher_subject_id, e.subject_id, e.group_id, e.created_at,
ts.teacher_id, COALESCE(t.name, '') AS teacher_name, COALESCE(s.name, '') AS subject_name,
COALESCE(s.type, '') AS subject_type, COALESCE(r.name, '') AS room_name, COALESCE(r.type, '') AS room_type,
COALESCE(g.name, '') AS group_name, b.status AS batch_status
FROM schedule_entries e
JOIN schedule_batches b ON b.id = e.batch_id
JOIN teacher_subjects ts ON ts.id = e.teacher_subject_id
LEFT JOIN teachers t ON t.id = ts.teacher_id
LEFT JOIN subjects s ON s.id = e.subject_id
LEFT JOIN rooms r ON r.id = e.room_id
LEFT JOIN student_groups g ON g.id = e.group_id`

const entryOrder = ` ORDER BY e.week_number ASC, e.day_of_week ASC, e.time_slot ASC`

// ScheduleEntryRepository manages placed session blocks.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository builds repository.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

func (r *ScheduleEntryRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch stores entries in multi-row inserts, assigning ids where missing.
func (r *ScheduleEntryRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
	}

	const query = `
INSERT INTO schedule_entries (id, batch_id, semester, week_number, day_of_week, time_slot, room_id, teacher_subject_id, subject_id, group_id, created_at)
VALUES (:id, :batch_id, :semester, :week_number, :day_of_week, :time_slot, :room_id, :teacher_subject_id, :subject_id, :group_id, :created_at)`

	for start := 0; start < len(entries); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(entries) {
			end = len(entries)
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entries[start:end]); err != nil {
			return fmt.Errorf("insert schedule entries: %w", err)
		}
	}
	return nil
}

// ListByBatch returns the entries of one batch ordered by week, day and slot.
func (r *ScheduleEntryRepository) ListByBatch(ctx context.Context, exec sqlx.ExtContext, batchID string) ([]models.ScheduleEntryDetail, error) {
	query := entryDetailSelect + ` WHERE e.batch_id = $1` + entryOrder
	var entries []models.ScheduleEntryDetail
	if err := sqlx.SelectContext(ctx, r.exec(exec), &entries, query, batchID); err != nil {
		return nil, fmt.Errorf("list schedule entries by batch: %w", err)
	}
	return entries, nil
}

// ListOccupancy returns the slots already committed in the semester: every PUBLISHED
// batch plus the DRAFT batches of groups other than excludeGroupID.
func (r *ScheduleEntryRepository) ListOccupancy(ctx context.Context, exec sqlx.ExtContext, semester models.Semester, excludeGroupID string) ([]models.OccupiedSlot, error) {
	const query = `SELECT e.week_number, e.day_of_week, e.time_slot, e.room_id, ts.teacher_id, e.group_id
FROM schedule_entries e
JOIN schedule_batches b ON b.id = e.batch_id
JOIN teacher_subjects ts ON ts.id = e.teacher_subject_id
WHERE b.semester = $1 AND (b.status = $2 OR (b.status = $3 AND b.group_id <> $4))`
	var slots []models.OccupiedSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query,
		semester, models.ScheduleBatchStatusPublished, models.ScheduleBatchStatusDraft, excludeGroupID); err != nil {
		return nil, fmt.Errorf("list schedule occupancy: %w", err)
	}
	return slots, nil
}

// List returns entries matching the filter ordered by week, day and slot.
func (r *ScheduleEntryRepository) List(ctx context.Context, filter models.ScheduleEntryFilter) ([]models.ScheduleEntryDetail, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("e.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.GroupID != "" {
		conditions = append(conditions, fmt.Sprintf("e.group_id = $%d", len(args)+1))
		args = append(args, filter.GroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("ts.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("e.batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}

	query := entryDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += entryOrder

	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}
