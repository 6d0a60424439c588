package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sparx-api/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var batchColumns = []string{"id", "semester", "group_id", "group_name", "status", "preference_score", "teacher_gaps", "student_gaps", "entries_count", "created_at", "updated_at", "published_at"}

func TestScheduleBatchRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_batches")).
		WithArgs(sqlmock.AnyArg(), "WINTER", "g1", string(models.ScheduleBatchStatusDraft), 87.5, 2, 3, sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	batch := &models.ScheduleBatch{Semester: models.SemesterWinter, GroupID: "g1", PreferenceScore: 87.5, TeacherGaps: 2, StudentGaps: 3}
	require.NoError(t, repo.Create(context.Background(), nil, batch))
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, models.ScheduleBatchStatusDraft, batch.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBatchRepositoryCreateRequiresGroup(t *testing.T) {
	db, _, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	assert.Error(t, repo.Create(context.Background(), nil, &models.ScheduleBatch{Semester: models.SemesterWinter}))
	assert.Error(t, repo.Create(context.Background(), nil, nil))
}

func TestScheduleBatchRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_batches b LEFT JOIN student_groups g ON g.id = b.group_id WHERE b.id = $1")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(batchColumns).AddRow("b1", "WINTER", "g1", "Group 1", "DRAFT", 50.0, 1, 2, 40, now, now, nil))

	batch, err := repo.FindByID(context.Background(), nil, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Group 1", batch.GroupName)
	assert.Equal(t, 40, batch.EntriesCount)
	assert.True(t, batch.IsDraft())
	assert.Nil(t, batch.PublishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBatchRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), nil, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScheduleBatchRepositoryListByIDs(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ANY($1) AND b.status = $2 ORDER BY b.created_at ASC")).
		WithArgs(sqlmock.AnyArg(), string(models.ScheduleBatchStatusDraft)).
		WillReturnRows(sqlmock.NewRows(batchColumns).
			AddRow("b1", "WINTER", "g1", "Group 1", "DRAFT", 0.0, 0, 0, 0, now, now, nil).
			AddRow("b2", "WINTER", "g2", "Group 2", "DRAFT", 0.0, 0, 0, 0, now, now, nil))

	batches, err := repo.ListByIDs(context.Background(), nil, []string{"b1", "b2", "b3"}, models.ScheduleBatchStatusDraft)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
	assert.NoError(t, mock.ExpectationsWereMet())

	none, err := repo.ListByIDs(context.Background(), nil, nil, models.ScheduleBatchStatusDraft)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestScheduleBatchRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.semester = $1 AND b.status = $2 AND b.group_id = $3 ORDER BY b.created_at DESC")).
		WithArgs("SUMMER", "PUBLISHED", "g1").
		WillReturnRows(sqlmock.NewRows(batchColumns))

	_, err := repo.List(context.Background(), models.ScheduleBatchFilter{Semester: models.SemesterSummer, Status: models.ScheduleBatchStatusPublished, GroupID: "g1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBatchRepositoryDeleteDrafts(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_batches WHERE group_id = $1 AND semester = $2 AND status = $3")).
		WithArgs("g1", "WINTER", "DRAFT").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeleteDrafts(context.Background(), nil, "g1", models.SemesterWinter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBatchRepositoryDeleteOnlyDrafts(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_batches WHERE id = $1 AND status = $2")).
		WithArgs("b1", "DRAFT").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), nil, "b1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBatchRepositoryMarkPublished(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	at := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_batches SET status = $1, published_at = $2, updated_at = $2 WHERE id = ANY($3) AND status = $4")).
		WithArgs("PUBLISHED", at, sqlmock.AnyArg(), "DRAFT").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.MarkPublished(context.Background(), nil, []string{"b1", "b2"}, at)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBatchRepositoryLockSemester(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("schedule:WINTER").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockSemester(context.Background(), nil, models.SemesterWinter))
	assert.NoError(t, mock.ExpectationsWereMet())
}
