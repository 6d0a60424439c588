package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/pkg/calendar"
	appErrors "github.com/noah-isme/sparx-api/pkg/errors"
	"github.com/noah-isme/sparx-api/pkg/export"
)

type batchDetailStub struct {
	detail *dto.ScheduleBatchDetail
	err    error
}

func (s batchDetailStub) GetBatch(ctx context.Context, id string) (*dto.ScheduleBatchDetail, error) {
	return s.detail, s.err
}

type renderRecorder struct {
	got  export.Dataset
	data []byte
	err  error
}

func (r *renderRecorder) Render(data export.Dataset) ([]byte, error) {
	r.got = data
	return r.data, r.err
}

func exportFixture() *dto.ScheduleBatchDetail {
	return &dto.ScheduleBatchDetail{
		Batch: models.ScheduleBatch{ID: "b-1", Semester: models.SemesterWinter, GroupID: "g-1", GroupName: "CS 1A", Status: models.ScheduleBatchStatusDraft},
		Entries: []models.ScheduleEntryDetail{{
			ScheduleEntry: models.ScheduleEntry{Semester: models.SemesterWinter, WeekNumber: 2, DayOfWeek: 1, TimeSlot: 3},
			SubjectName:   "Algebra",
			SubjectType:   models.SubjectTypeLecture,
			TeacherName:   "Dr Nowak",
			RoomName:      "A1",
			GroupName:     "CS 1A",
		}},
	}
}

func TestExportServiceCSV(t *testing.T) {
	cal := calendar.New(map[string]time.Time{"WINTER": time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)})
	svc := NewExportService(batchDetailStub{detail: exportFixture()}, cal, nil, nil, nil, nil)

	file, err := svc.ExportBatch(context.Background(), "b-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "schedule-winter-cs-1a.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Data, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, []string{"2", "2025-10-14", "Tuesday", "11:30-13:00", "Algebra", "LECTURE", "Dr Nowak", "A1", "CS 1A"}, records[1])
}

func TestExportServicePDFWithoutCalendar(t *testing.T) {
	svc := NewExportService(batchDetailStub{detail: exportFixture()}, nil, nil, nil, nil, nil)

	file, err := svc.ExportBatch(context.Background(), "b-1", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceXLSX(t *testing.T) {
	svc := NewExportService(batchDetailStub{detail: exportFixture()}, nil, nil, nil, nil, nil)

	file, err := svc.ExportBatch(context.Background(), "b-1", ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "schedule-winter-cs-1a.xlsx", file.Filename)
	// XLSX is a zip container.
	assert.True(t, bytes.HasPrefix(file.Data, []byte("PK")))
}

func TestExportServiceUsesInjectedXLSXRenderer(t *testing.T) {
	cal := calendar.New(map[string]time.Time{"WINTER": time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)})
	xlsx := &renderRecorder{data: []byte("sheet")}
	svc := NewExportService(batchDetailStub{detail: exportFixture()}, cal, nil, nil, nil, xlsx)

	file, err := svc.ExportBatch(context.Background(), "b-1", ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []byte("sheet"), file.Data)
	require.Len(t, xlsx.got.Rows, 1)
	assert.Equal(t, "2025-10-14", xlsx.got.Rows[0]["Date"])
	assert.Equal(t, "11:30-13:00", xlsx.got.Rows[0]["Time"])

	xlsx.err = errors.New("disk full")
	_, err = svc.ExportBatch(context.Background(), "b-1", ExportFormatXLSX)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestExportServiceRowsWithoutSemesterStart(t *testing.T) {
	pdf := &renderRecorder{data: []byte("%PDF")}
	svc := NewExportService(batchDetailStub{detail: exportFixture()}, nil, nil, nil, pdf, nil)

	_, err := svc.ExportBatch(context.Background(), "b-1", ExportFormatPDF)
	require.NoError(t, err)
	require.Len(t, pdf.got.Rows, 1)
	assert.Empty(t, pdf.got.Rows[0]["Date"])
	assert.Equal(t, "11:30-13:00", pdf.got.Rows[0]["Time"])
}

func TestExportServicePropagatesNotFound(t *testing.T) {
	svc := NewExportService(batchDetailStub{err: appErrors.Clone(appErrors.ErrNotFound, "schedule batch not found")}, nil, nil, nil, nil, nil)

	_, err := svc.ExportBatch(context.Background(), "missing", ExportFormatCSV)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestParseExportFormat(t *testing.T) {
	f, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatCSV, f)

	f, err = ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatPDF, f)

	f, err = ParseExportFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, ExportFormatXLSX, f)

	_, err = ParseExportFormat("ods")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
