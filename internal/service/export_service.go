package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/pkg/calendar"
	appErrors "github.com/noah-isme/sparx-api/pkg/errors"
	"github.com/noah-isme/sparx-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportHeaders = []string{"Week", "Date", "Day", "Time", "Subject", "Type", "Teacher", "Room", "Group"}

var exportWidths = []float64{1, 2, 2, 2.2, 4, 1.6, 3.2, 2, 2}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type batchDetailReader interface {
	GetBatch(ctx context.Context, id string) (*dto.ScheduleBatchDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders a schedule batch as CSV, PDF or XLSX.
type ExportService struct {
	batches  batchDetailReader
	calendar *calendar.Calendar
	csv      csvRenderer
	pdf      pdfRenderer
	xlsx     xlsxRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(batches batchDetailReader, cal *calendar.Calendar, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cal == nil {
		cal = calendar.New(nil)
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{batches: batches, calendar: cal, csv: csv, pdf: pdf, xlsx: xlsx, logger: logger}
}

// ParseExportFormat normalises a format query value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	case ExportFormatXLSX:
		return ExportFormatXLSX, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// ExportBatch renders every entry of a batch in week, day and slot order.
func (s *ExportService) ExportBatch(ctx context.Context, batchID string, format ExportFormat) (*ExportFile, error) {
	detail, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	dataset := s.dataset(detail)
	base := fmt.Sprintf("schedule-%s-%s", strings.ToLower(string(detail.Batch.Semester)), slug(detail.Batch.GroupName, detail.Batch.GroupID))

	var file ExportFile
	switch format {
	case ExportFormatPDF:
		file.Data, err = s.pdf.Render(dataset)
		file.Filename = base + ".pdf"
		file.ContentType = "application/pdf"
	case ExportFormatXLSX:
		file.Data, err = s.xlsx.Render(dataset)
		file.Filename = base + ".xlsx"
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		file.Data, err = s.csv.Render(dataset)
		file.Filename = base + ".csv"
		file.ContentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("schedule exported",
		zap.String("batch_id", batchID),
		zap.String("format", string(format)),
		zap.Int("entries", len(detail.Entries)),
	)
	return &file, nil
}

func (s *ExportService) dataset(detail *dto.ScheduleBatchDetail) export.Dataset {
	batch := detail.Batch
	rows := make([]map[string]string, 0, len(detail.Entries))
	for _, e := range detail.Entries {
		date, clock := "", calendar.SlotLabel(e.TimeSlot)
		if start, end, err := s.calendar.Session(string(e.Semester), e.WeekNumber, e.DayOfWeek, e.TimeSlot); err == nil {
			date = start.Format("2006-01-02")
			clock = start.Format("15:04") + "-" + end.Format("15:04")
		} else if d, err := s.calendar.Date(string(e.Semester), e.WeekNumber, e.DayOfWeek); err == nil {
			date = d.Format("2006-01-02")
		}
		rows = append(rows, map[string]string{
			"Week":    strconv.Itoa(e.WeekNumber),
			"Date":    date,
			"Day":     calendar.DayName(e.DayOfWeek),
			"Time":    clock,
			"Subject": e.SubjectName,
			"Type":    string(e.SubjectType),
			"Teacher": e.TeacherName,
			"Room":    e.RoomName,
			"Group":   e.GroupName,
		})
	}
	return export.Dataset{
		Title:    fmt.Sprintf("Timetable %s", batch.GroupName),
		Subtitle: fmt.Sprintf("%s semester, %s, preference score %.1f%%", batch.Semester, batch.Status, batch.PreferenceScore),
		Headers:  exportHeaders,
		Rows:     rows,
		Widths:   exportWidths,
	}
}

func slug(name, fallback string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return fallback
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

var _ batchDetailReader = (*ScheduleService)(nil)
