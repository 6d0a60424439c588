package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders a Dataset into a single-sheet workbook.
type XLSXExporter struct {
	// SheetName names the worksheet. Defaults to "Timetable".
	SheetName string
}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{SheetName: "Timetable"}
}

// Render writes the title (when set) on the first row, then headers and rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := e.SheetName
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	row := 1
	if data.Title != "" {
		if err := f.SetCellValue(sheet, "A1", data.Title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		row = 2
		if data.Subtitle != "" {
			if err := f.SetCellValue(sheet, "A2", data.Subtitle); err != nil {
				return nil, fmt.Errorf("write subtitle: %w", err)
			}
			row = 3
		}
		row++
	}

	headerCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	headers := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, headerCell, &headers); err != nil {
		return nil, fmt.Errorf("write xlsx headers: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(data.Headers), row)
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, headerCell, lastHeader, bold); err != nil {
		return nil, fmt.Errorf("style headers: %w", err)
	}

	for _, r := range data.Rows {
		row++
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		record := data.record(r)
		values := make([]interface{}, len(record))
		for i, v := range record {
			values[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write xlsx row: %w", err)
		}
	}

	for i, w := range data.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w*6); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
