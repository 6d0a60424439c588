package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 297.0
	pageMargin  = 10.0
	headerRow   = 8.0
	bodyRow     = 6.5
	bodyFont    = 8.0
	titleFont   = 14.0
	tableHeight = 210.0 - 2*pageMargin - 10
)

// PDFExporter renders datasets into a landscape tabular PDF with repeated headers.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document from the dataset.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	widths := columnWidths(data, pageWidth-2*pageMargin)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Arial", "B", bodyFont+1)
		pdf.SetFillColor(220, 226, 235)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], headerRow, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", bodyFont)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", titleFont)
		pdf.CellFormat(0, 8, tr(data.Title), "", 1, "L", false, 0, "")
	}
	if data.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(data.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	header()

	pdf.SetFillColor(245, 247, 250)
	for n, row := range data.Rows {
		if pdf.GetY()+bodyRow > pageMargin+tableHeight {
			pdf.AddPage()
			header()
			pdf.SetFillColor(245, 247, 250)
		}
		fill := n%2 == 1
		for i, value := range data.record(row) {
			pdf.CellFormat(widths[i], bodyRow, tr(value), "1", 0, "", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(data Dataset, total float64) []float64 {
	widths := make([]float64, len(data.Headers))
	if len(data.Widths) == 0 {
		for i := range widths {
			widths[i] = total / float64(len(widths))
		}
		return widths
	}
	var sum float64
	for _, w := range data.Widths {
		if w > 0 {
			sum += w
		}
	}
	for i, w := range data.Widths {
		if sum == 0 || w <= 0 {
			widths[i] = total / float64(len(widths))
			continue
		}
		widths[i] = total * w / sum
	}
	return widths
}
