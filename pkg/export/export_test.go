package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Timetable G1",
		Headers: []string{"Week", "Subject", "Room"},
		Rows: []map[string]string{
			{"Week": "1", "Subject": "Algebra", "Room": "A1"},
			{"Week": "2", "Subject": "Physics, lab", "Room": "L2"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("\ufeff")))
	body := strings.TrimPrefix(string(out), "\ufeff")
	assert.Equal(t, "Week,Subject,Room\n1,Algebra,A1\n2,\"Physics, lab\",L2\n", body)
}

func TestCSVExporterSeparator(t *testing.T) {
	out, err := (&CSVExporter{Comma: ';'}).Render(sampleDataset())
	require.NoError(t, err)
	assert.Contains(t, string(out), "2;Physics, lab;L2")
}

func TestExportersRejectInvalidDataset(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	ds := sampleDataset()
	ds.Widths = []float64{1}
	_, err = NewPDFExporter().Render(ds)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	ds := sampleDataset()
	for i := 0; i < 80; i++ {
		ds.Rows = append(ds.Rows, map[string]string{"Week": "3", "Subject": "Zażółć", "Room": "B"})
	}
	out, err := NewPDFExporter().Render(ds)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	cell := func(ref string) string {
		v, err := f.GetCellValue("Timetable", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Timetable G1", cell("A1"))
	assert.Equal(t, "Week", cell("A3"))
	assert.Equal(t, "Room", cell("C3"))
	assert.Equal(t, "Physics, lab", cell("B5"))

	_, err = NewXLSXExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestColumnWidths(t *testing.T) {
	ds := Dataset{Headers: []string{"a", "b"}, Widths: []float64{1, 3}}
	assert.Equal(t, []float64{25, 75}, columnWidths(ds, 100))

	ds.Widths = nil
	assert.Equal(t, []float64{50, 50}, columnWidths(ds, 100))
}
