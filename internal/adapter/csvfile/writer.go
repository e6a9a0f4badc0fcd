// Package csvfile writes extraction rows to the delimited output table.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

// monthColumnPrefix labels the per-month columns, e.g. "YM-2021-06".
const monthColumnPrefix = "YM-"

// OutputPath names the output file after the variable and the run date,
// e.g. "output/temperature_2026-08-31.csv".
func OutputPath(outputDir string, variable domain.VariableKind) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", variable, domain.RunDate()))
}

// Writer emits one CSV row per point. It implements pipeline.RowSink.
// Column order is fixed by the band calendar, so repeated runs over the
// same inputs produce byte-identical files.
type Writer struct {
	file      *os.File
	csv       *csv.Writer
	expected  int // series length promised by Begin
	idField   string
	nameField string
	dateField string
}

// NewWriter creates (or truncates) the output file. The three field names
// become the first header columns, mirroring the attribute columns of the
// input layer.
func NewWriter(path, idField, nameField, dateField string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Writer{
		file:      f,
		csv:       csv.NewWriter(f),
		idField:   idField,
		nameField: nameField,
		dateField: dateField,
	}, nil
}

// Begin writes the header row: attribute columns, raster cell indices, one
// column per month, and the matched-value column.
func (w *Writer) Begin(months []domain.MonthKey) error {
	w.expected = len(months)

	header := make([]string, 0, len(months)+6)
	header = append(header, w.idField, w.nameField, w.dateField, "RASTER_ROW", "RASTER_COL")
	for _, m := range months {
		header = append(header, monthColumnPrefix+m.String())
	}
	header = append(header, "MATCH_VALUE")

	if err := w.csv.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WriteRow appends one point's record. Invalid samples become empty cells.
func (w *Writer) WriteRow(_ context.Context, row domain.OutputRow) error {
	if len(row.Series) != w.expected {
		return fmt.Errorf("row for point %q has %d series values, want %d", row.ID, len(row.Series), w.expected)
	}

	record := make([]string, 0, w.expected+6)
	record = append(record, row.ID, row.Name, row.RawDate,
		strconv.Itoa(row.Row), strconv.Itoa(row.Col))
	for _, s := range row.Series {
		record = append(record, formatSample(s))
	}
	record = append(record, formatSample(row.Matched))

	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	return w.file.Close()
}

// formatSample renders a converted value rounded to 4 decimal places, or an
// empty cell for null.
func formatSample(s domain.Sample) string {
	if !s.Valid {
		return ""
	}
	rounded := math.Round(s.Value*10000) / 10000
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
