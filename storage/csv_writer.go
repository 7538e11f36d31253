package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"marketcap-etl/models"
)

var csvHeader = []string{"", "Name", "MC_USD_Billion", "MC_GBP_Billion", "MC_EUR_Billion", "MC_INR_Billion"}

// CSVWriter writes the converted dataset to a CSV file with a leading
// row-index column.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one line per record, in dataset order, with the 0-based row
// index in the first column. Floats use the shortest round-trip rendering,
// so writing the same dataset twice produces byte-identical files.
func (c *CSVWriter) Write(converted []models.ConvertedBank) error {
	for i, b := range converted {
		row := []string{
			strconv.Itoa(i),
			b.Name,
			formatFloat(b.USD),
			formatFloat(b.GBP),
			formatFloat(b.EUR),
			formatFloat(b.INR),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i, err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
