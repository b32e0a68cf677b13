// Package recording persists per-frame measurements as CSV for downstream
// plotting and analysis tools.
package recording

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"lapmeter/types"
)

// Recorder appends measurements to a CSV file, one row per frame.
type Recorder struct {
	file   *os.File
	writer *csv.Writer
}

// New creates the output file and writes the header row.
func New(path string) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recording: creating %q: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"frame", "seconds", "position"}); err != nil {
		file.Close()
		return nil, fmt.Errorf("recording: writing header: %w", err)
	}

	return &Recorder{file: file, writer: writer}, nil
}

// Write appends one measurement row.
func (r *Recorder) Write(m types.Measurement) error {
	row := []string{
		strconv.Itoa(m.Frame),
		strconv.FormatFloat(m.Seconds, 'f', 3, 64),
		strconv.FormatFloat(m.Position, 'f', 2, 64),
	}
	if err := r.writer.Write(row); err != nil {
		return fmt.Errorf("recording: writing row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (r *Recorder) Close() error {
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		r.file.Close()
		return fmt.Errorf("recording: flushing: %w", err)
	}
	return r.file.Close()
}
