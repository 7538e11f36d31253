package utils

import (
	"fmt"
	"os"
	"time"
)

// Timestamp layout for the run log: Year-Monthname-Day-Hour:Minute:Second.
const progressStampLayout = "2006-Jan-02-15:04:05"

// ProgressLogger records pipeline milestones. The driver depends on this
// interface so the run log can be bound to a file, or to nothing in tests.
type ProgressLogger interface {
	Record(message string) error
}

// ProgressLog appends milestone lines to a log file, one per call, in the
// form "<timestamp> : <message>". The file is created if absent and never
// rotated or truncated; it accumulates across runs.
type ProgressLog struct {
	path string
}

// NewProgressLog returns a ProgressLog appending to the given path.
func NewProgressLog(path string) *ProgressLog {
	return &ProgressLog{path: path}
}

// Record appends one timestamped line using the local clock.
func (p *ProgressLog) Record(message string) error {
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("log: open %q: %w", p.path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s : %s\n", time.Now().Format(progressStampLayout), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("log: write %q: %w", p.path, err)
	}
	return nil
}

// NopProgressLog discards milestones.
type NopProgressLog struct{}

func (NopProgressLog) Record(string) error { return nil }
