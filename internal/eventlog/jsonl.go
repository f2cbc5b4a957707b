// Package eventlog provides durable sinks for simulation events: an
// append-only JSONL file per run and a SQLite archive for post-hoc queries.
// Sinks are fire-and-forget — a failing sink never fails the simulation.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fellrun/internal/sim"
)

// record is one JSONL line: the event plus run tagging.
type record struct {
	Run   string `json:"run"`
	Stamp string `json:"stamp"`
	sim.Event
}

// FileSink appends one JSON object per line to logs/run-<id>.jsonl. Write
// errors after a successful open are remembered and reported by Close, never
// surfaced mid-run.
type FileSink struct {
	f     *os.File
	enc   *json.Encoder
	runID string
	stamp string
	err   error
}

// NewFileSink creates the log directory if needed and opens a fresh run file
// named by a new run UUID.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	id := uuid.NewString()
	path := filepath.Join(dir, "run-"+id+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640) // #nosec G304 -- path built from a fresh UUID
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &FileSink{
		f:     f,
		enc:   json.NewEncoder(f),
		runID: id,
		stamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// RunID returns the UUID tagging this run's log lines.
func (s *FileSink) RunID() string {
	return s.runID
}

// Path returns the log file path.
func (s *FileSink) Path() string {
	return s.f.Name()
}

// Record appends the event as one JSON line. Errors are swallowed here and
// reported by Close.
func (s *FileSink) Record(ev sim.Event) {
	if s.err != nil {
		return
	}
	if err := s.enc.Encode(record{Run: s.runID, Stamp: s.stamp, Event: ev}); err != nil {
		s.err = err
	}
}

// Close flushes and closes the file, returning the first write error seen.
func (s *FileSink) Close() error {
	closeErr := s.f.Close()
	if s.err != nil {
		return s.err
	}
	return closeErr
}
