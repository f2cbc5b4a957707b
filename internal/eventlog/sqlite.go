package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"fellrun/internal/sim"
)

// Store archives completed runs in a SQLite database: one row per run plus
// the full ordered event list. The simulation never reads this back; it
// exists for offline analysis of journey balance.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a Store for the given database path. Open is deferred
// until Init.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database and creates the schema. Idempotent.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id       TEXT PRIMARY KEY,
			outcome  TEXT NOT NULL,
			escaped  INTEGER NOT NULL,
			captured INTEGER NOT NULL,
			ticks    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS events (
			run_id  TEXT NOT NULL REFERENCES runs(id),
			seq     INTEGER NOT NULL,
			kind    TEXT NOT NULL,
			tick    INTEGER NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`)
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("store not initialised")
	}
	return s.db, nil
}

// SaveRun archives one finished run. The event list may be nil when the run
// was executed without a collector.
func (s *Store) SaveRun(ctx context.Context, runID string, res sim.Result) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, outcome, escaped, captured, ticks)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			outcome  = excluded.outcome,
			escaped  = excluded.escaped,
			captured = excluded.captured,
			ticks    = excluded.ticks
	`, runID, res.Outcome.String(), res.Escaped, res.Captured, res.Ticks)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE run_id = ?`, runID); err != nil {
		return err
	}
	for i, ev := range res.Events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encode event %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (run_id, seq, kind, tick, payload)
			VALUES (?, ?, ?, ?, ?)
		`, runID, i, string(ev.Kind), ev.CumTick, string(payload))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RunCount returns how many runs the archive holds.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// OutcomeCounts returns the number of archived runs per outcome tag.
func (s *Store) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM runs GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := map[string]int{}
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, err
		}
		out[tag] = n
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
