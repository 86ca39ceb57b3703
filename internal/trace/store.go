package trace

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	run_id  TEXT NOT NULL,
	seq     INTEGER NOT NULL,
	kind    TEXT NOT NULL,
	subject TEXT NOT NULL,
	detail  TEXT NOT NULL,
	at      INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

// Run is one traced completion run.
type Run struct {
	ID        string
	Label     string
	StartedAt time.Time
}

// Store persists completion events in a sqlite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex

	runID   string
	seq     int
	lastErr error
}

// OpenStore opens (creating if needed) the trace database at path.
// ":memory:" gives a private in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database %s: %w", path, err)
	}
	// one connection: an in-memory database lives on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trace schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Begin starts a new run; later events are recorded under its id.
func (s *Store) Begin(label string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked(label)
}

func (s *Store) beginLocked(label string) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec(`INSERT INTO runs (run_id, label, started_at) VALUES (?, ?, ?)`, id, label, time.Now().UnixNano()); err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	s.runID = id
	s.seq = 0
	return id, nil
}

// Record stores e under the current run, starting an unnamed run if needed.
// Failures are kept and reported by Err.
func (s *Store) Record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID == "" {
		if _, err := s.beginLocked(""); err != nil {
			s.lastErr = err
			return
		}
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	s.seq++
	if _, err := s.db.Exec(
		`INSERT INTO events (run_id, seq, kind, subject, detail, at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, s.seq, string(e.Kind), e.Subject, e.Detail, at.UnixNano(),
	); err != nil {
		s.lastErr = fmt.Errorf("failed to record event: %w", err)
	}
}

// Err returns the last recording failure.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Runs lists runs in start order.
func (s *Store) Runs() ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT run_id, label, started_at FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		if err := rows.Scan(&r.ID, &r.Label, &started); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Events returns the events of a run in recording order.
func (s *Store) Events(runID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT kind, subject, detail, at FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		var at int64
		if err := rows.Scan(&kind, &e.Subject, &e.Detail, &at); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		e.At = time.Unix(0, at)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
