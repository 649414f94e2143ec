// Package store provides SQLite-based persistence for the event catalog.
//
// Array-valued fields (characters, related event ids) and the
// polymorphic source citation are serialized to JSON text columns; the
// era label and scalar fields are stored as-is.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"loreline/internal/timeline"
)

// Schema for the event catalog. Created idempotently on Open.
const schema = `
CREATE TABLE IF NOT EXISTS events (
    id                  TEXT PRIMARY KEY,
    title               TEXT NOT NULL,
    era                 TEXT NOT NULL,
    year                INTEGER,
    characters          TEXT NOT NULL,
    location            TEXT NOT NULL,
    summary             TEXT NOT NULL,
    related_event_ids   TEXT NOT NULL,
    source              TEXT NOT NULL
);
`

// Store is the SQLite event store. It is the sole owner of durable
// state; construct one at startup and pass it to the API server and
// importer.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and
// applies the schema.
func Open(path string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Upsert inserts or replaces the row matching e.ID. Re-inserting the
// same id is replace semantics, not an error.
func (s *Store) Upsert(e *timeline.Event) error {
	characters, relatedIDs, source, err := encodeTextColumns(e)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO events (id, title, era, year, characters, location, summary, related_event_ids, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, string(e.Era), nullableYear(e.Year), characters, e.Location, e.Summary, relatedIDs, source,
	)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}

	return nil
}

// ImportBatch writes all events in a single transaction. Failure
// anywhere rolls the whole batch back; duplicate ids within the batch
// resolve to the last occurrence. Returns the number of records
// processed.
func (s *Store) ImportBatch(events []timeline.Event) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO events (id, title, era, year, characters, location, summary, related_event_ids, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range events {
		e := &events[i]
		characters, relatedIDs, source, err := encodeTextColumns(e)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.Exec(e.ID, e.Title, string(e.Era), nullableYear(e.Year), characters, e.Location, e.Summary, relatedIDs, source); err != nil {
			return 0, fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return len(events), nil
}

// GetByID retrieves a decoded event by id, or nil if absent.
func (s *Store) GetByID(id string) (*timeline.Event, error) {
	row := s.db.QueryRow(`
		SELECT id, title, era, year, characters, location, summary, related_event_ids, source
		FROM events WHERE id = ?`, id,
	)

	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return e, nil
}

// GetAll retrieves every event, decoded. Row order is storage order and
// not guaranteed stable.
//
// Corrupt rows do not take the whole listing down: they are skipped,
// and their *CorruptRecordError values are joined into the returned
// error alongside the successfully decoded events. Any other failure
// aborts the listing.
func (s *Store) GetAll() ([]timeline.Event, error) {
	rows, err := s.db.Query(`
		SELECT id, title, era, year, characters, location, summary, related_event_ids, source
		FROM events`,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []timeline.Event
	var corrupt []error
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			var record *CorruptRecordError
			if errors.As(err, &record) {
				corrupt = append(corrupt, err)
				continue
			}
			return nil, err
		}
		events = append(events, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, errors.Join(corrupt...)
}

// Count returns the number of stored events.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// scanEvent scans one row and decodes the JSON text columns. A column
// that fails to parse surfaces as a *CorruptRecordError rather than a
// partial event.
func scanEvent(scan func(...any) error) (*timeline.Event, error) {
	var e timeline.Event
	var year sql.NullInt64
	var characters, relatedIDs, source string

	if err := scan(&e.ID, &e.Title, (*string)(&e.Era), &year, &characters, &e.Location, &e.Summary, &relatedIDs, &source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	if year.Valid {
		y := int(year.Int64)
		e.Year = &y
	}

	if err := json.Unmarshal([]byte(characters), &e.Characters); err != nil {
		return nil, &CorruptRecordError{ID: e.ID, Column: "characters", Err: err}
	}
	if err := json.Unmarshal([]byte(relatedIDs), &e.RelatedEventIDs); err != nil {
		return nil, &CorruptRecordError{ID: e.ID, Column: "related_event_ids", Err: err}
	}
	if err := json.Unmarshal([]byte(source), &e.Source); err != nil {
		return nil, &CorruptRecordError{ID: e.ID, Column: "source", Err: err}
	}

	// Empty sequences round-trip as empty arrays, never null.
	if e.Characters == nil {
		e.Characters = []string{}
	}
	if e.RelatedEventIDs == nil {
		e.RelatedEventIDs = []string{}
	}

	return &e, nil
}

// encodeTextColumns serializes the array-valued fields for persistence.
// Empty sequences encode to "[]", not null.
func encodeTextColumns(e *timeline.Event) (characters, relatedIDs, source string, err error) {
	cs, err := json.Marshal(nonNil(e.Characters))
	if err != nil {
		return "", "", "", fmt.Errorf("marshal characters: %w", err)
	}
	rs, err := json.Marshal(nonNil(e.RelatedEventIDs))
	if err != nil {
		return "", "", "", fmt.Errorf("marshal related event ids: %w", err)
	}
	src, err := json.Marshal(e.Source)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal source: %w", err)
	}
	return string(cs), string(rs), string(src), nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func nullableYear(y *int) any {
	if y == nil {
		return nil
	}
	return *y
}
