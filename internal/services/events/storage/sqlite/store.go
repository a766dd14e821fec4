// Package sqlite provides a SQLite-backed event storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/eventdesk/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
	"github.com/louisbranch/eventdesk/internal/services/events/storage"
	"github.com/louisbranch/eventdesk/internal/services/events/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists events in SQLite. Rowid order preserves insertion order,
// which the listing snapshot relies on for stable tie-breaking.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite event store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateEvent inserts one event record.
func (s *Store) CreateEvent(ctx context.Context, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(ev.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (
		   id, title, start_at, end_at, location, status,
		   internal_notes, created_by, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.Title,
		toMillis(ev.StartAt),
		toMillis(ev.EndAt),
		ev.Location,
		string(ev.Status),
		ev.InternalNotes,
		ev.CreatedBy,
		toMillis(ev.UpdatedAt),
	)
	if err != nil {
		if isEventUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateEvent replaces the stored record for an existing id.
func (s *Store) UpdateEvent(ctx context.Context, ev event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(ev.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE events
		    SET title = ?, start_at = ?, end_at = ?, location = ?,
		        status = ?, internal_notes = ?, created_by = ?, updated_at = ?
		  WHERE id = ?`,
		ev.Title,
		toMillis(ev.StartAt),
		toMillis(ev.EndAt),
		ev.Location,
		string(ev.Status),
		ev.InternalNotes,
		ev.CreatedBy,
		toMillis(ev.UpdatedAt),
		ev.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetEvent returns one event by id.
func (s *Store) GetEvent(ctx context.Context, id string) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return event.Event{}, fmt.Errorf("event id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, title, start_at, end_at, location, status,
		        internal_notes, created_by, updated_at
		   FROM events
		  WHERE id = ?`,
		id,
	)
	ev, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// ListEvents returns all events in insertion order.
func (s *Store) ListEvents(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, title, start_at, end_at, location, status,
		        internal_notes, created_by, updated_at
		   FROM events
		  ORDER BY rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var count int
	row := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func scanEvent(scan func(dest ...any) error) (event.Event, error) {
	var ev event.Event
	var status string
	var startAt, endAt, updatedAt int64
	if err := scan(
		&ev.ID,
		&ev.Title,
		&startAt,
		&endAt,
		&ev.Location,
		&status,
		&ev.InternalNotes,
		&ev.CreatedBy,
		&updatedAt,
	); err != nil {
		return event.Event{}, err
	}
	ev.Status = event.Status(status)
	ev.StartAt = fromMillis(startAt)
	ev.EndAt = fromMillis(endAt)
	ev.UpdatedAt = fromMillis(updatedAt)
	return ev, nil
}

func isEventUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "events.id")
}

var _ storage.EventStore = (*Store)(nil)
