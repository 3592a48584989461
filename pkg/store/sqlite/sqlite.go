// Package sqlite provides the on-device stores: the message inbox consumed
// by sync passes, the settings table holding the sync watermark, and the
// sync log.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/adikhanna/smsledger/pkg/api"
	"github.com/adikhanna/smsledger/pkg/orchestrator"
)

//go:embed schema.sql
var schema string

// WatermarkKey is the settings key under which the last-sync watermark is
// persisted.
const WatermarkKey = "last_sms_sync"

// DB wraps the sqlite database holding messages, settings, and the sync log.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and ensures the
// schema exists.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("executing schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// FetchMessages returns all messages with a timestamp strictly after
// afterMillis, newest first.
func (d *DB) FetchMessages(ctx context.Context, afterMillis int64) ([]api.Message, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT body, date FROM messages WHERE date > ? ORDER BY date DESC`, afterMillis)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []api.Message
	for rows.Next() {
		var m api.Message
		if err := rows.Scan(&m.Body, &m.TimestampMillis); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// InsertMessage appends a raw message to the inbox. Used by ingestion
// tooling and tests; sync passes only read.
func (d *DB) InsertMessage(ctx context.Context, message api.Message, address string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO messages (body, date, address) VALUES (?, ?, ?)`,
		message.Body, message.TimestampMillis, address)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// Watermark returns the persisted sync watermark, with ok=false when no
// pass has completed yet.
func (d *DB) Watermark(ctx context.Context) (int64, bool, error) {
	var value sql.NullInt64
	err := d.db.QueryRowContext(ctx,
		`SELECT long_value FROM settings WHERE key = ?`, WatermarkKey).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying watermark: %w", err)
	}
	if !value.Valid {
		return 0, false, nil
	}
	return value.Int64, true, nil
}

// SetWatermark overwrites the persisted sync watermark.
func (d *DB) SetWatermark(ctx context.Context, millis int64) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO settings (key, long_value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET long_value = excluded.long_value`,
		WatermarkKey, millis)
	if err != nil {
		return fmt.Errorf("storing watermark: %w", err)
	}
	return nil
}

// AppendSyncLog records the outcome of a completed pass.
func (d *DB) AppendSyncLog(ctx context.Context, entry orchestrator.SyncLogEntry) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO sync_log (pass_id, started_at, fetched, accepted, persisted, duplicates, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.PassID.String(), entry.StartedAt.UnixMilli(),
		entry.Fetched, entry.Accepted, entry.Persisted, entry.Duplicates, entry.Failed)
	if err != nil {
		return fmt.Errorf("appending sync log: %w", err)
	}
	return nil
}

// RecentSyncLog returns the most recent pass outcomes, newest first.
func (d *DB) RecentSyncLog(ctx context.Context, limit int) ([]orchestrator.SyncLogEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT pass_id, started_at, fetched, accepted, persisted, duplicates, failed
		 FROM sync_log ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync log: %w", err)
	}
	defer rows.Close()

	var entries []orchestrator.SyncLogEntry
	for rows.Next() {
		var (
			entry     orchestrator.SyncLogEntry
			passID    string
			startedAt int64
		)
		if err := rows.Scan(&passID, &startedAt, &entry.Fetched, &entry.Accepted,
			&entry.Persisted, &entry.Duplicates, &entry.Failed); err != nil {
			return nil, fmt.Errorf("scanning sync log entry: %w", err)
		}
		id, err := uuid.Parse(passID)
		if err != nil {
			return nil, fmt.Errorf("parsing pass id %q: %w", passID, err)
		}
		entry.PassID = id
		entry.StartedAt = time.UnixMilli(startedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
