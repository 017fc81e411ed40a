package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

var _ Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens (or creates) the journal database at dbPath.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLiteJournal{db: db}

	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return j, nil
}

// initSchema creates the journal table and its indexes.
func (j *SQLiteJournal) initSchema() error {
	schema := `
	-- Journal of executed commands
	CREATE TABLE IF NOT EXISTS journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts DATETIME NOT NULL,
		command TEXT NOT NULL,
		code TEXT NOT NULL,
		secid TEXT,
		shortname TEXT,
		outcome TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_journal_ts ON journal(ts);
	CREATE INDEX IF NOT EXISTS idx_journal_command ON journal(command);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Append writes a journal entry.
func (j *SQLiteJournal) Append(ctx context.Context, entry Entry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO journal (ts, command, code, secid, shortname, outcome)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ts, entry.Command, entry.Code, entry.SecID, entry.ShortName, entry.Outcome)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Recent retrieves the most recent entries, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, ts, command, code, secid, shortname, outcome
		FROM journal
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Command, &e.Code, &e.SecID, &e.ShortName, &e.Outcome); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
