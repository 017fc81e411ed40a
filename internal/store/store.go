// Package store provides the SQLite audit journal.
package store

import (
	"context"
	"time"
)

// Journal records completed commands for later inspection. It is an audit
// trail only; bond data is always fetched fresh from the ISS.
type Journal interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Entry outcomes.
const (
	OutcomeOK    = "OK"
	OutcomeError = "ERROR"
)

// Entry is a single journal record.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Command   string
	Code      string
	SecID     string
	ShortName string
	Outcome   string
}

// NopJournal discards entries. Used when journaling is disabled.
type NopJournal struct{}

var _ Journal = NopJournal{}

// Append discards the entry.
func (NopJournal) Append(ctx context.Context, entry Entry) error { return nil }

// Recent returns no entries.
func (NopJournal) Recent(ctx context.Context, limit int) ([]Entry, error) { return nil, nil }

// Close is a no-op.
func (NopJournal) Close() error { return nil }
