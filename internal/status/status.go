// Package status builds the operational status report: the event count
// read through a fresh read-only connection, and the freshness of the
// newest backup file.
//
// The two halves are independent. A failure in one never hides the
// other; each degrades to its documented placeholder instead.
package status

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/roach88/eventlog/internal/backup"
	"github.com/roach88/eventlog/internal/clock"
	"github.com/roach88/eventlog/internal/store"
)

// CountUnavailable replaces the count when the database cannot be read.
const CountUnavailable = "Error reading DB"

// CountResult is the outcome of counting events for the report.
type CountResult struct {
	N   int64
	Err error
}

// MarshalJSON renders N, or CountUnavailable when Err is set.
func (c CountResult) MarshalJSON() ([]byte, error) {
	if c.Err != nil {
		return json.Marshal(CountUnavailable)
	}
	return json.Marshal(c.N)
}

// Report is the status payload. Backup fields are nil when no backup
// could be found.
type Report struct {
	Count            CountResult `json:"count"`
	LastBackupFile   *string     `json:"last_backup_file"`
	BackupAgeSeconds *int64      `json:"backup_age_seconds"`
}

// CountFunc counts events in the database file at path.
type CountFunc func(ctx context.Context, path string) (int64, error)

// Prober assembles Reports.
type Prober struct {
	DBPath    string
	BackupDir string
	BackupExt string

	// Clock defaults to clock.System.
	Clock clock.Clock
	// Count defaults to store.CountFile.
	Count CountFunc
	// Logger receives the errors the report swallows. Defaults to discard.
	Logger *slog.Logger
}

// Probe builds a report. It never fails.
func (p *Prober) Probe(ctx context.Context) Report {
	var r Report
	r.Count = p.count(ctx)
	if d, ok := p.latestBackup(); ok {
		name := d.Name
		age := d.Age(p.wallClock().Now())
		r.LastBackupFile = &name
		r.BackupAgeSeconds = &age
	}
	return r
}

func (p *Prober) count(ctx context.Context) CountResult {
	count := p.Count
	if count == nil {
		count = store.CountFile
	}
	n, err := count(ctx, p.DBPath)
	if err != nil {
		p.logger().Warn("status: count unavailable", "db", p.DBPath, "error", err)
		return CountResult{Err: err}
	}
	return CountResult{N: n}
}

func (p *Prober) latestBackup() (backup.Descriptor, bool) {
	d, found, err := backup.Latest(p.BackupDir, p.BackupExt)
	if err != nil {
		p.logger().Warn("status: backup scan failed", "dir", p.BackupDir, "error", err)
		return backup.Descriptor{}, false
	}
	return d, found
}

func (p *Prober) wallClock() clock.Clock {
	if p.Clock == nil {
		return clock.System{}
	}
	return p.Clock
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}
