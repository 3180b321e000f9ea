// Package analysislog keeps a history of analysis runs so past results can be
// listed without re-running the engine.
package analysislog

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/hangar/core/report"
)

// Record captures one analysis run.
type Record struct {
	RunID       string         `json:"run_id"`
	Timestamp   time.Time      `json:"timestamp"`
	Airfield    string         `json:"airfield"`
	Source      string         `json:"source,omitempty"`
	Summary     report.Summary `json:"summary"`
	Scheduled   []string       `json:"scheduled"`
	Unscheduled []string       `json:"unscheduled"`
	Conflicts   int            `json:"conflicts"`
	DurationMS  float64        `json:"duration_ms"`
}

// Involves reports whether the induction id was part of the run's schedule.
func (r Record) Involves(id string) bool {
	for _, s := range r.Scheduled {
		if s == id {
			return true
		}
	}
	for _, s := range r.Unscheduled {
		if s == id {
			return true
		}
	}
	return false
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start     time.Time
	End       time.Time
	Airfield  string
	Induction string
	// FailedOnly keeps runs that left at least one auto-induction unscheduled.
	FailedOnly bool
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Airfield != "" && r.Airfield != q.Airfield {
		return false
	}
	if q.FailedOnly && len(r.Unscheduled) == 0 {
		return false
	}
	if q.Induction != "" && !r.Involves(q.Induction) {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects the storage backend.
type Config struct {
	// Backend is "jsonl", "sqlite" or "none".
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
}

// Validate checks the backend selection.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("analysis log: path is required for %s backend", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("analysis log: unknown backend %q", c.Backend)
	}
}

// Open returns the store described by cfg. The "none" backend yields a nil
// Store and no error.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "jsonl":
		return NewJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("analysis log: unknown backend %q", cfg.Backend)
	}
}
