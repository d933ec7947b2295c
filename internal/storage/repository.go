// Package storage holds the backend-agnostic interface for the ad-hoc
// schedule table: a scratch relational table rebuilt from a CSV header every
// run, used only to run declarative report queries instead of hand loops.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config is the minimal configuration needed to create a repository.
type Config struct {
	// Kind must match a registered backend kind ("sqlite", "postgres", "mssql").
	Kind string
	// DSN is backend-specific. For sqlite, ":memory:" gives a table that
	// lives and dies with the run.
	DSN string
}

// Repository is intentionally minimal: the schedule table is transient, so
// there is no update or delete path and no schema migration story.
//
// Column values are all text; numeric interpretation happens in Go when a
// report needs it.
type Repository interface {
	// EnsureScheduleTable drops any previous table of this name and creates
	// a fresh one whose columns are exactly the given names, all text typed.
	EnsureScheduleTable(ctx context.Context, table string, columns []string) error

	// InsertRows inserts the rows positionally. Every row must have
	// len(columns) fields.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]string) error

	// SelectReportRows returns (Cable Code, Cable Configuration) pairs for
	// rows with a non-empty Cable Reference, ordered by Cable Reference.
	SelectReportRows(ctx context.Context, table string) ([][2]string, error)

	// Close releases backend resources. Call once at shutdown.
	Close()
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind. Called from backend init()
// functions; registering the same kind twice panics to fail fast on
// ambiguous wiring.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
