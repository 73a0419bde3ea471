// Package sqlite provides a SQLite database adapter backed by modernc.org/sqlite.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlinput/pkg/adapters/sqlite"
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlinput/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// DriverName is the id the adapter is registered under.
const DriverName = "sqlite"

func init() {
	adapter.Register(DriverName, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Driver returns the registered driver id.
func (a *Adapter) Driver() string {
	return DriverName
}

// Connect opens the database file named by cfg.URL.
// Use ":memory:" for an in-memory database. Options are applied as PRAGMAs.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.URL
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", path))

	if err := a.OpenDB(ctx, "sqlite", path, cfg); err != nil {
		return err
	}

	if isMemory(path) {
		// every pooled connection would get its own empty database
		a.DB.SetMaxOpenConns(1)
	}

	for _, stmt := range pragmas(cfg.Options) {
		if _, err := a.DB.ExecContext(ctx, stmt); err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}
	return nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// pragmas renders options as PRAGMA statements in key order.
func pragmas(options map[string]string) []string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmts := make([]string, 0, len(keys))
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("PRAGMA %s = %s", k, options[k]))
	}
	return stmts
}
