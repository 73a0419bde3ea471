// Package duckdb provides a DuckDB database adapter.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlinput/pkg/adapters/duckdb"
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlinput/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DriverName is the id the adapter is registered under.
const DriverName = "duckdb"

func init() {
	adapter.Register(DriverName, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
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

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the URL for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.URL
	if path == ":memory:" {
		path = ""
	}

	a.Logger.Debug("opening duckdb database", slog.String("path", cfg.URL))

	if err := a.OpenDB(ctx, "duckdb", path, cfg); err != nil {
		return err
	}

	for _, stmt := range setupStatements(params) {
		if _, err := a.DB.ExecContext(ctx, stmt); err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}
	return nil
}

// setupStatements renders extension loading and session settings.
func setupStatements(p *Params) []string {
	var stmts []string
	for _, ext := range p.Extensions {
		stmts = append(stmts, fmt.Sprintf("INSTALL %s", ext), fmt.Sprintf("LOAD %s", ext))
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", k, strings.ReplaceAll(p.Settings[k], "'", "''")))
	}
	return stmts
}
