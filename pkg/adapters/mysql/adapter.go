// Package mysql provides a MySQL database adapter backed by go-sql-driver/mysql.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlinput/pkg/adapters/mysql"
package mysql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
)

// DriverName is the id the adapter is registered under.
const DriverName = "mysql"

func init() {
	adapter.Register(DriverName, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
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

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	mc, err := buildMySQLConfig(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to mysql", slog.String("addr", mc.Addr), slog.String("database", mc.DBName))

	return a.OpenDB(ctx, DriverName, mc.FormatDSN(), cfg)
}

// buildMySQLConfig parses the DSN in cfg.URL and applies credentials.
// Options become session variables set on every new connection.
func buildMySQLConfig(cfg adapter.Config) (*mysql.Config, error) {
	mc, err := mysql.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}

	if cfg.Username != "" {
		mc.User = cfg.Username
	}
	if cfg.Password != "" {
		mc.Passwd = cfg.Password
	}

	if len(cfg.Options) > 0 {
		if mc.Params == nil {
			mc.Params = make(map[string]string, len(cfg.Options))
		}
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc, nil
}
