// Package postgres provides a PostgreSQL database adapter backed by pgx.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlinput/pkg/adapters/postgres"
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/leapstack-labs/sqlinput/pkg/core"
	"github.com/xwb1989/sqlparser"
)

// DriverName is the id the adapter is registered under.
const DriverName = "postgres"

func init() {
	adapter.Register(DriverName, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
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

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return err
	}

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid postgres connection string: %w", err)
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", connCfg.Host),
		slog.Int("port", int(connCfg.Port)),
		slog.String("database", connCfg.Database))

	return a.OpenDB(ctx, "pgx", dsn, cfg)
}

// Exec rebinds ? placeholders to $N before executing.
func (a *Adapter) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if len(args) > 0 {
		sqlStr = rebind(sqlStr)
	}
	return a.BaseSQLAdapter.Exec(ctx, sqlStr, args...)
}

// Query rebinds ? placeholders to $N before querying.
func (a *Adapter) Query(ctx context.Context, sqlStr string, args ...any) (*core.Rows, error) {
	if len(args) > 0 {
		sqlStr = rebind(sqlStr)
	}
	return a.BaseSQLAdapter.Query(ctx, sqlStr, args...)
}

// rebind rewrites positional ? placeholders into PostgreSQL's $1..$N form.
// A ? inside a string literal, quoted identifier or comment is left alone.
// Dollar-quoted strings are not recognized.
func rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	tkn := sqlparser.NewStringTokenizer(query)

	var sb strings.Builder
	last, n, prev := 0, 0, -1
	for {
		typ, _ := tkn.Scan()
		if typ == 0 || tkn.Position == prev {
			break
		}
		prev = tkn.Position
		if typ != sqlparser.VALUE_ARG {
			continue
		}

		// the tokenizer has read one character past the placeholder
		at := tkn.Position - 2
		if at < last || at >= len(query) || query[at] != '?' {
			continue
		}
		n++
		sb.WriteString(query[last:at])
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
		last = at + 1
	}

	if n == 0 {
		return query
	}
	sb.WriteString(query[last:])
	return sb.String()
}

// quoteValue quotes v for a keyword/value connection string.
func quoteValue(v string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

// buildPostgresDSN merges credentials and options into the configured URL.
// Both URL (postgres://...) and keyword/value (host=... dbname=...) forms are accepted.
func buildPostgresDSN(cfg adapter.Config) (string, error) {
	sslmode := cfg.Option("sslmode", "disable")

	if strings.HasPrefix(cfg.URL, "postgres://") || strings.HasPrefix(cfg.URL, "postgresql://") {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return "", fmt.Errorf("invalid postgres url: %w", err)
		}

		if cfg.Username != "" {
			if cfg.Password != "" {
				u.User = url.UserPassword(cfg.Username, cfg.Password)
			} else {
				u.User = url.User(cfg.Username)
			}
		}

		q := u.Query()
		for k, v := range cfg.Options {
			if q.Get(k) == "" {
				q.Set(k, v)
			}
		}
		if q.Get("sslmode") == "" {
			q.Set("sslmode", sslmode)
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	dsn := strings.TrimSpace(cfg.URL)
	if !strings.Contains(dsn, "sslmode=") {
		dsn += fmt.Sprintf(" sslmode=%s", sslmode)
	}
	if cfg.Username != "" {
		dsn += " user=" + quoteValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + quoteValue(cfg.Password)
	}
	return dsn, nil
}
