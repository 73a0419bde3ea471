package commands

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/leapstack-labs/sqlinput/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	// sqlite adapter for command tests.
	_ "github.com/leapstack-labs/sqlinput/pkg/adapters/sqlite"
)

// setupTestDB creates a sqlite database holding n users and returns its path.
func setupTestDB(t *testing.T, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			note TEXT
		);
		CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			total REAL NOT NULL
		);
	`)
	require.NoError(t, err)

	names := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
	for i := range n {
		_, err = db.ExecContext(ctx, "INSERT INTO users (id, name) VALUES (?, ?)", i+1, names[i%len(names)])
		require.NoError(t, err)
	}
	_, err = db.ExecContext(ctx, "UPDATE users SET note = 'says \"hi\", twice' WHERE id = 1")
	require.NoError(t, err)

	return path
}

// sqliteConfig returns a config pointing at the database at path.
func sqliteConfig(path string) *config.Config {
	cfg := config.Default()
	cfg.DataSource = config.DataSourceConfig{URL: path, Driver: "sqlite"}
	return cfg
}

// execute runs cmd with args under cfg and returns stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	ctx := config.WithLogger(config.WithConfig(context.Background(), cfg), testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func testCommandContext(t *testing.T, cfg *config.Config) (*CommandContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	return &CommandContext{
		Cfg:    cfg,
		Logger: testutil.NewTestLogger(t),
		Out:    &out,
		Err:    &errOut,
	}, &out, &errOut
}

func countLines(s, prefix string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}
