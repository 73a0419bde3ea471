package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("url", "", "")
	fs.String("username", "", "")
	fs.String("password", "", "")
	fs.String("driver", "", "")
	fs.String("conformance", "", "")
	fs.String("log-level", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	fs.Int("batch-size", 0, "")
	return fs
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, FileUsed())
	assert.True(t, cfg.DataSource.IsZero())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, ConfigFileName, `
datasource:
  url: postgres://localhost:5432/app
  username: svc
  password: secret
  driver: postgres
  options:
    sslmode: require
conformance: strict
output: json
batch_size: 25
`)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/app", cfg.DataSource.URL)
	assert.Equal(t, "svc", cfg.DataSource.Username)
	assert.Equal(t, "secret", cfg.DataSource.Password)
	assert.Equal(t, "postgres", cfg.DataSource.Driver)
	assert.Equal(t, map[string]string{"sslmode": "require"}, cfg.DataSource.Options)
	assert.Equal(t, "strict", cfg.Conformance)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), FileUsed())
}

func TestLoad_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ConfigFileNameAlt, "datasource:\n  driver: sqlite\n  url: app.db\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DataSource.Driver)
	assert.Equal(t, filepath.Join(root, ConfigFileNameAlt), FileUsed())
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, t.TempDir(), "custom.yaml", "datasource:\n  driver: duckdb\n  url: ':memory:'\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.DataSource.Driver)
	assert.Equal(t, ":memory:", cfg.DataSource.URL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, ConfigFileName, `
datasource:
  url: file.db
  driver: sqlite
output: json
log_level: error
`)

	t.Setenv("SQLINPUT_DATASOURCE_URL", "env.db")
	t.Setenv("SQLINPUT_OUTPUT", "csv")
	t.Setenv("SQLINPUT_LOG_LEVEL", "info")
	t.Setenv("SQLINPUT_DATASOURCE_OPTIONS_JOURNAL_MODE", "wal")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--url", "flag.db", "--batch-size", "7"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "flag.db", cfg.DataSource.URL, "flag beats env and file")
	assert.Equal(t, "sqlite", cfg.DataSource.Driver, "file value survives when nothing overrides it")
	assert.Equal(t, OutputCSV, cfg.Output, "env beats file")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 7, cfg.BatchSize)
	assert.Equal(t, "wal", cfg.DataSource.Options["journal_mode"])
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, ConfigFileName, "output: json\n")

	flags := newFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Output)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, ConfigFileName, `
datasource:
  url: postgres://${SQLINPUT_TEST_HOST}/app
  username: ${SQLINPUT_TEST_USER}
  password: ${SQLINPUT_TEST_UNSET_PASSWORD}
  driver: postgres
`)
	t.Setenv("SQLINPUT_TEST_HOST", "db.internal")
	t.Setenv("SQLINPUT_TEST_USER", "reporter")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://db.internal/app", cfg.DataSource.URL)
	assert.Equal(t, "reporter", cfg.DataSource.Username)
	assert.Equal(t, "${SQLINPUT_TEST_UNSET_PASSWORD}", cfg.DataSource.Password)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "conformance", content: "conformance: loose\n", errMsg: "invalid conformance"},
		{name: "output", content: "output: xml\n", errMsg: "unknown output format"},
		{name: "log level", content: "log_level: loud\n", errMsg: "unknown log level"},
		{name: "batch size", content: "batch_size: 0\n", errMsg: "batch_size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			writeConfig(t, dir, ConfigFileName, tt.content)

			_, err := Load("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SQLINPUT_OUTPUT", "output"},
		{"SQLINPUT_LOG_LEVEL", "log_level"},
		{"SQLINPUT_BATCH_SIZE", "batch_size"},
		{"SQLINPUT_DATASOURCE_URL", "datasource.url"},
		{"SQLINPUT_DATASOURCE_DRIVER", "datasource.driver"},
		{"SQLINPUT_DATASOURCE_OPTIONS_SSLMODE", "datasource.options.sslmode"},
		{"SQLINPUT_DATASOURCE_PARAMS_THREADS", "datasource.params.threads"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want slog.Level
	}{
		{name: "default", cfg: Config{}, want: slog.LevelWarn},
		{name: "info", cfg: Config{LogLevel: "INFO"}, want: slog.LevelInfo},
		{name: "error", cfg: Config{LogLevel: "error"}, want: slog.LevelError},
		{name: "verbose wins", cfg: Config{LogLevel: "error", Verbose: true}, want: slog.LevelDebug},
		{name: "garbage", cfg: Config{LogLevel: "loud"}, want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Level())
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Default(), FromContext(ctx))
	assert.NotNil(t, GetLogger(ctx))

	cfg := &Config{Output: OutputCSV}
	logger := slog.Default()
	ctx = WithLogger(WithConfig(ctx, cfg), logger)

	assert.Same(t, cfg, FromContext(ctx))
	assert.Same(t, logger, GetLogger(ctx))
}
