package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlinput/pkg/sqltree"
)

// Validate checks the settings that do not depend on a command.
// The data source is checked only by commands that connect.
func (c *Config) Validate() error {
	if _, err := sqltree.ParseConformance(c.Conformance); err != nil {
		return fmt.Errorf("invalid conformance: %w\nHint: use lenient or strict", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Output {
	case OutputTable, OutputJSON, OutputCSV:
	default:
		return fmt.Errorf("unknown output format %q\nHint: use table, json or csv", c.Output)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// ConformanceLevel returns the parsed conformance, falling back to lenient.
func (c *Config) ConformanceLevel() sqltree.Conformance {
	conf, err := sqltree.ParseConformance(c.Conformance)
	if err != nil {
		return sqltree.Lenient
	}
	return conf
}

// Level returns the effective log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
}
