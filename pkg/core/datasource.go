package core

import (
	"errors"
	"fmt"
	"strings"
)

// DataSourceConfig holds everything needed to reach a database.
// URL is driver specific: a postgres URL, a mysql DSN, or a file path for sqlite and duckdb.
type DataSourceConfig struct {
	URL      string            `koanf:"url" json:"url"`
	Username string            `koanf:"username" json:"username,omitempty"`
	Password string            `koanf:"password" json:"-"`
	Driver   string            `koanf:"driver" json:"driver"`
	Options  map[string]string `koanf:"options" json:"options,omitempty"`
	Params   map[string]any    `koanf:"params" json:"params,omitempty"`
}

// Validate checks that the connection parameters required to open a connection are present.
func (c DataSourceConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(c.Driver) == "" {
		missing = append(missing, "driver")
	}
	if len(missing) > 0 {
		return fmt.Errorf("data source: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsZero reports whether no field of the config has been set.
func (c DataSourceConfig) IsZero() bool {
	return c.URL == "" && c.Username == "" && c.Password == "" && c.Driver == "" &&
		len(c.Options) == 0 && len(c.Params) == 0
}

// Option returns a driver option, or def when it is not set.
func (c DataSourceConfig) Option(key, def string) string {
	if v, ok := c.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// String renders the config with the password redacted.
func (c DataSourceConfig) String() string {
	pw := ""
	if c.Password != "" {
		pw = "****"
	}
	return fmt.Sprintf("%s://%s (user=%q password=%q)", c.Driver, c.URL, c.Username, pw)
}

// ErrNotConnected is returned by adapters used before Connect succeeded.
var ErrNotConnected = errors.New("database connection not established")
