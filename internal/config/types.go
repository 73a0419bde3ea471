// Package config loads sqlinput configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the YAML
// config file, SQLINPUT_ environment variables and explicitly set CLI flags.
package config

import (
	"github.com/leapstack-labs/sqlinput/pkg/core"
)

// DataSourceConfig is an alias so CLI code does not need to import pkg/core.
type DataSourceConfig = core.DataSourceConfig

// Config holds all CLI configuration options.
type Config struct {
	DataSource  DataSourceConfig `koanf:"datasource"`
	Conformance string           `koanf:"conformance"`
	LogLevel    string           `koanf:"log_level"`
	Verbose     bool             `koanf:"verbose"`
	Output      string           `koanf:"output"`
	BatchSize   int              `koanf:"batch_size"`
}

// Output formats accepted by the output key.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputCSV   = "csv"
)

// Default configuration values.
const (
	ConfigFileName    = "sqlinput.yaml"
	ConfigFileNameAlt = "sqlinput.yml"
	EnvPrefix         = "SQLINPUT_"

	DefaultConformance = "lenient"
	DefaultLogLevel    = "warn"
	DefaultOutput      = OutputTable
	DefaultBatchSize   = 100
)

// Default returns a Config populated with default values only.
func Default() *Config {
	return &Config{
		Conformance: DefaultConformance,
		LogLevel:    DefaultLogLevel,
		Output:      DefaultOutput,
		BatchSize:   DefaultBatchSize,
	}
}
