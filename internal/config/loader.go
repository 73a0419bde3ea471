package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps CLI flag names to config keys where they differ.
var flagKeys = map[string]string{
	"url":      "datasource.url",
	"username": "datasource.username",
	"password": "datasource.password",
	"driver":   "datasource.driver",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var configFileUsed string

// FindConfigFile returns the config file to use, or "" if there is none.
// Priority: explicit path > sqlinput.yaml > sqlinput.yml, searched from startDir upward.
func FindConfigFile(explicit, startDir string) string {
	if explicit != "" {
		return explicit
	}

	dir := startDir
	for range maxUpwardSearchLevels {
		for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	configFileUsed = ""

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"conformance": def.Conformance,
		"log_level":   def.LogLevel,
		"verbose":     false,
		"output":      def.Output,
		"batch_size":  def.BatchSize,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	if path := FindConfigFile(cfgFile, cwd); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		configFileUsed = path
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	expandDataSourceEnvVars(&cfg.DataSource)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FileUsed returns the path of the config file read by the last Load, if any.
func FileUsed() string {
	return configFileUsed
}

// envKey maps SQLINPUT_DATASOURCE_URL to datasource.url and
// SQLINPUT_DATASOURCE_OPTIONS_SSLMODE to datasource.options.sslmode.
// Top-level keys keep their underscores (SQLINPUT_LOG_LEVEL -> log_level).
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))

	rest, ok := strings.CutPrefix(key, "datasource_")
	if !ok {
		return key
	}
	for _, nested := range []string{"options_", "params_"} {
		if name, found := strings.CutPrefix(rest, nested); found {
			return "datasource." + strings.TrimSuffix(nested, "_") + "." + name
		}
	}
	return "datasource." + rest
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

func expandDataSourceEnvVars(ds *DataSourceConfig) {
	ds.URL = expandEnvVars(ds.URL)
	ds.Username = expandEnvVars(ds.Username)
	ds.Password = expandEnvVars(ds.Password)
	for key, val := range ds.Options {
		ds.Options[key] = expandEnvVars(val)
	}
}
