package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCommand_Healthy(t *testing.T) {
	cfg := sqliteConfig(setupTestDB(t, 1))

	out, _, err := execute(t, NewDoctorCommand(), cfg, "")
	require.NoError(t, err)

	assert.Contains(t, out, "data source")
	assert.Contains(t, out, "SELECT 1 succeeded")
	assert.NotContains(t, out, statusFail)
}

func TestDoctorCommand_Checks(t *testing.T) {
	tests := []struct {
		name       string
		source     config.DataSourceConfig
		wantErr    string
		wantStatus map[string]string
	}{
		{
			name:    "nothing configured",
			wantErr: "data source check failed",
			wantStatus: map[string]string{
				"data source": statusFail,
				"driver":      statusSkip,
				"connection":  statusSkip,
			},
		},
		{
			name:    "unknown driver",
			source:  config.DataSourceConfig{URL: "x", Driver: "oracle"},
			wantErr: "driver check failed",
			wantStatus: map[string]string{
				"data source": statusPass,
				"driver":      statusFail,
				"connection":  statusSkip,
			},
		},
		{
			name:    "connection fails",
			source:  config.DataSourceConfig{URL: ":memory:", Driver: "sqlite", Options: map[string]string{"journal_mode": "(("}},
			wantErr: "connection check failed",
			wantStatus: map[string]string{
				"data source": statusPass,
				"driver":      statusPass,
				"connection":  statusFail,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.DataSource = tt.source
			cfg.Output = config.OutputJSON

			out, _, err := execute(t, NewDoctorCommand(), cfg, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var checks []HealthCheck
			require.NoError(t, json.Unmarshal([]byte(out), &checks))

			got := make(map[string]string, len(checks))
			for _, c := range checks {
				got[c.Name] = c.Status
			}
			for name, status := range tt.wantStatus {
				assert.Equal(t, status, got[name], "check %q", name)
			}
		})
	}
}

func TestDriversCommand(t *testing.T) {
	cfg := sqliteConfig("app.db")

	out, _, err := execute(t, NewDriversCommand(), cfg, "")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "*")

	cfg.Output = config.OutputJSON
	out, _, err = execute(t, NewDriversCommand(), cfg, "")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Contains(t, names, "sqlite")
}
