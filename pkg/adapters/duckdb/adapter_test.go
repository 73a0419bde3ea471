package duckdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, adapter.Config{URL: dbPath, Driver: DriverName}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestConnect_WithSettings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	cfg := adapter.Config{
		URL:    ":memory:",
		Driver: DriverName,
		Params: map[string]any{
			"settings": map[string]any{
				"threads": "2",
			},
		},
	}

	require.NoError(t, adp.Connect(ctx, cfg))
	defer func() { _ = adp.Close() }()

	rows, err := adp.Query(ctx, "SELECT current_setting('threads') AS threads")
	require.NoError(t, err)

	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", fmt.Sprint(all[0].Values[0]))
}

func TestConnect_InvalidParams(t *testing.T) {
	adp := New(nil)

	err := adp.Connect(context.Background(), adapter.Config{
		URL:    ":memory:",
		Params: map[string]any{"extensions": map[string]any{"a": 1}},
	})
	require.Error(t, err)
	assert.False(t, adp.IsConnected())
}

func TestAdapter_QueryWithArgs(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{URL: ":memory:", Driver: DriverName}))
	defer func() { _ = adp.Close() }()

	rows, err := adp.Query(ctx, "SELECT ?::INTEGER + 1 AS n", 41)
	require.NoError(t, err)

	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.EqualValues(t, 42, all[0].Values[0])
}

func TestNew(t *testing.T) {
	adp := New(nil)
	assert.Equal(t, "duckdb", adp.Driver())
	assert.False(t, adp.IsConnected())
	assert.True(t, adapter.IsRegistered(DriverName))

	var _ adapter.Adapter = (*Adapter)(nil)
}
