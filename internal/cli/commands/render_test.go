package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/leapstack-labs/sqlinput/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []core.Row {
	cols := []string{"id", "name", "note"}
	return []core.Row{
		{Columns: cols, Values: []any{int64(1), "alice", `says "hi", twice`}},
		{Columns: cols, Values: []any{int64(2), "bob", nil}},
	}
}

func TestRenderRows(t *testing.T) {
	tests := []struct {
		name     string
		rows     []core.Row
		format   string
		contains []string
		exact    string
	}{
		{
			name:     "table",
			rows:     sampleRows(),
			format:   "table",
			contains: []string{"id", "alice", "NULL", "(2 rows)"},
		},
		{
			name:     "unknown format falls back to table",
			rows:     sampleRows(),
			format:   "yaml",
			contains: []string{"(2 rows)"},
		},
		{
			name:   "csv quotes fields",
			rows:   sampleRows(),
			format: "CSV",
			exact:  "id,name,note\n1,alice,\"says \"\"hi\"\", twice\"\n2,bob,NULL\n",
		},
		{
			name:     "json",
			rows:     sampleRows(),
			format:   "json",
			contains: []string{`"name": "alice"`, `"note": null`, `"id": 2`},
		},
		{
			name:   "empty table",
			format: "table",
			exact:  "(0 rows)\n",
		},
		{
			name:   "empty json",
			format: "json",
			exact:  "[]\n",
		},
		{
			name:   "empty csv",
			format: "csv",
			exact:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderRows(&buf, tt.rows, tt.format))

			if tt.exact != "" || tt.contains == nil {
				assert.Equal(t, tt.exact, buf.String())
			}
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPageRenderer(t *testing.T) {
	rows := sampleRows()
	pages := [][]core.Row{rows[:1], rows[1:], nil}

	single := func(t *testing.T, format string) string {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, renderRows(&buf, rows, format))
		return buf.String()
	}

	tests := []struct {
		name   string
		format string
		pages  [][]core.Row
		want   func(t *testing.T) string
	}{
		{
			name:   "json matches a single render",
			format: "json",
			pages:  pages,
			want:   func(t *testing.T) string { return single(t, "json") },
		},
		{
			name:   "csv matches a single render",
			format: "csv",
			pages:  pages,
			want:   func(t *testing.T) string { return single(t, "csv") },
		},
		{
			name:   "json without rows",
			format: "json",
			pages:  [][]core.Row{nil},
			want:   func(*testing.T) string { return "[]\n" },
		},
		{
			name:   "csv without rows",
			format: "csv",
			pages:  [][]core.Row{nil},
			want:   func(*testing.T) string { return "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := newPageRenderer(&buf, tt.format)
			for _, page := range tt.pages {
				require.NoError(t, r.Update(context.Background(), page))
			}
			require.NoError(t, r.Close())

			assert.Equal(t, tt.want(t), buf.String())
		})
	}
}
