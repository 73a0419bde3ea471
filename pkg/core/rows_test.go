package core

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryRows(t *testing.T, rows *sqlmock.Rows) *Rows {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	r, err := db.QueryContext(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)
	return &Rows{Rows: r}
}

func TestRows_All(t *testing.T) {
	rows := queryRows(t, sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), []byte("alice")).
		AddRow(int64(2), "bob"))

	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, []string{"id", "name"}, all[0].Columns)
	name, ok := all[0].Get("name")
	require.True(t, ok)
	assert.Equal(t, "alice", name, "byte slices are converted to strings")
	assert.Equal(t, map[string]any{"id": int64(2), "name": "bob"}, all[1].Map())
}

func TestRows_EachStopsOnCallbackError(t *testing.T) {
	rows := queryRows(t, sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	stop := errors.New("stop")
	seen := 0
	err := rows.Each(func(Row) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestRow_GetMissingColumn(t *testing.T) {
	row := Row{Columns: []string{"a"}, Values: []any{1}}
	_, ok := row.Get("b")
	assert.False(t, ok)
}
