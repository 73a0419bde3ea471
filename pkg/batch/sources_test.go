package batch

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/leapstack-labs/sqlinput/pkg/query"
	"github.com/leapstack-labs/sqlinput/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID     int64  `db:"id"`
	Email  string `db:"email"`
	Active bool   `db:"active"`
}

func newMockAdapter(t *testing.T) (*adapter.BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &adapter.BaseSQLAdapter{DB: db}, mock
}

func TestQueryProvider_Pages(t *testing.T) {
	base, mock := newMockAdapter(t)

	b := query.New[account](query.WithExecutor(base))
	require.NoError(t, b.WithDataSource("app.db", "", "", "sqlite"))
	require.NoError(t, b.WithQuery("SELECT id, email, active FROM accounts"))
	require.NoError(t, b.WithRowDecoder(query.StructDecoder[account]()))

	const paged = "SELECT id, email, active FROM accounts WHERE active = ? LIMIT ? OFFSET ?"
	mock.ExpectQuery(paged).WithArgs(false, 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "active"}).
			AddRow(int64(1), "a@example.com", false).
			AddRow(int64(2), "b@example.com", false))
	mock.ExpectQuery(paged).WithArgs(false, 2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "active"}).
			AddRow(int64(3), "c@example.com", false))
	mock.ExpectQuery(paged).WithArgs(false, 2, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "active"}))

	mock.ExpectExec("UPDATE accounts SET active = ? WHERE id = ?").WithArgs(true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET active = ? WHERE id = ?").WithArgs(true, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET active = ? WHERE id = ?").WithArgs(true, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	provider := NewQueryProvider(b, "SELECT id, email, active FROM accounts WHERE active = ?;", false)
	updater := NewExecUpdater[account](base, "UPDATE accounts SET active = ? WHERE id = ?",
		func(a account) []any { return []any{a.Active, a.ID} })

	p, err := New[account](provider, updater,
		WithBatchSize[account](2),
		WithTransform(func(a account) (account, error) {
			a.Active = true
			return a, nil
		}),
	)
	require.NoError(t, err)

	stats, err := p.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Batches: 2, Items: 3}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryProvider_RejectsInvalidQuery(t *testing.T) {
	base, _ := newMockAdapter(t)

	b := query.New[account](query.WithExecutor(base))
	require.NoError(t, b.WithDataSource("app.db", "", "", "sqlite"))

	provider := NewQueryProvider(b, "SELECT * FROM a JOIN b")
	_, err := provider.Fetch(context.Background(), 0, 10)

	var joinErr *validate.JoinError
	assert.ErrorAs(t, err, &joinErr)
}

func TestExecUpdater_StopsOnFailure(t *testing.T) {
	base, mock := newMockAdapter(t)

	mock.ExpectExec("DELETE FROM accounts WHERE id = ?").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM accounts WHERE id = ?").WithArgs(int64(2)).
		WillReturnError(assert.AnError)

	u := NewExecUpdater[account](base, "DELETE FROM accounts WHERE id = ?",
		func(a account) []any { return []any{a.ID} })

	err := u.Update(context.Background(), []account{{ID: 1}, {ID: 2}, {ID: 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "item 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
