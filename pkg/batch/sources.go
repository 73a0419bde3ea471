package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlinput/pkg/query"
)

// QueryProvider pages through a SELECT by appending LIMIT and OFFSET
// placeholders. The base text must not have its own LIMIT.
type QueryProvider[T any] struct {
	builder *query.Builder[T]
	text    string
	params  []any
}

// NewQueryProvider wraps a builder that already has a data source and a row
// decoder configured, or will have one before the first page is fetched.
func NewQueryProvider[T any](b *query.Builder[T], text string, params ...any) *QueryProvider[T] {
	return &QueryProvider[T]{
		builder: b,
		text:    strings.TrimRight(strings.TrimSpace(text), ";"),
		params:  params,
	}
}

// Fetch validates and runs the paged query.
func (q *QueryProvider[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	args := make([]any, 0, len(q.params)+2)
	args = append(args, q.params...)
	args = append(args, limit, offset)

	if err := q.builder.WithQuery(q.text+" LIMIT ? OFFSET ?", args...); err != nil {
		return nil, err
	}
	return q.builder.Fetch(ctx)
}

// Execer runs a statement that returns no rows. Every adapter.Adapter satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// ExecUpdater runs one statement per item, binding the arguments produced by args.
type ExecUpdater[T any] struct {
	exec Execer
	stmt string
	args func(T) []any
}

// NewExecUpdater creates an ExecUpdater.
func NewExecUpdater[T any](exec Execer, stmt string, args func(T) []any) *ExecUpdater[T] {
	return &ExecUpdater[T]{exec: exec, stmt: stmt, args: args}
}

// Update executes the statement for every item in order and stops at the first failure.
func (u *ExecUpdater[T]) Update(ctx context.Context, items []T) error {
	for i, item := range items {
		if err := u.exec.Exec(ctx, u.stmt, u.args(item)...); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
