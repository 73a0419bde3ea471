package query

import (
	"context"

	"github.com/leapstack-labs/sqlinput/pkg/core"
)

// Executor runs a query with positional parameters.
// Every adapter.Adapter satisfies it.
type Executor interface {
	Query(ctx context.Context, sql string, args ...any) (*core.Rows, error)
}

// ExecuteQuery runs spec on exec and decodes every row.
// The result is empty, never nil, when no rows match.
func ExecuteQuery[T any](ctx context.Context, exec Executor, spec QuerySpec, decode RowDecoder[T]) ([]T, error) {
	rows, err := exec.Query(ctx, spec.Text, spec.Params...)
	if err != nil {
		return nil, &ExecutionError{Op: "execution", Err: err}
	}

	out := make([]T, 0)
	var decodeErr error
	err = rows.Each(func(r core.Row) error {
		v, err := decode(r)
		if err != nil {
			decodeErr = err
			return err
		}
		out = append(out, v)
		return nil
	})
	if decodeErr != nil {
		return nil, &ExecutionError{Op: "decoding", Err: decodeErr}
	}
	if err != nil {
		return nil, &ExecutionError{Op: "execution", Err: err}
	}
	return out, nil
}

// ExecuteQueryForOne is ExecuteQuery for queries that must return exactly one row.
func ExecuteQueryForOne[T any](ctx context.Context, exec Executor, spec QuerySpec, decode RowDecoder[T]) (T, error) {
	var zero T

	results, err := ExecuteQuery(ctx, exec, spec, decode)
	if err != nil {
		return zero, err
	}
	if len(results) != 1 {
		return zero, &CardinalityError{Rows: len(results)}
	}
	return results[0], nil
}
