package query

import (
	"context"

	"github.com/leapstack-labs/sqlinput/pkg/core"
)

// QueryStep is a builder with a data source and no query yet.
type QueryStep[T any] struct{ b *Builder[T] }

// DecodeStep is a builder with an accepted query and no decoder yet.
type DecodeStep[T any] struct{ b *Builder[T] }

// FetchStep is a fully configured builder.
type FetchStep[T any] struct{ b *Builder[T] }

// From starts a builder whose stages are separate types.
func From[T any](cfg core.DataSourceConfig, opts ...Option) (*QueryStep[T], error) {
	b := New[T](opts...)
	if err := b.WithDataSourceConfig(cfg); err != nil {
		return nil, err
	}
	return &QueryStep[T]{b: b}, nil
}

// Query validates text and moves to the decoder step.
func (s *QueryStep[T]) Query(text string, params ...any) (*DecodeStep[T], error) {
	if err := s.b.WithQuery(text, params...); err != nil {
		return nil, err
	}
	return &DecodeStep[T]{b: s.b}, nil
}

// Decode sets the row decoder and moves to the fetch step.
func (s *DecodeStep[T]) Decode(d RowDecoder[T]) (*FetchStep[T], error) {
	if err := s.b.WithRowDecoder(d); err != nil {
		return nil, err
	}
	return &FetchStep[T]{b: s.b}, nil
}

// Fetch runs the query and decodes every row.
func (s *FetchStep[T]) Fetch(ctx context.Context) ([]T, error) {
	return s.b.Fetch(ctx)
}

// FetchOne runs the query and returns its only row.
func (s *FetchStep[T]) FetchOne(ctx context.Context) (T, error) {
	return s.b.FetchOne(ctx)
}

// Requery replaces the query, keeping the data source and decoder.
func (s *FetchStep[T]) Requery(text string, params ...any) error {
	return s.b.WithQuery(text, params...)
}

// Builder returns the underlying builder.
func (s *FetchStep[T]) Builder() *Builder[T] {
	return s.b
}

// Close releases the connection opened by the builder.
func (s *FetchStep[T]) Close() error {
	return s.b.Close()
}
