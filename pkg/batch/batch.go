// Package batch pages through a data set and hands each page to an updater.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultBatchSize is the page size used when none is configured.
const DefaultBatchSize = 100

var (
	// ErrMissingProvider is returned by New without a provider.
	ErrMissingProvider = errors.New("batch: provider is required")
	// ErrMissingUpdater is returned by New without an updater.
	ErrMissingUpdater = errors.New("batch: updater is required")
)

// Provider returns up to limit items starting at offset.
// An empty page ends processing.
type Provider[T any] interface {
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Updater persists one page of transformed items.
type Updater[T any] interface {
	Update(ctx context.Context, items []T) error
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Fetch calls f.
func (f ProviderFunc[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	return f(ctx, offset, limit)
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc[T any] func(ctx context.Context, items []T) error

// Update calls f.
func (f UpdaterFunc[T]) Update(ctx context.Context, items []T) error {
	return f(ctx, items)
}

// Stats summarizes a Process run.
type Stats struct {
	Batches int
	Items   int
}

type config[T any] struct {
	batchSize int
	transform func(T) (T, error)
	logger    *slog.Logger
}

// Option configures a Processor.
type Option[T any] func(*config[T]) error

// WithBatchSize sets the page size. It must be positive.
func WithBatchSize[T any](n int) Option[T] {
	return func(c *config[T]) error {
		if n <= 0 {
			return fmt.Errorf("batch: batch size must be positive, got %d", n)
		}
		c.batchSize = n
		return nil
	}
}

// WithTransform sets a function applied to every item before it is updated.
func WithTransform[T any](fn func(T) (T, error)) Option[T] {
	return func(c *config[T]) error {
		if fn != nil {
			c.transform = fn
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *config[T]) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// Processor moves a data set from a Provider to an Updater page by page.
type Processor[T any] struct {
	provider Provider[T]
	updater  Updater[T]
	cfg      config[T]
}

// New creates a Processor. Provider and updater are required.
func New[T any](provider Provider[T], updater Updater[T], opts ...Option[T]) (*Processor[T], error) {
	if provider == nil {
		return nil, ErrMissingProvider
	}
	if updater == nil {
		return nil, ErrMissingUpdater
	}

	cfg := config[T]{
		batchSize: DefaultBatchSize,
		transform: func(v T) (T, error) { return v, nil },
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Processor[T]{provider: provider, updater: updater, cfg: cfg}, nil
}

// BatchSize returns the configured page size.
func (p *Processor[T]) BatchSize() int {
	return p.cfg.batchSize
}

// Process fetches pages starting at offset 0 until the provider returns an
// empty page. The context is checked between pages.
func (p *Processor[T]) Process(ctx context.Context) (Stats, error) {
	var stats Stats

	for offset := 0; ; offset += p.cfg.batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		items, err := p.provider.Fetch(ctx, offset, p.cfg.batchSize)
		if err != nil {
			return stats, fmt.Errorf("fetch batch at offset %d: %w", offset, err)
		}
		if len(items) == 0 {
			break
		}

		for i, item := range items {
			if items[i], err = p.cfg.transform(item); err != nil {
				return stats, fmt.Errorf("transform item %d: %w", offset+i, err)
			}
		}

		if err := p.updater.Update(ctx, items); err != nil {
			return stats, fmt.Errorf("update batch at offset %d: %w", offset, err)
		}

		stats.Batches++
		stats.Items += len(items)
		p.cfg.logger.Debug("batch processed", slog.Int("offset", offset), slog.Int("items", len(items)))
	}

	p.cfg.logger.Info("batch processing completed", slog.Int("batches", stats.Batches), slog.Int("items", stats.Items))
	return stats, nil
}
