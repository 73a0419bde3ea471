package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/leapstack-labs/sqlinput/pkg/core"
	"github.com/leapstack-labs/sqlinput/pkg/sqltree"
	"github.com/leapstack-labs/sqlinput/pkg/validate"
)

// Connector opens a connection for a data source. adapter.Open is the default.
type Connector func(ctx context.Context, cfg core.DataSourceConfig, logger *slog.Logger) (core.Adapter, error)

type options struct {
	logger      *slog.Logger
	conformance sqltree.Conformance
	connector   Connector
	executor    Executor
}

// Option configures a Builder.
type Option func(*options)

// WithLogger sets the logger used for stage transitions and execution.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConformance sets the parser conformance used to validate query text.
func WithConformance(conf sqltree.Conformance) Option {
	return func(o *options) { o.conformance = conf }
}

// WithConnector replaces the function used to open connections lazily.
func WithConnector(c Connector) Option {
	return func(o *options) { o.connector = c }
}

// WithExecutor makes the builder run queries on e instead of opening a
// connection for the data source.
func WithExecutor(e Executor) Option {
	return func(o *options) { o.executor = e }
}

// Builder configures and runs one query. It is not safe for concurrent use.
type Builder[T any] struct {
	stage     Stage
	source    *core.DataSourceConfig
	spec      *QuerySpec
	decoder   RowDecoder[T]
	validator *validate.Validator
	connect   Connector
	exec      Executor
	conn      core.Adapter
	logger    *slog.Logger
}

// New creates an unconfigured Builder.
func New[T any](opts ...Option) *Builder[T] {
	o := options{connector: adapter.Open}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	return &Builder[T]{
		stage:     StageUnconfigured,
		validator: validate.New(o.conformance, o.logger),
		connect:   o.connector,
		exec:      o.executor,
		logger:    o.logger,
	}
}

// Stage returns the current stage.
func (b *Builder[T]) Stage() Stage {
	return b.stage
}

// DataSource returns the configured data source.
func (b *Builder[T]) DataSource() (core.DataSourceConfig, bool) {
	if b.source == nil {
		return core.DataSourceConfig{}, false
	}
	return *b.source, true
}

// Query returns the accepted query spec.
func (b *Builder[T]) Query() (QuerySpec, bool) {
	if b.spec == nil {
		return QuerySpec{}, false
	}
	return *b.spec, true
}

// WithDataSource sets the connection parameters.
func (b *Builder[T]) WithDataSource(url, username, password, driver string) error {
	return b.WithDataSourceConfig(core.DataSourceConfig{
		URL:      url,
		Username: username,
		Password: password,
		Driver:   driver,
	})
}

// WithDataSourceConfig sets the connection parameters. It may be called
// again later to point the builder at another database; a connection opened
// for the previous data source is closed.
func (b *Builder[T]) WithDataSourceConfig(cfg core.DataSourceConfig) error {
	if err := cfg.Validate(); err != nil {
		return &ConfigurationError{Op: "WithDataSource", Stage: b.stage, Reason: err.Error()}
	}

	if err := b.Close(); err != nil {
		b.logger.Warn("failed to close previous connection", slog.String("error", err.Error()))
	}

	b.source = &cfg
	b.advance(StageDataSourceSet)
	b.logger.Debug("data source set", slog.String("driver", cfg.Driver), slog.String("stage", b.stage.String()))
	return nil
}

// WithQuery validates text and, if it passes, makes it the query to run.
// On failure the builder is left exactly as it was.
func (b *Builder[T]) WithQuery(text string, params ...any) error {
	if b.source == nil {
		return &ConfigurationError{Op: "WithQuery", Stage: b.stage, Missing: []string{"data source"}}
	}

	if _, err := b.validator.Validate(text); err != nil {
		return err
	}

	b.spec = &QuerySpec{Text: text, Params: append([]any(nil), params...)}
	b.advance(StageQuerySet)
	b.logger.Debug("query set", slog.Int("params", len(params)), slog.String("stage", b.stage.String()))
	return nil
}

// WithRowDecoder sets the function that maps result rows to T.
func (b *Builder[T]) WithRowDecoder(d RowDecoder[T]) error {
	if b.stage < StageQuerySet {
		missing := []string{"query"}
		if b.source == nil {
			missing = []string{"data source", "query"}
		}
		return &ConfigurationError{Op: "WithRowDecoder", Stage: b.stage, Missing: missing}
	}
	if d == nil {
		return &ConfigurationError{Op: "WithRowDecoder", Stage: b.stage, Reason: "row decoder is nil"}
	}

	b.decoder = d
	b.advance(StageMapperSet)
	b.logger.Debug("row decoder set", slog.String("stage", b.stage.String()))
	return nil
}

// Fetch runs the query and decodes every row.
func (b *Builder[T]) Fetch(ctx context.Context) ([]T, error) {
	exec, err := b.prepare(ctx, "Fetch")
	if err != nil {
		return nil, err
	}

	log := b.logger.With(slog.String("query_id", uuid.NewString()))
	start := time.Now()
	log.Debug("executing query", slog.String("sql", b.spec.Text))

	results, err := ExecuteQuery(ctx, exec, *b.spec, b.decoder)
	if err != nil {
		log.Debug("query failed", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("query completed", slog.Int("rows", len(results)), slog.Duration("elapsed", time.Since(start)))
	return results, nil
}

// FetchOne runs the query and returns its only row. Zero or several rows
// result in a CardinalityError.
func (b *Builder[T]) FetchOne(ctx context.Context) (T, error) {
	var zero T

	exec, err := b.prepare(ctx, "FetchOne")
	if err != nil {
		return zero, err
	}

	log := b.logger.With(slog.String("query_id", uuid.NewString()))
	log.Debug("executing query for one row", slog.String("sql", b.spec.Text))

	result, err := ExecuteQueryForOne(ctx, exec, *b.spec, b.decoder)
	if err != nil {
		log.Debug("query failed", slog.String("error", err.Error()))
		return zero, err
	}
	return result, nil
}

// Close releases a connection the builder opened itself. Executors passed
// with WithExecutor are left alone.
func (b *Builder[T]) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

// prepare checks that every piece is configured and returns the executor,
// opening a connection on first use.
func (b *Builder[T]) prepare(ctx context.Context, op string) (Executor, error) {
	if missing := b.missing(); len(missing) > 0 {
		return nil, &ConfigurationError{
			Op:      op,
			Stage:   b.stage,
			Missing: missing,
			Reason:  "data source, query and row decoder must be set before Fetch or FetchOne",
		}
	}

	if b.exec != nil {
		return b.exec, nil
	}
	if b.conn == nil {
		conn, err := b.connect(ctx, *b.source, b.logger)
		if err != nil {
			return nil, &ExecutionError{Op: "connection", Err: err}
		}
		b.conn = conn
	}
	return b.conn, nil
}

func (b *Builder[T]) missing() []string {
	var missing []string
	if b.source == nil {
		missing = append(missing, "data source")
	}
	if b.spec == nil {
		missing = append(missing, "query")
	}
	if b.decoder == nil {
		missing = append(missing, "row decoder")
	}
	return missing
}

func (b *Builder[T]) advance(to Stage) {
	if to > b.stage {
		b.stage = to
	}
}
