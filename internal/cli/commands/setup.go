package commands

import (
	"io"
	"log/slog"

	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/leapstack-labs/sqlinput/pkg/core"
	"github.com/leapstack-labs/sqlinput/pkg/query"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
}

// NewCommandContext collects the config and logger stored on the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    config.FromContext(cmd.Context()),
		Logger: config.GetLogger(cmd.Context()),
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
	}
}

// NewBuilder returns a row builder bound to the configured data source.
// The connection is opened on the first fetch.
func (c *CommandContext) NewBuilder(opts ...query.Option) (*query.Builder[core.Row], error) {
	base := []query.Option{
		query.WithLogger(c.Logger),
		query.WithConformance(c.Cfg.ConformanceLevel()),
	}
	b := query.New[core.Row](append(base, opts...)...)
	if err := b.WithDataSourceConfig(c.Cfg.DataSource); err != nil {
		return nil, err
	}
	return b, nil
}

// passthrough hands rows to the renderers unchanged so column order survives.
func passthrough(r core.Row) (core.Row, error) {
	return r, nil
}

// ensureDecoder installs passthrough once the builder has a query.
func ensureDecoder(b *query.Builder[core.Row]) error {
	if b.Stage() >= query.StageMapperSet {
		return nil
	}
	return b.WithRowDecoder(passthrough)
}
