package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/sqlinput/pkg/batch"
	"github.com/leapstack-labs/sqlinput/pkg/core"
	"github.com/leapstack-labs/sqlinput/pkg/query"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
	Params []string
	One    bool
	Paged  bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Validate and run a query against the configured data source",
		Long: `Validate a SELECT statement and run it against the configured data source.

The statement must pass syntax, JOIN and subquery validation before it is
sent to the database. Positional ? placeholders are bound from --param
values in order.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Run a query
  sqlinput query "SELECT id, name FROM users WHERE active = ?" -p 1

  # Expect exactly one row
  sqlinput query "SELECT count(*) AS n FROM users" --one

  # Page through a large table using batch_size rows per page
  sqlinput query "SELECT * FROM events ORDER BY id" --paged -f csv

  # Read SQL from a file
  sqlinput query -i report.sql -f json

  # Interactive mode
  sqlinput query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv (default from config)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Positional parameter value (repeatable)")
	cmd.Flags().BoolVar(&opts.One, "one", false, "Require exactly one result row")
	cmd.Flags().BoolVar(&opts.Paged, "paged", false, "Fetch in pages of batch_size rows")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	format := opts.Format
	if format == "" {
		format = cmdCtx.Cfg.Output
	}

	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		text = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(content)
	default:
		return runQueryREPL(cmd, cmdCtx, format)
	}

	b, err := cmdCtx.NewBuilder()
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	params := make([]any, len(opts.Params))
	for i, p := range opts.Params {
		params[i] = p
	}

	if opts.Paged {
		return runPaged(cmd.Context(), cmdCtx, b, text, params, format)
	}

	rows, err := runStatement(cmd.Context(), b, text, params, opts.One)
	if err != nil {
		return err
	}
	return renderRows(cmdCtx.Out, rows, format)
}

// runStatement sets text as the builder's query and fetches it.
// With one set, a result that is not exactly one row is a CardinalityError.
func runStatement(ctx context.Context, b *query.Builder[core.Row], text string, params []any, one bool) ([]core.Row, error) {
	text = strings.TrimRight(strings.TrimSpace(text), ";")
	if err := b.WithQuery(text, params...); err != nil {
		return nil, err
	}
	if err := ensureDecoder(b); err != nil {
		return nil, err
	}

	if one {
		row, err := b.FetchOne(ctx)
		if err != nil {
			return nil, err
		}
		return []core.Row{row}, nil
	}
	return b.Fetch(ctx)
}

func runPaged(ctx context.Context, cmdCtx *CommandContext, b *query.Builder[core.Row], text string, params []any, format string) error {
	text = strings.TrimRight(strings.TrimSpace(text), ";")
	if err := b.WithQuery(text, params...); err != nil {
		return err
	}
	if err := ensureDecoder(b); err != nil {
		return err
	}

	render := newPageRenderer(cmdCtx.Out, format)

	p, err := batch.New[core.Row](batch.NewQueryProvider(b, text, params...), render,
		batch.WithBatchSize[core.Row](cmdCtx.Cfg.BatchSize),
		batch.WithLogger[core.Row](cmdCtx.Logger),
	)
	if err != nil {
		return err
	}

	stats, err := p.Process(ctx)
	if err != nil {
		return err
	}
	if err := render.Close(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmdCtx.Err, "%d rows in %d pages\n", stats.Items, stats.Batches)
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
