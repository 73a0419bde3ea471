package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/leapstack-labs/sqlinput/pkg/sqltree"
	"github.com/leapstack-labs/sqlinput/pkg/validate"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Files []string
	Tree  bool
}

type validateInput struct {
	label string
	text  string
}

type validateResult struct {
	input validateInput
	tree  string
	err   error
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [SQL...]",
		Short: "Validate queries without running them",
		Long: `Check queries for syntax errors, JOINs without ON and misplaced or
malformed subqueries. No data source is needed.

Each argument is one query. Files given with --file are read whole.
With neither, the query is read from stdin.`,
		Example: `  sqlinput validate "SELECT * FROM a JOIN b ON a.id = b.id"
  sqlinput validate -F report.sql -F export.sql
  cat query.sql | sqlinput validate --tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Files, "file", "F", nil, "Read a query from file (repeatable)")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "Print the parsed tree of valid queries")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)

	inputs, err := collectValidateInputs(cmd.InOrStdin(), args, opts.Files)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no query given\nHint: pass SQL as an argument, use --file, or pipe it on stdin")
	}

	v := validate.New(cmdCtx.Cfg.ConformanceLevel(), cmdCtx.Logger)
	results := make([]validateResult, len(inputs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = validateOne(v, in, opts.Tree)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			_, _ = fmt.Fprintf(cmdCtx.Out, "FAIL  %s: %v\n", r.input.label, r.err)
			continue
		}
		_, _ = fmt.Fprintf(cmdCtx.Out, "ok    %s\n", r.input.label)
		if r.tree != "" {
			_, _ = fmt.Fprint(cmdCtx.Out, r.tree)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed validation", failed, len(results))
	}
	return nil
}

func validateOne(v *validate.Validator, in validateInput, withTree bool) validateResult {
	tree, err := v.Validate(in.text)
	if err != nil || !withTree {
		return validateResult{input: in, err: err}
	}

	var buf bytes.Buffer
	if err := sqltree.Dump(&buf, tree.Root); err != nil {
		return validateResult{input: in, err: err}
	}
	return validateResult{input: in, tree: buf.String()}
}

func collectValidateInputs(stdin io.Reader, args, files []string) ([]validateInput, error) {
	var inputs []validateInput

	for i, arg := range args {
		inputs = append(inputs, validateInput{label: fmt.Sprintf("arg %d", i+1), text: arg})
	}

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		inputs = append(inputs, validateInput{label: path, text: trimStatement(string(content))})
	}

	if len(inputs) == 0 && !isTerminal(stdin) {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if text := trimStatement(string(content)); text != "" {
			inputs = append(inputs, validateInput{label: "stdin", text: text})
		}
	}

	return inputs, nil
}

// trimStatement drops surrounding whitespace and one trailing semicolon.
func trimStatement(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, ";"))
}
