package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/leapstack-labs/sqlinput/pkg/core"
	"github.com/leapstack-labs/sqlinput/pkg/query"
	"github.com/leapstack-labs/sqlinput/pkg/sqltree"
	"github.com/leapstack-labs/sqlinput/pkg/validate"
	"github.com/spf13/cobra"
)

const (
	promptMain = "sqlinput> "
	promptCont = "     ...> "
)

// REPL modes.
const (
	modeRun      = "run"
	modeValidate = "validate"
	modeTree     = "tree"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive query session",
		Long: `Start an interactive session against the configured data source.

Statements may span lines and run when a line ends with a semicolon.
Without a data source the session starts in validate mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if format == "" {
				format = cmdCtx.Cfg.Output
			}
			return runQueryREPL(cmd, cmdCtx, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, csv (default from config)")
	return cmd
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, format string) error {
	s := newREPLSession(cmd.Context(), cmdCtx, format)
	defer s.close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptMain,
		HistoryFile:     historyFile(),
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "sqlinput REPL (%s, %s mode)\n", s.describeSource(), s.mode)
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(promptMain)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if s.handleLine(line) {
			break
		}
		if s.buf.Len() > 0 {
			rl.SetPrompt(promptCont)
		} else {
			rl.SetPrompt(promptMain)
		}
	}

	return nil
}

type replSession struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	cfg       *config.Config
	builder   *query.Builder[core.Row]
	validator *validate.Validator
	format    string
	mode      string
	buf       strings.Builder
}

func newREPLSession(ctx context.Context, cmdCtx *CommandContext, format string) *replSession {
	s := &replSession{
		ctx:       ctx,
		out:       cmdCtx.Out,
		errOut:    cmdCtx.Err,
		cfg:       cmdCtx.Cfg,
		validator: validate.New(cmdCtx.Cfg.ConformanceLevel(), cmdCtx.Logger),
		format:    format,
		mode:      modeRun,
	}

	b, err := cmdCtx.NewBuilder()
	if err != nil {
		cmdCtx.Logger.Debug("no usable data source, starting in validate mode", "error", err)
		s.mode = modeValidate
	} else {
		s.builder = b
	}
	return s
}

func (s *replSession) close() {
	if s.builder != nil {
		_ = s.builder.Close()
	}
}

func (s *replSession) describeSource() string {
	if s.builder == nil {
		return "no data source"
	}
	return s.cfg.DataSource.String()
}

// handleLine processes one line of input and reports whether the session should end.
func (s *replSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString("\n")
		return false
	}

	text := strings.TrimSuffix(s.buf.String(), ";")
	s.buf.Reset()

	if err := s.runStatement(text); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(s.out)
	return false
}

func (s *replSession) runStatement(text string) error {
	switch s.mode {
	case modeValidate:
		if _, err := s.validator.Validate(text); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(s.out, "OK")
		return nil
	case modeTree:
		tree, err := s.validator.Validate(text)
		if err != nil {
			return err
		}
		return sqltree.Dump(s.out, tree.Root)
	}

	if s.builder == nil {
		return errors.New("no data source configured (set datasource.url and datasource.driver)")
	}
	rows, err := runStatement(s.ctx, s.builder, text, nil, false)
	if err != nil {
		return err
	}
	return renderRows(s.out, rows, s.format)
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "format: %s\n", s.format)
			break
		}
		switch f := strings.ToLower(parts[1]); f {
		case config.OutputTable, config.OutputJSON, config.OutputCSV:
			s.format = f
		default:
			_, _ = fmt.Fprintf(s.errOut, "Unknown format: %s (table, json or csv)\n", parts[1])
		}

	case ".mode":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "mode: %s\n", s.mode)
			break
		}
		switch m := strings.ToLower(parts[1]); m {
		case modeRun, modeValidate, modeTree:
			s.mode = m
		default:
			_, _ = fmt.Fprintf(s.errOut, "Unknown mode: %s (run, validate or tree)\n", parts[1])
		}

	case ".drivers":
		_, _ = fmt.Fprintln(s.out, strings.Join(adapter.ListAdapters(), "\n"))

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                     Show this help message
  .mode [run|validate|tree] Show or set what happens to statements
  .format [table|json|csv]  Show or set the output format
  .drivers                  List available drivers
  .clear                    Clear the screen
  .quit / .exit             Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".mode",
			readline.PcItem(modeRun),
			readline.PcItem(modeValidate),
			readline.PcItem(modeTree),
		),
		readline.PcItem(".format",
			readline.PcItem(config.OutputTable),
			readline.PcItem(config.OutputJSON),
			readline.PcItem(config.OutputCSV),
		),
		readline.PcItem(".drivers"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlinput_history")
}
