package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewDriversCommand creates the drivers command.
func NewDriversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List available database drivers",
		Long:  `List the drivers that datasource.driver may name.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			names := adapter.ListAdapters()

			if cmdCtx.Cfg.Output == config.OutputJSON {
				return renderJSONValue(cmdCtx.Out, names)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmdCtx.Out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Driver", "Configured"})
			for _, name := range names {
				mark := ""
				if name == cmdCtx.Cfg.DataSource.Driver {
					mark = "*"
				}
				t.AppendRow(table.Row{name, mark})
			}
			t.Render()
			_, _ = fmt.Fprintf(cmdCtx.Out, "(%d drivers)\n", len(names))
			return nil
		},
	}
}
