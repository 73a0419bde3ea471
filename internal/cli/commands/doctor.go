package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlinput/internal/config"
	"github.com/leapstack-labs/sqlinput/pkg/adapter"
	"github.com/spf13/cobra"
)

// Check statuses.
const (
	statusPass = "pass"
	statusFail = "fail"
	statusSkip = "skip"
)

// HealthCheck is the result of one doctor check.
type HealthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and data source connectivity",
		Long: `Check that the configuration is complete, the configured driver is
available and the data source accepts a trivial query.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			checks := runChecks(cmd.Context(), cmdCtx)

			if cmdCtx.Cfg.Output == config.OutputJSON {
				if err := renderJSONValue(cmdCtx.Out, checks); err != nil {
					return err
				}
			} else {
				t := table.NewWriter()
				t.SetOutputMirror(cmdCtx.Out)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Check", "Status", "Detail"})
				for _, c := range checks {
					t.AppendRow(table.Row{c.Name, c.Status, c.Detail})
				}
				t.Render()
			}

			for _, c := range checks {
				if c.Status == statusFail {
					return fmt.Errorf("doctor: %s check failed", c.Name)
				}
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, cmdCtx *CommandContext) []HealthCheck {
	cfg := cmdCtx.Cfg
	checks := make([]HealthCheck, 0, 4)

	file := HealthCheck{Name: "config file", Status: statusPass, Detail: config.FileUsed()}
	if file.Detail == "" {
		file.Status = statusSkip
		file.Detail = "none found, using defaults and environment"
	}
	checks = append(checks, file)

	source := HealthCheck{Name: "data source", Status: statusPass, Detail: cfg.DataSource.String()}
	if err := cfg.DataSource.Validate(); err != nil {
		source.Status = statusFail
		source.Detail = err.Error()
	}
	checks = append(checks, source)

	driver := HealthCheck{Name: "driver", Status: statusPass, Detail: cfg.DataSource.Driver}
	switch {
	case cfg.DataSource.Driver == "":
		driver.Status = statusSkip
		driver.Detail = "not configured"
	case !adapter.IsRegistered(cfg.DataSource.Driver):
		driver.Status = statusFail
		driver.Detail = (&adapter.UnknownAdapterError{Type: cfg.DataSource.Driver, Available: adapter.ListAdapters()}).Error()
	}
	checks = append(checks, driver)

	conn := HealthCheck{Name: "connection", Status: statusSkip}
	if source.Status == statusPass && driver.Status == statusPass {
		conn.Status, conn.Detail = checkConnection(ctx, cmdCtx)
	}
	checks = append(checks, conn)

	return checks
}

func checkConnection(ctx context.Context, cmdCtx *CommandContext) (string, string) {
	a, err := adapter.Open(ctx, cmdCtx.Cfg.DataSource, cmdCtx.Logger)
	if err != nil {
		return statusFail, err.Error()
	}
	defer func() { _ = a.Close() }()

	rows, err := a.Query(ctx, "SELECT 1")
	if err != nil {
		return statusFail, err.Error()
	}
	if _, err := rows.All(); err != nil {
		return statusFail, err.Error()
	}
	return statusPass, "SELECT 1 succeeded"
}
