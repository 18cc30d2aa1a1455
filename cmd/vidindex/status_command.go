package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidindex/internal/deps"
	"vidindex/internal/preflight"
)

type statusReport struct {
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and storage readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			report := statusReport{
				Dependencies: preflight.CheckSystemDeps(cmd.Context(), cfg),
				Checks:       preflight.RunAll(cmd.Context(), cfg),
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			depRows := make([][]string, 0, len(report.Dependencies))
			for _, status := range report.Dependencies {
				state := "ok"
				detail := status.Description
				if !status.Available {
					state = "missing"
					detail = status.Detail
				}
				depRows = append(depRows, []string{status.Name, status.Command, state, detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"TOOL", "COMMAND", "STATE", "DETAIL"},
				depRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			checkRows := make([][]string, 0, len(report.Checks))
			for _, result := range report.Checks {
				state := "ok"
				if !result.Passed {
					state = "failed"
				}
				checkRows = append(checkRows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"CHECK", "STATE", "DETAIL"},
				checkRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if missing := deps.Missing(report.Dependencies); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			for _, result := range report.Checks {
				if !result.Passed {
					return fmt.Errorf("preflight check %q failed", result.Name)
				}
			}
			return nil
		},
	}
}
