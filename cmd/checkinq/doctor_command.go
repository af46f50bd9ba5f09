package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"checkinq/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the queue database, and the remote service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				if !r.Passed {
					failed++
				}
				rows = append(rows, []string{r.Name, passLabel(r.Passed, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]column{{header: "Check"}, {header: "Result"}, detailColumn}, rows))
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
}
