package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transcriber/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Report availability of the external tools a run needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.LauncherBinary()))
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("External tools", colorize))
			for _, status := range statuses {
				kind := statusOK
				message := ""
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			if missing := deps.FirstMissing(statuses); missing != nil {
				return fmt.Errorf("missing required dependency: %s", missing.Name)
			}
			return nil
		},
	}
}
