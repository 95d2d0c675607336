package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"transcriber/internal/deps"
	"transcriber/internal/engine"
	"transcriber/internal/history"
	"transcriber/internal/logging"
	"transcriber/internal/notifications"
	"transcriber/internal/pipeline"
	"transcriber/internal/subtitle"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Transcribe every audio file in the configured input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.LauncherBinary()))
			if missing := deps.FirstMissing(statuses); missing != nil {
				return fmt.Errorf("required dependency %s is unavailable: %s (run `transcriber deps`)", missing.Name, missing.Detail)
			}

			var store *history.Store
			if cfg.HistoryEnabled() {
				store, err = history.Open(cfg.Paths.HistoryDB)
				if err != nil {
					logger.Warn("history disabled for this run", logging.Error(err))
					store = nil
				} else {
					defer store.Close()
				}
			}

			eng := engine.NewService(cfg.Engine, cfg.LauncherBinary(), cfg.FFmpegBinary(), cfg.Paths.WorkDir, logger)
			runner := pipeline.New(cfg, eng, notifications.NewService(cfg), store, logger)

			out := cmd.OutOrStdout()
			runner.SetProgressWriter(out)

			summary, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if summary.FilesTotal == 0 {
				return nil
			}

			printSummary(out, summary)
			if failed := summary.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", failed, summary.FilesTotal)
			}
			return nil
		},
	}
}

func printSummary(out io.Writer, summary pipeline.Summary) {
	colorize := shouldColorize(out)
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Run summary", colorize))
	fmt.Fprintf(out, "  Model:     %s (%s/%s)\n", summary.Model, summary.Device, summary.ComputeType)
	fmt.Fprintf(out, "  Processed: %d/%d\n", summary.Processed, summary.FilesTotal)
	fmt.Fprintf(out, "  Audio:     %s\n", subtitle.FormatHMS(summary.AudioSeconds))
	fmt.Fprintf(out, "  Elapsed:   %s\n", summary.Elapsed.Round(time.Second))

	if summary.Failed() == 0 {
		return
	}
	rows := make([][]string, 0, summary.Failed())
	for _, failure := range summary.Failures {
		rows = append(rows, []string{strconv.Itoa(failure.Ordinal), failure.Name, failure.Message})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"#", "File", "Error"}, rows, 1))
}
