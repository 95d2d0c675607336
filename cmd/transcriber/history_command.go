package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"transcriber/internal/history"
	"transcriber/internal/subtitle"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent runs, or the per-file outcomes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.HistoryEnabled() {
				return fmt.Errorf("run history is disabled; set paths.history_db in the configuration")
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunFiles(cmd, store, args[0])
			}
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *history.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Model,
			run.Device,
			run.Status,
			fmt.Sprintf("%d/%d", run.FilesTotal-run.FilesFailed, run.FilesTotal),
			subtitle.FormatHMS(run.AudioSeconds),
			(time.Duration(run.ElapsedSeconds * float64(time.Second))).Round(time.Second).String(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Model", "Device", "Status", "Files", "Audio", "Elapsed"},
		rows, 6, 7, 8))
	return nil
}

func printRunFiles(cmd *cobra.Command, store *history.Store, runID string) error {
	outcomes, err := store.RunFiles(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		fmt.Fprintf(out, "No files recorded for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		detail := outcome.Error
		if outcome.Status == history.FileStatusDone {
			detail = subtitle.FormatHMS(outcome.AudioSeconds)
		}
		rows = append(rows, []string{
			strconv.Itoa(outcome.Ordinal),
			outcome.Name,
			outcome.Status,
			detail,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "File", "Status", "Detail"}, rows, 1))
	return nil
}
