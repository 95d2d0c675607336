package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"transcriber/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if overwrite {
				if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to point audio_dir at your recordings before running `transcriber run`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderSectionHeader("Paths", colorize))
			fmt.Fprintf(out, "  audio_dir:  %s\n", cfg.Paths.AudioDir)
			fmt.Fprintf(out, "  output_dir: %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "  work_dir:   %s\n", cfg.Paths.WorkDir)
			fmt.Fprintf(out, "  log_dir:    %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "  history_db: %s\n", orDisabled(cfg.Paths.HistoryDB))

			fmt.Fprintln(out, renderSectionHeader("Engine", colorize))
			fmt.Fprintf(out, "  model:      %s (fallback %s)\n", cfg.Engine.Model, cfg.Engine.FallbackModel)
			fmt.Fprintf(out, "  language:   %s\n", cfg.Engine.Language)
			fmt.Fprintf(out, "  device:     %s\n", cfg.Engine.Device)
			fmt.Fprintf(out, "  extensions: %s\n", strings.Join(cfg.Engine.Extensions, ", "))

			fmt.Fprintln(out, renderSectionHeader("Notifications", colorize))
			fmt.Fprintf(out, "  ntfy_topic: %s\n", orDisabled(cfg.Notifications.NtfyTopic))
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("determine default config path: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "(not created yet; run `transcriber config init`)")
			}
			return nil
		},
	}
}

func orDisabled(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(disabled)"
	}
	return value
}
