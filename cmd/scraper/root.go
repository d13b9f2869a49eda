package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/williampepple1/fare-scraper/internal/config"
)

type globalFlags struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	runFlags := &runOptions{}

	root := &cobra.Command{
		Use:   "scraper",
		Short: "Checks round-trip fares across a matrix of airports and dates.",
		Long: "Checks round-trip fares across a matrix of airports and dates.\n" +
			"Without a subcommand it runs a single sweep, same as `scraper run`.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, flags, runFlags)
		},
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", config.DefaultFile, "Path to configuration file (YAML)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every query")
	runFlags.register(root)

	root.AddCommand(newRunCmd(flags), newPlanCmd(flags), newScheduleCmd(flags))
	return root
}

// loadConfig reads and validates the configuration file.
func loadConfig(flags *globalFlags) (*config.AppConfig, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		slog.Error("failed to load configuration", "file", flags.configFile, "err", err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "file", flags.configFile, "err", err)
		return nil, err
	}
	return cfg, nil
}
