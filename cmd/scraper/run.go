package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/internal/enumerator"
	"github.com/williampepple1/fare-scraper/internal/io"
	"github.com/williampepple1/fare-scraper/internal/runner"
	"github.com/williampepple1/fare-scraper/internal/scraper"
	"github.com/williampepple1/fare-scraper/internal/worker"
)

type runOptions struct {
	noProgress bool
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noProgress, "no-progress", false, "Disable the progress bar")
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs one sweep over every configured query and writes the output table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, flags, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runOnce(cmd *cobra.Command, flags *globalFlags, opts *runOptions) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	summary, err := sweep(cmd.Context(), cfg, !opts.noProgress)
	if summary != nil {
		summary.Render(cmd.OutOrStdout())
	}
	switch {
	case errors.Is(err, context.Canceled):
		slog.Warn("interrupted, partial results saved", "output", cfg.IO.OutputFile)
		return nil
	case err != nil:
		slog.Error("sweep failed", "err", err)
		return err
	}
	slog.Info("results saved", "output", cfg.IO.OutputFile)
	return nil
}

// sweep expands the configured matrix and runs every query once.
func sweep(ctx context.Context, cfg *config.AppConfig, showProgress bool) (*runner.Summary, error) {
	opts, err := enumerator.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	reqs, err := enumerator.Expand(opts)
	if err != nil {
		return nil, err
	}

	table, err := io.LoadTable(&cfg.IO)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(cfg, scraper.New(cfg))
	r := runner.New(pool, table)

	if showProgress {
		pw := newProgressWriter()
		r.Progress = pw
		go pw.Render()
		defer stopProgress(pw)
	}

	slog.Info("starting sweep",
		"queries", len(reqs),
		"workers", cfg.Scraper.Workers,
		"resumed_rows", table.Len(),
		"output", cfg.IO.OutputFile)

	return r.Run(ctx, reqs)
}

func newProgressWriter() progress.Writer {
	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(500 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	return pw
}

func stopProgress(pw progress.Writer) {
	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(50 * time.Millisecond)
	}
}
