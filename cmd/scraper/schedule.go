package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newScheduleCmd(flags *globalFlags) *cobra.Command {
	var spec string
	var immediately bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-runs the sweep on a cron schedule until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// the config is validated up front and re-read before every sweep
			if _, err := loadConfig(flags); err != nil {
				return err
			}

			return runSchedule(ctx, spec, immediately, func() {
				cfg, err := loadConfig(flags)
				if err != nil {
					return
				}
				summary, err := sweep(ctx, cfg, false)
				if errors.Is(err, context.Canceled) {
					slog.Info("scheduled sweep interrupted", "output", cfg.IO.OutputFile)
					return
				}
				if err != nil {
					slog.Error("scheduled sweep failed", "err", err)
					return
				}
				slog.Info("scheduled sweep done",
					"queries", summary.Queries,
					"priced", summary.Priced,
					"failed", summary.Failed,
					"output", cfg.IO.OutputFile)
			})
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "@every 24h", "Cron spec, e.g. \"0 6 * * *\" or \"@every 12h\"")
	cmd.Flags().BoolVar(&immediately, "now", true, "Also run one sweep right away")
	return cmd
}

// runSchedule runs job on spec until ctx is done, then waits for every
// running job, including the immediate one, before returning.
func runSchedule(ctx context.Context, spec string, immediately bool, job func()) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	id, err := c.AddFunc(spec, job)
	if err != nil {
		return err
	}

	c.Start()
	slog.Info("scheduler started", "spec", spec)

	// cron only tracks the jobs it starts itself
	var wg sync.WaitGroup
	if immediately {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Entry(id).WrappedJob.Run()
		}()
	}

	<-ctx.Done()
	slog.Info("stopping scheduler, waiting for the running sweep")
	<-c.Stop().Done()
	wg.Wait()
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
