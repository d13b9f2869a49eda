package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/williampepple1/fare-scraper/internal/enumerator"
	"github.com/williampepple1/fare-scraper/internal/scraper"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

func newPlanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Lists the queries a run would execute, without launching a browser.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			opts, err := enumerator.FromConfig(cfg)
			if err != nil {
				return err
			}
			reqs, err := enumerator.Expand(opts)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Batch", "Origin", "Destination", "Departure", "Return", "Nights", "Screenshot"})

			n := 0
			for b, batch := range enumerator.Batches(reqs) {
				for _, req := range batch {
					n++
					t.AppendRow(table.Row{
						n, b + 1, req.Origin, req.Destination,
						req.Departure.Format(models.DateLayout),
						req.Return.Format(models.DateLayout),
						req.Nights(),
						scraper.ScreenshotPath(cfg.Browser.ScreenshotDir, req),
					})
				}
				t.AppendSeparator()
			}
			t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", fmt.Sprintf("%d queries", len(reqs))})
			t.Render()
			return nil
		},
	}
}
