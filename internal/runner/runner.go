// Package runner drives batches of queries through the worker pool and
// flushes the output table after each batch.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/williampepple1/fare-scraper/internal/enumerator"
	"github.com/williampepple1/fare-scraper/internal/io"
	"github.com/williampepple1/fare-scraper/internal/worker"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Runner owns the output table. Only the runner flushes it, and only after a
// batch has fully joined.
type Runner struct {
	Pool  *worker.Pool
	Table *io.Table
	// Progress is optional.
	Progress progress.Writer
}

// New creates a runner
func New(pool *worker.Pool, table *io.Table) *Runner {
	return &Runner{Pool: pool, Table: table}
}

// Run executes reqs batch by batch. Query failures never stop the run; a
// failed flush does. When ctx is cancelled the current batch is flushed
// without its interrupted queries and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context, reqs []models.SearchRequest) (*Summary, error) {
	summary := NewSummary()
	tracker := &progress.Tracker{
		Message: "queries",
		Total:   int64(len(reqs)),
		Units:   progress.UnitsDefault,
	}
	if r.Progress != nil {
		r.Progress.AppendTracker(tracker)
	}
	defer tracker.MarkAsDone()

	for _, batch := range enumerator.Batches(reqs) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var pending []models.SearchRequest
		for _, req := range batch {
			if r.Table.Has(req) {
				summary.Skipped++
				continue
			}
			pending = append(pending, req)
		}
		if len(pending) == 0 {
			tracker.Increment(int64(len(batch)))
			continue
		}

		results := completed(r.Pool.Run(ctx, pending))
		summary.Add(results...)

		kept := r.Table.Append(results...)
		summary.Dropped += len(results) - kept

		if err := r.Table.Flush(); err != nil {
			return summary, fmt.Errorf("flush output: %w", err)
		}

		head := batch[0]
		slog.Info("batch done",
			"route", head.Origin+"-"+head.Destination,
			"departure", head.Departure.Format(models.DateLayout),
			"queries", len(pending),
			"recorded", kept,
			"rows", r.Table.Len())
		tracker.Increment(int64(len(batch)))
	}

	return summary, ctx.Err()
}

// completed drops results cut short by cancellation. Queries that failed on
// their own before the cancel are kept.
func completed(results []models.SearchResult) []models.SearchResult {
	var out []models.SearchResult
	for _, r := range results {
		if !r.Interrupted {
			out = append(out, r)
		}
	}
	return out
}
