package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/internal/scraper"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Pool runs batches of queries on a fixed number of worker goroutines
type Pool struct {
	Config  *config.AppConfig
	Scraper scraper.Scraper
}

type job struct {
	index int
	req   models.SearchRequest
}

type output struct {
	index  int
	result models.SearchResult
}

// NewPool creates a new worker pool
func NewPool(config *config.AppConfig, s scraper.Scraper) *Pool {
	return &Pool{
		Config:  config,
		Scraper: s,
	}
}

// Run executes reqs and blocks until every worker is done. Results come back
// in the order of reqs. Jobs picked up after ctx is cancelled are not run.
func (p *Pool) Run(ctx context.Context, reqs []models.SearchRequest) []models.SearchResult {
	jobs := make(chan job, len(reqs))
	results := make(chan output, len(reqs))
	wg := &sync.WaitGroup{}

	workers := p.Config.Scraper.Workers
	if workers > len(reqs) {
		workers = len(reqs)
	}
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go p.worker(ctx, w, jobs, results, wg)
	}

	for i, req := range reqs {
		jobs <- job{index: i, req: req}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]models.SearchResult, len(reqs))
	for out := range results {
		ordered[out.index] = out.result
	}
	return ordered
}

// worker processes queries from the jobs channel and sends results to the results channel
func (p *Pool) worker(ctx context.Context, id int, jobs <-chan job, results chan<- output, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		if err := ctx.Err(); err != nil {
			results <- output{index: j.index, result: models.SearchResult{
				SearchRequest: j.req,
				Err:           err.Error(),
				Timestamp:     time.Now(),
				Interrupted:   true,
			}}
			continue
		}

		slog.Debug("processing query", "worker", id, "query", j.req.String())
		results <- output{index: j.index, result: p.Scraper.Search(ctx, j.req)}
	}
}
