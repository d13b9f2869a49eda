package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/internal/extraction"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Scraper looks up the fare for a single query
type Scraper interface {
	Search(ctx context.Context, req models.SearchRequest) models.SearchResult
}

// FareScraper runs one query per browser and always leaves a screenshot behind
type FareScraper struct {
	Config    *config.AppConfig
	Launcher  Launcher
	Extractor *extraction.Extractor
}

// New creates a fare scraper backed by headless Chrome
func New(config *config.AppConfig) *FareScraper {
	return &FareScraper{
		Config:    config,
		Launcher:  NewBrowserLauncher(config),
		Extractor: extraction.NewExtractor(&config.Extraction),
	}
}

// ScreenshotPath is where the screenshot for req is written under dir.
func ScreenshotPath(dir string, req models.SearchRequest) string {
	name := fmt.Sprintf("%s-%s.png",
		req.Departure.Format(models.DateLayout),
		req.Return.Format(models.DateLayout))
	return filepath.Join(dir, req.Origin, req.Destination, name)
}

// Search runs the query. Failures never escape: they are reported through
// the result's Err, and through Price unless failed queries are omitted.
func (s *FareScraper) Search(ctx context.Context, req models.SearchRequest) models.SearchResult {
	start := time.Now()
	result := models.SearchResult{SearchRequest: req}

	page, err := s.Launcher.Launch(ctx)
	if err != nil {
		return s.finish(ctx, result, "", fmt.Errorf("launch browser: %w", err), start)
	}
	defer page.Close()

	price, err := s.query(page, req)

	path, shotErr := s.saveScreenshot(page, req)
	if shotErr != nil {
		slog.Warn("screenshot failed", "query", req.String(), "err", shotErr)
	} else {
		result.Screenshot = path
	}

	return s.finish(ctx, result, price, err, start)
}

func (s *FareScraper) query(page Page, req models.SearchRequest) (string, error) {
	if err := page.Open(); err != nil {
		return "", err
	}
	if err := page.Fill(req); err != nil {
		return "", err
	}
	html, err := page.Submit()
	if err != nil {
		return "", err
	}
	return s.Extractor.ClassifyHTML(html)
}

func (s *FareScraper) saveScreenshot(page Page, req models.SearchRequest) (string, error) {
	buf, err := page.Screenshot()
	if err != nil {
		return "", err
	}
	path := ScreenshotPath(s.Config.Browser.ScreenshotDir, req)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FareScraper) finish(ctx context.Context, result models.SearchResult, price string, err error, start time.Time) models.SearchResult {
	result.Price = price
	if err != nil {
		result.Err = err.Error()
		result.Price = ""
		switch {
		case ctx.Err() != nil && errors.Is(err, context.Canceled):
			result.Interrupted = true
		case !s.Config.Scraper.OmitFailed:
			result.Price = result.Err
		}
	}
	result.Duration = time.Since(start)
	result.Timestamp = time.Now()
	return result
}
