package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/williampepple1/fare-scraper/pkg/models"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Flights    FlightConfig     `yaml:",inline"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Browser    BrowserConfig    `yaml:"browser"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Proxies    ProxyConfig      `yaml:"proxies"`
	IO         IOConfig         `yaml:"io"`
}

// FlightConfig is the search matrix. Its keys live at the top level of the file.
type FlightConfig struct {
	OutboundAirports    []string `yaml:"outbound_airports"`
	DestinationAirports []string `yaml:"destination_airports"`
	StartOutboundDate   string   `yaml:"start_outbound_date"`
	EndOutboundDate     string   `yaml:"end_outbound_date"`
	Promo               string   `yaml:"promo"`
}

// ScraperConfig holds the query executor and worker settings
type ScraperConfig struct {
	Workers     int           `yaml:"workers"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
	FieldDelay  time.Duration `yaml:"field_delay"`
	// OmitFailed drops errored queries from the output instead of writing
	// the error text into the price column.
	OmitFailed  bool   `yaml:"omit_failed"`
	MinTripDays int    `yaml:"min_trip_days"`
	MaxTripDays int    `yaml:"max_trip_days"`
	FareClass   string `yaml:"fare_class"`
	Adults      int    `yaml:"adults"`
}

// BrowserConfig holds the headless browser configuration
type BrowserConfig struct {
	Headless      bool   `yaml:"headless"`
	HomeURL       string `yaml:"home_url"`
	UserAgent     string `yaml:"user_agent"`
	WindowWidth   int    `yaml:"window_width"`
	WindowHeight  int    `yaml:"window_height"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// ExtractionConfig holds the markers used to classify a results page
type ExtractionConfig struct {
	NoFlightsText string `yaml:"no_flights_text"`
	DiscountText  string `yaml:"discount_text"`
	PriceSelector string `yaml:"price_selector"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
}

// IOConfig holds the output configuration
type IOConfig struct {
	OutputFile   string `yaml:"output_file"`
	OutputFormat string `yaml:"output_format"`
	Resume       bool   `yaml:"resume"`
}

// Load reads filename on top of the defaults, then merges <name>.local.<ext>
// over it when that file exists.
func Load(filename string) (*AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	local := localPath(filename)
	data, err = os.ReadFile(local)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		var override AppConfig
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("parse %s: %w", local, err)
		}
		// mergo skips zero values, so a local file cannot switch a flag off.
		if err := mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s: %w", local, err)
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	return cfg, nil
}

func localPath(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + ".local" + ext
}

// Validate checks the values the enumerator and runner depend on.
func (c *AppConfig) Validate() error {
	if len(c.Flights.OutboundAirports) == 0 {
		return errors.New("outbound_airports must not be empty")
	}
	if len(c.Flights.DestinationAirports) == 0 {
		return errors.New("destination_airports must not be empty")
	}
	if _, _, err := c.Flights.Window(); err != nil {
		return err
	}
	if c.Scraper.Workers < 1 {
		return fmt.Errorf("scraper.workers must be at least 1, got %d", c.Scraper.Workers)
	}
	if c.Scraper.MinTripDays < 0 || c.Scraper.MaxTripDays < c.Scraper.MinTripDays {
		return fmt.Errorf("invalid trip length range %d..%d", c.Scraper.MinTripDays, c.Scraper.MaxTripDays)
	}
	switch c.IO.OutputFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("unsupported output format: %s", c.IO.OutputFormat)
	}
	return nil
}

// Window parses the outbound date range. The end date is exclusive.
func (f FlightConfig) Window() (time.Time, time.Time, error) {
	start, err := time.Parse(models.DateLayout, f.StartOutboundDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_outbound_date: %w", err)
	}
	end, err := time.Parse(models.DateLayout, f.EndOutboundDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_outbound_date: %w", err)
	}
	return start, end, nil
}
