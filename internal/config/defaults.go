package config

import "time"

// DefaultUserAgent is sent by every browser session unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/82.0.4103.61 Safari/537.36"

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "config.yaml"

// Default creates the configuration every loaded file is applied on top of.
func Default() *AppConfig {
	return &AppConfig{
		Scraper: ScraperConfig{
			Workers:     1,
			WaitTimeout: 300 * time.Second,
			FieldDelay:  500 * time.Millisecond,
			MinTripDays: 7,
			MaxTripDays: 19,
			FareClass:   "economy",
			Adults:      2,
		},
		Browser: BrowserConfig{
			Headless:      true,
			HomeURL:       "https://www.qatarairways.com/en/homepage.html",
			UserAgent:     DefaultUserAgent,
			WindowWidth:   2560,
			WindowHeight:  1440,
			ScreenshotDir: "screenshots",
		},
		Extraction: ExtractionConfig{
			NoFlightsText: "There are currently no flight options",
			DiscountText:  "(Taxes only)",
			PriceSelector: ".number",
		},
		Proxies: ProxyConfig{
			Rotate: true,
		},
		IO: IOConfig{
			OutputFile:   "prices.csv",
			OutputFormat: "csv",
		},
	}
}
