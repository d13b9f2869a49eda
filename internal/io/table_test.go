package io

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

func result(origin string, day, nights int, price string) models.SearchResult {
	dep := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return models.SearchResult{
		SearchRequest: models.SearchRequest{
			Origin:      origin,
			Destination: "DOH",
			Departure:   dep,
			Return:      dep.AddDate(0, 0, nights),
		},
		Price: price,
	}
}

func ioConfig(t *testing.T, format string) *config.IOConfig {
	return &config.IOConfig{
		OutputFile:   filepath.Join(t.TempDir(), "out", "prices."+format),
		OutputFormat: format,
	}
}

func TestAppendDropsBlankPrices(t *testing.T) {
	table := NewTable(ioConfig(t, "csv"))
	kept := table.Append(
		result("JFK", 1, 7, "1,024"),
		result("JFK", 1, 8, ""),
		result("JFK", 1, 9, "   "),
		result("JFK", 1, 10, models.NoFlights),
	)
	require.Equal(t, 2, kept)
	require.Equal(t, 2, table.Len())
	for _, r := range table.Rows() {
		require.NotEmpty(t, r.Price)
	}
	require.True(t, table.Has(result("JFK", 1, 7, "").SearchRequest))
	require.False(t, table.Has(result("JFK", 1, 8, "").SearchRequest))
}

func TestFlushCSVRewritesWholeFile(t *testing.T) {
	cfg := ioConfig(t, "csv")
	table := NewTable(cfg)

	table.Append(result("JFK", 1, 7, "1,024"))
	require.NoError(t, table.Flush())
	table.Append(result("JFK", 1, 8, models.NoDiscount))
	require.NoError(t, table.Flush())

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	expected := "outbound_airport,destination_airport,start_date,return_date,price\n" +
		"JFK,DOH,2024-01-01,2024-01-08,\"1,024\"\n" +
		"JFK,DOH,2024-01-01,2024-01-09,no discount available\n"
	require.Equal(t, expected, string(data))

	entries, err := os.ReadDir(filepath.Dir(cfg.OutputFile))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFlushEmptyTable(t *testing.T) {
	for _, format := range []string{"csv", "json"} {
		cfg := ioConfig(t, format)
		require.NoError(t, NewTable(cfg).Flush())
		rows, err := NewResultReader(cfg).ReadFromFile(cfg.OutputFile)
		require.NoError(t, err)
		require.Empty(t, rows)
	}
}

func TestReadBackCSV(t *testing.T) {
	cfg := ioConfig(t, "csv")
	table := NewTable(cfg)
	written := []models.SearchResult{
		result("JFK", 1, 7, "1,024"),
		result("EWR", 2, 19, models.NoFlights),
	}
	table.Append(written...)
	require.NoError(t, table.Flush())

	rows, err := NewResultReader(cfg).ReadFromFile(cfg.OutputFile)
	require.NoError(t, err)
	if diff := cmp.Diff(written, rows); diff != "" {
		t.Fatal(diff)
	}
}

func TestReadBackJSONKeepsDetails(t *testing.T) {
	cfg := ioConfig(t, "json")
	r := result("JFK", 3, 12, "fill search form: context deadline exceeded")
	r.Err = r.Price
	r.Screenshot = "screenshots/JFK/DOH/2024-01-03-2024-01-15.png"
	r.Duration = 3 * time.Second
	r.Timestamp = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	table := NewTable(cfg)
	table.Append(r)
	require.NoError(t, table.Flush())

	rows, err := NewResultReader(cfg).ReadFromFile(cfg.OutputFile)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, r.Screenshot, rows[0].Screenshot)
	require.Equal(t, r.Err, rows[0].Err)
	require.True(t, rows[0].Timestamp.Equal(r.Timestamp))
}

func TestReadRejectsForeignCSV(t *testing.T) {
	cfg := ioConfig(t, "csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755))
	require.NoError(t, os.WriteFile(cfg.OutputFile, []byte("a,b,c\n1,2,3\n"), 0644))
	_, err := NewResultReader(cfg).ReadFromFile(cfg.OutputFile)
	require.Error(t, err)
}

func TestLoadTableResume(t *testing.T) {
	cfg := ioConfig(t, "csv")
	first := NewTable(cfg)
	first.Append(result("JFK", 1, 7, "1,024"), result("JFK", 1, 8, models.NoFlights))
	require.NoError(t, first.Flush())

	fresh, err := LoadTable(cfg)
	require.NoError(t, err)
	require.Zero(t, fresh.Len())

	cfg.Resume = true
	resumed, err := LoadTable(cfg)
	require.NoError(t, err)
	require.Equal(t, 2, resumed.Len())
	require.True(t, resumed.Has(result("JFK", 1, 8, "").SearchRequest))

	cfg.OutputFile = filepath.Join(t.TempDir(), "missing.csv")
	empty, err := LoadTable(cfg)
	require.NoError(t, err)
	require.Zero(t, empty.Len())
}

func TestUnsupportedFormat(t *testing.T) {
	cfg := ioConfig(t, "xlsx")
	require.Error(t, NewTable(cfg).Flush())
}

func TestResumeRetriesRecordedErrors(t *testing.T) {
	cfg := ioConfig(t, "csv")
	first := NewTable(cfg)
	failed := result("JFK", 1, 9, "open search form: net::ERR_CONNECTION_RESET")
	failed.Err = failed.Price
	first.Append(result("JFK", 1, 8, "1,024"), failed, result("JFK", 1, 10, models.NoDiscount))
	require.NoError(t, first.Flush())

	cfg.Resume = true
	resumed, err := LoadTable(cfg)
	require.NoError(t, err)
	require.True(t, resumed.Has(result("JFK", 1, 8, "").SearchRequest))
	require.False(t, resumed.Has(failed.SearchRequest))
	require.True(t, resumed.Has(result("JFK", 1, 10, "").SearchRequest))

	// the retry replaces the error row in place
	require.Equal(t, 1, resumed.Append(result("JFK", 1, 9, "980")))
	require.Equal(t, 3, resumed.Len())
	require.Equal(t, "980", resumed.Rows()[1].Price)
	require.True(t, resumed.Has(failed.SearchRequest))
}
