package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Columns is the CSV header of the output table.
var Columns = []string{"outbound_airport", "destination_airport", "start_date", "return_date", "price"}

// ResultWriter writes the output table
type ResultWriter struct {
	Config *config.IOConfig
}

// NewResultWriter creates a new result writer
func NewResultWriter(config *config.IOConfig) *ResultWriter {
	return &ResultWriter{
		Config: config,
	}
}

// SaveToFile replaces the output file with results in the configured format.
func (w *ResultWriter) SaveToFile(results []models.SearchResult) error {
	var data []byte
	var err error

	switch w.Config.OutputFormat {
	case "json":
		if results == nil {
			results = []models.SearchResult{}
		}
		data, err = json.MarshalIndent(results, "", "  ")
	case "csv":
		data, err = encodeCSV(results)
	default:
		return fmt.Errorf("unsupported output format: %s", w.Config.OutputFormat)
	}
	if err != nil {
		return err
	}

	return writeAtomic(w.Config.OutputFile, data)
}

func encodeCSV(results []models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(Columns); err != nil {
		return nil, err
	}
	for _, r := range results {
		record := []string{
			r.Origin,
			r.Destination,
			r.Departure.Format(models.DateLayout),
			r.Return.Format(models.DateLayout),
			r.Price,
		}
		if err := cw.Write(record); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

// writeAtomic replaces filename in one rename, so an interrupted flush leaves
// the previous table intact.
func writeAtomic(filename string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return renameio.WriteFile(filename, data, 0644)
}
