package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/internal/extraction"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// ResultReader reads a previously written output table
type ResultReader struct {
	Config *config.IOConfig
}

// NewResultReader creates a new result reader
func NewResultReader(config *config.IOConfig) *ResultReader {
	return &ResultReader{
		Config: config,
	}
}

// ReadFromFile reads the rows of filename in the configured format.
func (r *ResultReader) ReadFromFile(filename string) ([]models.SearchResult, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch r.Config.OutputFormat {
	case "json":
		var results []models.SearchResult
		if err := json.NewDecoder(file).Decode(&results); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filename, err)
		}
		return results, nil

	case "csv":
		records, err := csv.NewReader(file).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		if len(records) == 0 {
			return nil, nil
		}
		if !slices.Equal(records[0], Columns) {
			return nil, fmt.Errorf("read %s: unexpected header %s", filename, strings.Join(records[0], ","))
		}
		results := make([]models.SearchResult, 0, len(records)-1)
		for i, record := range records[1:] {
			result, err := parseRecord(record)
			if err != nil {
				return nil, fmt.Errorf("read %s: row %d: %w", filename, i+2, err)
			}
			results = append(results, result)
		}
		return results, nil

	default:
		return nil, fmt.Errorf("unsupported output format: %s", r.Config.OutputFormat)
	}
}

func parseRecord(record []string) (models.SearchResult, error) {
	departure, err := time.Parse(models.DateLayout, record[2])
	if err != nil {
		return models.SearchResult{}, err
	}
	ret, err := time.Parse(models.DateLayout, record[3])
	if err != nil {
		return models.SearchResult{}, err
	}
	result := models.SearchResult{
		SearchRequest: models.SearchRequest{
			Origin:      record[0],
			Destination: record[1],
			Departure:   departure,
			Return:      ret,
		},
		Price: record[4],
	}
	// the CSV table only keeps the price column, so recorded errors are
	// recognised by their text
	if !extraction.IsOutcome(result.Price) {
		result.Err = result.Price
	}
	return result, nil
}
