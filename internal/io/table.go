package io

import (
	"errors"
	"os"
	"strings"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Table is the ordered, append-only output table. Every Flush rewrites the
// whole file from memory.
type Table struct {
	Writer *ResultWriter
	rows   []models.SearchResult
	index  map[string]int
}

// NewTable creates an empty table
func NewTable(config *config.IOConfig) *Table {
	return &Table{
		Writer: NewResultWriter(config),
		index:  make(map[string]int),
	}
}

// LoadTable creates a table, seeded with the existing output file when resuming.
func LoadTable(config *config.IOConfig) (*Table, error) {
	t := NewTable(config)
	if !config.Resume {
		return t, nil
	}

	rows, err := NewResultReader(config).ReadFromFile(config.OutputFile)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	t.Append(rows...)
	return t, nil
}

// Append adds results with a non-blank price and returns how many were kept.
// A result for a query already in the table replaces that row in place.
func (t *Table) Append(results ...models.SearchResult) int {
	kept := 0
	for _, r := range results {
		if strings.TrimSpace(r.Price) == "" {
			continue
		}
		if i, ok := t.index[r.Key()]; ok {
			t.rows[i] = r
		} else {
			t.index[r.Key()] = len(t.rows)
			t.rows = append(t.rows, r)
		}
		kept++
	}
	return kept
}

// Has reports whether req already has a page outcome in the table. Rows
// holding error text do not count, so a resumed run retries them.
func (t *Table) Has(req models.SearchRequest) bool {
	i, ok := t.index[req.Key()]
	return ok && !t.rows[i].Failed()
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in insertion order
func (t *Table) Rows() []models.SearchResult {
	return append([]models.SearchResult(nil), t.rows...)
}

// Flush writes every row to the output file.
func (t *Table) Flush() error {
	return t.Writer.SaveToFile(t.rows)
}
