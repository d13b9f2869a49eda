package runner

import (
	"fmt"
	stdio "io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/williampepple1/fare-scraper/internal/extraction"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// RouteStats aggregates the results of one origin/destination pair.
type RouteStats struct {
	Origin      string
	Destination string
	Queries     int
	Priced      int
	NoFlights   int
	NoDiscount  int
	Failed      int
	Cheapest    *models.SearchResult
	cheapestAmt float64
}

// Summary counts outcomes across a run.
type Summary struct {
	Queries    int
	Priced     int
	NoFlights  int
	NoDiscount int
	Failed     int
	Skipped    int // already in the table when resuming
	Dropped    int // not written because the price was blank

	Routes []*RouteStats
	routes map[string]*RouteStats
}

func NewSummary() *Summary {
	return &Summary{routes: make(map[string]*RouteStats)}
}

func (s *Summary) route(req models.SearchRequest) *RouteStats {
	key := req.Origin + "/" + req.Destination
	rs, ok := s.routes[key]
	if !ok {
		rs = &RouteStats{Origin: req.Origin, Destination: req.Destination}
		s.routes[key] = rs
		s.Routes = append(s.Routes, rs)
	}
	return rs
}

// Add records results.
func (s *Summary) Add(results ...models.SearchResult) {
	for _, r := range results {
		rs := s.route(r.SearchRequest)
		s.Queries++
		rs.Queries++

		switch {
		case r.Failed():
			s.Failed++
			rs.Failed++
		case r.Price == models.NoFlights:
			s.NoFlights++
			rs.NoFlights++
		case r.Price == models.NoDiscount:
			s.NoDiscount++
			rs.NoDiscount++
		default:
			s.Priced++
			rs.Priced++
			amount, ok := extraction.ParseAmount(r.Price)
			if ok && (rs.Cheapest == nil || amount < rs.cheapestAmt) {
				cheapest := r
				rs.Cheapest = &cheapest
				rs.cheapestAmt = amount
			}
		}
	}
}

// Render writes the per-route table followed by totals.
func (s *Summary) Render(w stdio.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Route", "Queries", "Priced", "No flights", "No discount", "Failed", "Cheapest", "Dates"})

	for _, rs := range s.Routes {
		cheapest, dates := "-", "-"
		if rs.Cheapest != nil {
			cheapest = rs.Cheapest.Price
			dates = fmt.Sprintf("%s..%s",
				rs.Cheapest.Departure.Format(models.DateLayout),
				rs.Cheapest.Return.Format(models.DateLayout))
		}
		t.AppendRow(table.Row{
			rs.Origin + " → " + rs.Destination,
			rs.Queries, rs.Priced, rs.NoFlights, rs.NoDiscount, rs.Failed,
			cheapest, dates,
		})
	}
	t.AppendFooter(table.Row{"Total", s.Queries, s.Priced, s.NoFlights, s.NoDiscount, s.Failed,
		fmt.Sprintf("skipped %d", s.Skipped), fmt.Sprintf("dropped %d", s.Dropped)})
	t.Render()
}
