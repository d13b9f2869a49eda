// Package enumerator expands a search matrix into individual queries.
package enumerator

import (
	"fmt"
	"time"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Options describes the search matrix.
type Options struct {
	Origins      []string
	Destinations []string
	Start        time.Time // first departure date
	End          time.Time // exclusive
	MinTripDays  int
	MaxTripDays  int
	FareClass    string
	Promo        string
	Adults       int
}

// FromConfig builds Options from the loaded configuration.
func FromConfig(cfg *config.AppConfig) (Options, error) {
	start, end, err := cfg.Flights.Window()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Origins:      cfg.Flights.OutboundAirports,
		Destinations: cfg.Flights.DestinationAirports,
		Start:        start,
		End:          end,
		MinTripDays:  cfg.Scraper.MinTripDays,
		MaxTripDays:  cfg.Scraper.MaxTripDays,
		FareClass:    cfg.Scraper.FareClass,
		Promo:        cfg.Flights.Promo,
		Adults:       cfg.Scraper.Adults,
	}, nil
}

// StartDates returns every departure date in [Start, End).
func (o Options) StartDates() []time.Time {
	var dates []time.Time
	for d := o.Start; d.Before(o.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Expand returns every (origin, destination, departure, return) combination,
// origin-major, then destination, then departure date, then trip length.
func Expand(o Options) ([]models.SearchRequest, error) {
	if o.MinTripDays < 0 || o.MaxTripDays < o.MinTripDays {
		return nil, fmt.Errorf("invalid trip length range %d..%d", o.MinTripDays, o.MaxTripDays)
	}

	dates := o.StartDates()
	trips := o.MaxTripDays - o.MinTripDays + 1
	reqs := make([]models.SearchRequest, 0, len(o.Origins)*len(o.Destinations)*len(dates)*trips)

	for _, origin := range o.Origins {
		for _, destination := range o.Destinations {
			for _, departure := range dates {
				for days := o.MinTripDays; days <= o.MaxTripDays; days++ {
					reqs = append(reqs, models.SearchRequest{
						Origin:      origin,
						Destination: destination,
						Departure:   departure,
						Return:      departure.AddDate(0, 0, days),
						FareClass:   o.FareClass,
						Promo:       o.Promo,
						Adults:      o.Adults,
					})
				}
			}
		}
	}
	return reqs, nil
}

// Batches splits reqs into runs of consecutive requests sharing origin,
// destination and departure date. Each batch is flushed to the output together.
func Batches(reqs []models.SearchRequest) [][]models.SearchRequest {
	var batches [][]models.SearchRequest
	begin := 0
	for i := 1; i <= len(reqs); i++ {
		if i < len(reqs) && sameBatch(reqs[begin], reqs[i]) {
			continue
		}
		batches = append(batches, reqs[begin:i])
		begin = i
	}
	return batches
}

func sameBatch(a, b models.SearchRequest) bool {
	return a.Origin == b.Origin &&
		a.Destination == b.Destination &&
		a.Departure.Equal(b.Departure)
}
