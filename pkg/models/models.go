package models

import (
	"fmt"
	"time"
)

// DateLayout is the layout used for dates in config, output rows and screenshot names.
const DateLayout = "2006-01-02"

// Sentinel prices for recognised business outcomes.
const (
	NoFlights  = "no flights found"
	NoDiscount = "no discount available"
)

// SearchRequest is one round-trip price lookup.
type SearchRequest struct {
	Origin      string    `json:"outbound_airport"`
	Destination string    `json:"destination_airport"`
	Departure   time.Time `json:"start_date"`
	Return      time.Time `json:"return_date"`
	FareClass   string    `json:"fare_class,omitempty"`
	Promo       string    `json:"promo,omitempty"`
	Adults      int       `json:"adults,omitempty"`
}

// Nights returns the trip length in whole days.
func (r SearchRequest) Nights() int {
	return int(r.Return.Sub(r.Departure).Hours() / 24)
}

// Key identifies the query independently of fare class, promo and passengers.
func (r SearchRequest) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s",
		r.Origin, r.Destination,
		r.Departure.Format(DateLayout), r.Return.Format(DateLayout))
}

func (r SearchRequest) String() string {
	return fmt.Sprintf("%s->%s %s..%s",
		r.Origin, r.Destination,
		r.Departure.Format(DateLayout), r.Return.Format(DateLayout))
}

// SearchResult represents the outcome of one query
type SearchResult struct {
	SearchRequest
	Price      string        `json:"price"`
	Screenshot string        `json:"screenshot,omitempty"`
	Err        string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	Timestamp  time.Time     `json:"timestamp"`

	// Interrupted marks a query cut short by cancellation. Such results are
	// never recorded.
	Interrupted bool `json:"-"`
}

// Failed reports whether the query ended in an error rather than a page outcome.
func (r SearchResult) Failed() bool {
	return r.Err != ""
}
