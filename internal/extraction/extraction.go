package extraction

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// ErrNoPrice is returned when the discount marker is present but no price is shown.
var ErrNoPrice = errors.New("price element not found")

// Extractor classifies a rendered results page
type Extractor struct {
	Config *config.ExtractionConfig
}

// NewExtractor creates a new results page classifier
func NewExtractor(config *config.ExtractionConfig) *Extractor {
	return &Extractor{
		Config: config,
	}
}

// Classify returns the value for the price column: the no-flights sentinel,
// the no-discount sentinel, or the displayed price text.
func (e *Extractor) Classify(doc *goquery.Document) (string, error) {
	noFlights := doc.Find("li").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), e.Config.NoFlightsText)
	})
	if noFlights.Length() > 0 {
		return models.NoFlights, nil
	}

	discount := doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == e.Config.DiscountText
	})
	if discount.Length() == 0 {
		return models.NoDiscount, nil
	}

	price := strings.TrimSpace(doc.Find(e.Config.PriceSelector).First().Text())
	if price == "" {
		return "", ErrNoPrice
	}
	return price, nil
}

// ClassifyHTML parses html and classifies it.
func (e *Extractor) ClassifyHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return e.Classify(doc)
}

var amountRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParseAmount pulls the numeric amount out of a price string such as
// "USD 1,234.50". Sentinels and error text report false.
func ParseAmount(price string) (float64, bool) {
	match := amountRe.FindString(price)
	if match == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// IsOutcome reports whether a price column value is a page outcome (a price
// or a sentinel) rather than recorded error text. Error text always carries
// the "step: cause" form.
func IsOutcome(price string) bool {
	if price == models.NoFlights || price == models.NoDiscount {
		return true
	}
	if strings.Contains(price, ": ") {
		return false
	}
	_, ok := ParseAmount(price)
	return ok
}
