package scraper

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/internal/extraction"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// bookingForm mimics the booking site: type-ahead airport fields, a hidden
// passenger selector and a results page rendered some time after submit.
// An empty promo code yields the no-flights message.
const bookingForm = `<!DOCTYPE html>
<html><body>
<input id="T7-from"><input id="T7-to">
<input id="T7-departure_1"><input id="T7-arrival_1">
<button id="T7-passengers" type="button">Passengers</button>
<select id="adults" style="display:none">
	<option>1</option><option>2</option><option>3</option><option>4</option>
</select>
<input id="T7-promo">
<button id="T7-search" type="button">Search</button>
<ul id="messages"></ul>
<div id="results"></div>
<script>
for (const id of ["T7-from", "T7-to"]) {
	const el = document.getElementById(id);
	el.addEventListener("keydown", e => {
		if (e.key === "ArrowDown") el.dataset.highlighted = el.value;
		if (e.key === "Enter" && el.dataset.highlighted) el.dataset.accepted = el.dataset.highlighted;
	});
}
const adults = document.getElementById("adults");
adults.addEventListener("change", () => { adults.dataset.changed = adults.value; });
document.getElementById("T7-passengers").addEventListener("click", () => { adults.style.display = "block"; });
document.getElementById("T7-search").addEventListener("click", () => {
	const promo = document.getElementById("T7-promo").value;
	setTimeout(() => {
		if (promo === "") {
			document.getElementById("messages").innerHTML =
				"<li>There are currently no flight options for your search</li>";
			return;
		}
		document.getElementById("results").innerHTML =
			'<div id="flightDetailForm_outbound:calendarInitiator_OutBound"></div>' +
			'<span>(Taxes only)</span><span class="number">1,024</span>';
	}, 300);
});
</script>
</body></html>`

type formState struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Departure string `json:"departure"`
	Return    string `json:"return"`
	Adults    string `json:"adults"`
	Promo     string `json:"promo"`
}

const formStateScript = `({
	from: document.getElementById("T7-from").dataset.accepted || "",
	to: document.getElementById("T7-to").dataset.accepted || "",
	departure: document.getElementById("T7-departure_1").value,
	return: document.getElementById("T7-arrival_1").value,
	adults: document.getElementById("adults").dataset.changed || "",
	promo: document.getElementById("T7-promo").value,
})`

func findChrome() string {
	for _, name := range []string{
		"headless-shell", "chromium", "chromium-browser",
		"google-chrome", "google-chrome-stable",
	} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func launchFixture(t *testing.T) (*browserPage, *config.AppConfig) {
	t.Helper()
	if testing.Short() {
		t.Skip("browser test")
	}
	if findChrome() == "" {
		t.Skip("no Chrome binary found")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(bookingForm))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Browser.HomeURL = srv.URL
	cfg.Browser.WindowWidth = 1280
	cfg.Browser.WindowHeight = 800
	cfg.Scraper.WaitTimeout = 30 * time.Second
	cfg.Scraper.FieldDelay = 0

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	page, err := NewBrowserLauncher(cfg).Launch(ctx)
	require.NoError(t, err)
	t.Cleanup(page.Close)
	return page.(*browserPage), cfg
}

func fixtureRequest(adults int, promo string) models.SearchRequest {
	req := testRequest()
	req.Adults = adults
	req.Promo = promo
	return req
}

func TestBrowserPageFillsForm(t *testing.T) {
	page, _ := launchFixture(t)

	require.NoError(t, page.Open())
	require.NoError(t, page.Fill(fixtureRequest(3, "SPRING")))

	var state formState
	require.NoError(t, chromedp.Run(page.ctx, chromedp.Evaluate(formStateScript, &state)))
	require.Equal(t, formState{
		From:      "JFK",
		To:        "DOH",
		Departure: "01 Jan 2024",
		Return:    "08 Jan 2024",
		Adults:    "3",
		Promo:     "SPRING",
	}, state)
}

func TestBrowserPageWaitsForNoFlights(t *testing.T) {
	page, cfg := launchFixture(t)

	require.NoError(t, page.Open())
	require.NoError(t, page.Fill(fixtureRequest(2, "")))
	html, err := page.Submit()
	require.NoError(t, err)

	price, err := extraction.NewExtractor(&cfg.Extraction).ClassifyHTML(html)
	require.NoError(t, err)
	require.Equal(t, models.NoFlights, price)
}

func TestBrowserPageWaitsForResults(t *testing.T) {
	page, cfg := launchFixture(t)

	require.NoError(t, page.Open())
	require.NoError(t, page.Fill(fixtureRequest(2, "SPRING")))
	html, err := page.Submit()
	require.NoError(t, err)

	price, err := extraction.NewExtractor(&cfg.Extraction).ClassifyHTML(html)
	require.NoError(t, err)
	require.Equal(t, "1,024", price)

	shot, err := page.Screenshot()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(shot, []byte("\x89PNG")))
}

func TestBrowserPageOpenTimesOut(t *testing.T) {
	page, _ := launchFixture(t)
	page.homeURL = "about:blank"
	page.waitTimeout = 500 * time.Millisecond

	err := page.Open()
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Contains(t, err.Error(), "open search form")
}
