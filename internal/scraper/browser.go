package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/williampepple1/fare-scraper/internal/config"
	"github.com/williampepple1/fare-scraper/internal/proxy"
	"github.com/williampepple1/fare-scraper/pkg/models"
)

// Page is one browser tab pointed at the booking site.
type Page interface {
	// Open loads the home page and waits for the search form.
	Open() error
	// Fill populates the search form for req.
	Fill(req models.SearchRequest) error
	// Submit sends the form and returns the page HTML once results or the
	// no-flights message are shown.
	Submit() (string, error)
	// Screenshot captures the full page as PNG.
	Screenshot() ([]byte, error)
	Close()
}

// Launcher starts an isolated browser for a single query.
type Launcher interface {
	Launch(ctx context.Context) (Page, error)
}

// BrowserLauncher launches headless Chrome through chromedp
type BrowserLauncher struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
}

// NewBrowserLauncher creates a new chromedp launcher
func NewBrowserLauncher(config *config.AppConfig) *BrowserLauncher {
	return &BrowserLauncher{
		Config: config,
		Proxy:  proxy.NewManager(&config.Proxies),
	}
}

// Launch starts a fresh Chrome process. The browser lives until Close.
func (l *BrowserLauncher) Launch(ctx context.Context) (Page, error) {
	browser := l.Config.Browser

	// Configure browser options
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", browser.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(browser.UserAgent),
		chromedp.WindowSize(browser.WindowWidth, browser.WindowHeight),
	)

	server, err := l.Proxy.Next()
	if err != nil {
		return nil, err
	}
	if server != "" {
		opts = append(opts, chromedp.ProxyServer(server))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, err
	}

	return &browserPage{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		homeURL:       browser.HomeURL,
		noFlightsText: l.Config.Extraction.NoFlightsText,
		waitTimeout:   l.Config.Scraper.WaitTimeout,
		fieldDelay:    l.Config.Scraper.FieldDelay,
	}, nil
}

type browserPage struct {
	ctx    context.Context
	cancel context.CancelFunc

	homeURL       string
	noFlightsText string
	waitTimeout   time.Duration
	fieldDelay    time.Duration
}

func (p *browserPage) run(what string, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.waitTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, actions...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func (p *browserPage) Open() error {
	return p.run("open search form",
		chromedp.Navigate(p.homeURL),
		chromedp.WaitVisible(FromInputID, chromedp.ByID),
	)
}

// typeAhead types text and accepts the first suggestion.
func (p *browserPage) typeAhead(id, text string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Clear(id, chromedp.ByID),
		chromedp.SendKeys(id, text, chromedp.ByID),
		chromedp.SendKeys(id, kb.ArrowDown+kb.Enter, chromedp.ByID),
		chromedp.Sleep(p.fieldDelay),
	}
}

func (p *browserPage) typeText(id, text string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Clear(id, chromedp.ByID),
		chromedp.SendKeys(id, text, chromedp.ByID),
		chromedp.Sleep(p.fieldDelay),
	}
}

// selectIndex picks the option at index in a <select> and fires its change event.
func selectIndex(id string, index int) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var ok bool
		if err := chromedp.Evaluate(fmt.Sprintf(selectIndexScript, id, index, index), &ok).Do(ctx); err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("select #%s: no option at index %d", id, index)
		}
		return nil
	})
}

func (p *browserPage) Fill(req models.SearchRequest) error {
	adults := req.Adults
	if adults < 1 {
		adults = 1
	}
	return p.run("fill search form",
		p.typeAhead(FromInputID, req.Origin),
		p.typeAhead(ToInputID, req.Destination),
		p.typeText(DepartureInputID, req.Departure.Format(FormDateLayout)),
		p.typeText(ReturnInputID, req.Return.Format(FormDateLayout)),
		chromedp.Click(PassengersID, chromedp.ByID),
		chromedp.WaitVisible(AdultsSelectID, chromedp.ByID),
		selectIndex(AdultsSelectID, adults-1),
		chromedp.Sleep(p.fieldDelay),
		p.typeText(PromoInputID, req.Promo),
	)
}

func (p *browserPage) Submit() (string, error) {
	if err := p.run("submit search",
		chromedp.Click(SearchButtonID, chromedp.ByID),
		chromedp.Sleep(p.fieldDelay),
	); err != nil {
		return "", err
	}

	var marker, html string
	if err := p.run("wait for results",
		chromedp.Poll(
			fmt.Sprintf(outcomeScript, ResultsMarkerID, p.noFlightsText),
			&marker,
			chromedp.WithPollingTimeout(p.waitTimeout),
		),
	); err != nil {
		return "", err
	}
	err := p.run("read results page", chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *browserPage) Screenshot() ([]byte, error) {
	var buf []byte
	// quality 100 produces PNG
	err := p.run("capture screenshot", chromedp.FullScreenshot(&buf, 100))
	return buf, err
}

func (p *browserPage) Close() {
	p.cancel()
}
