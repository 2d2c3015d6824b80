// Package analytics scrapes a form's public response-summary page for
// aggregate counts and a sentiment read of the free-text answers it shows.
// Summaries are private unless the form owner opted in, so an
// authentication wall is an expected outcome, not a failure.
package analytics

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/evaly/formimport/browser"
	"github.com/evaly/formimport/config"
	"github.com/evaly/formimport/engine"
	"github.com/evaly/formimport/fetch"
	"github.com/evaly/formimport/models"
	"github.com/evaly/formimport/sentiment"
)

// Summary is the result of scraping one response-summary page.
type Summary struct {
	SourceID      string             `json:"sourceId"`
	URL           string             `json:"url"`
	ResponseCount int                `json:"responseCount"`
	IsPrivate     bool               `json:"isPrivate"`
	Diagnostics   models.Diagnostics `json:"diagnostics"`

	// Feedback is the sentiment breakdown of the free-text answers visible
	// on the summary page. Nil when the page is private or shows none.
	Feedback *sentiment.Report `json:"feedback,omitempty"`
}

// Scraper applies the orchestrator pattern to the response-summary page:
// browser first, static fetch as fallback.
type Scraper struct {
	driver    browser.Launcher
	fetcher   engine.Fetcher
	analyzer  *sentiment.Analyzer
	cfg       config.ExtractorConfig
	browserOn bool
}

// NewScraper creates a Scraper. driver may be nil when browser automation
// is disabled.
func NewScraper(driver browser.Launcher, fetcher engine.Fetcher, cfg *config.Config) *Scraper {
	return &Scraper{
		driver:    driver,
		fetcher:   fetcher,
		analyzer:  sentiment.NewAnalyzer(),
		cfg:       cfg.Extractor,
		browserOn: cfg.Browser.Enabled && driver != nil,
	}
}

var reResponseCount = regexp.MustCompile(`(?i)(\d[\d,]*)\s+responses?`)

// Scrape loads the form's response-summary page and reads the aggregate
// response count. A page behind an authentication wall yields IsPrivate
// with zero responses and no error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MaxTimeout)
	defer cancel()

	target := AnalyticsURL(rawURL)
	sourceID, err := engine.DeriveSourceID(target)
	if err != nil {
		return nil, err
	}

	summary := &Summary{SourceID: sourceID, URL: target}

	rawHTML, err := s.loadPage(ctx, target, &summary.Diagnostics)
	if err != nil {
		return nil, &models.ExtractError{
			Code:     models.ErrCodeStrategyExhausted,
			Message:  "response summary page could not be loaded",
			Err:      err,
			Warnings: summary.Diagnostics.Warnings,
		}
	}

	inspect(rawHTML, summary)
	if !summary.IsPrivate {
		if blocks := freeTextBlocks(rawHTML); len(blocks) > 0 {
			summary.Feedback = s.analyzer.GenerateReport(blocks)
		}
	}
	return summary, nil
}

// loadPage renders the page via the browser when available and falls back
// to a static fetch.
func (s *Scraper) loadPage(ctx context.Context, target string, diag *models.Diagnostics) (string, error) {
	if s.browserOn {
		rawHTML, err := s.loadRendered(ctx, target)
		if err == nil {
			return rawHTML, nil
		}
		slog.Warn("browser load of response summary failed, falling back to static fetch",
			"url", target, "error", err)
		diag.AddWarning("browser load failed: " + err.Error())
	}
	return s.fetcher.FetchHTML(ctx, target)
}

func (s *Scraper) loadRendered(ctx context.Context, target string) (string, error) {
	sess, err := s.driver.Open(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	page, err := sess.Navigate(ctx, target)
	if err != nil {
		return "", err
	}
	return page.HTML()
}

// inspect reads the visible text of the summary page, detecting auth walls
// and parsing the response count.
func inspect(rawHTML string, summary *Summary) {
	text := fetch.ExtractVisibleText([]byte(rawHTML))
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "you need permission"),
		strings.Contains(lower, "request access"),
		strings.Contains(lower, "sign in") && strings.Contains(lower, "google"):
		summary.IsPrivate = true
		summary.Diagnostics.AddWarning("response summary requires authentication")
		return
	}

	if m := reResponseCount.FindStringSubmatch(text); m != nil {
		digits := strings.ReplaceAll(m[1], ",", "")
		if n, err := strconv.Atoi(digits); err == nil {
			summary.ResponseCount = n
			return
		}
	}
	if strings.Contains(lower, "waiting for responses") {
		return
	}
	summary.Diagnostics.AddWarning("no response count found on summary page")
}
