// Package engine coordinates the extraction strategies. Strategies run
// strictly sequentially in fixed priority order; only one needs to succeed,
// and running several at once would waste browser resources and risk
// double-counting side effects.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evaly/formimport/browser"
	"github.com/evaly/formimport/config"
	"github.com/evaly/formimport/extract"
	"github.com/evaly/formimport/fetch"
	"github.com/evaly/formimport/models"
	"github.com/evaly/formimport/parser"
)

// runtimeBlobJS reads the form definition blob the source page embeds for
// its own renderer.
const runtimeBlobJS = `() => {
	try {
		const data = window.FB_PUBLIC_LOAD_DATA_;
		return data === undefined || data === null ? null : JSON.stringify(data);
	} catch (e) {
		return null;
	}
}`

// ImportLookup is the duplicate-detection collaborator, owned by the
// persistence layer. It must be an idempotent read; a concurrent extraction
// of the same source before persistence completes may race, which is an
// accepted limitation.
type ImportLookup interface {
	FindExistingImportBySourceID(ctx context.Context, sourceID string) (bool, error)
}

// Fetcher is the static HTTP collaborator used by the last-resort strategy
// and for short-link resolution.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
	ResolveShortLink(ctx context.Context, url string) (string, error)
}

// Orchestrator runs the strategy fallback chain for one URL at a time. It
// holds no state between calls; each call opens and tears down its own
// browser session.
type Orchestrator struct {
	driver    browser.Launcher
	fetcher   Fetcher
	lookup    ImportLookup
	cfg       config.ExtractorConfig
	browserOn bool
}

// New creates an Orchestrator. driver may be nil when browser automation is
// disabled; lookup may be nil when duplicate detection is not wanted.
func New(driver browser.Launcher, fetcher Fetcher, lookup ImportLookup, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		driver:    driver,
		fetcher:   fetcher,
		lookup:    lookup,
		cfg:       cfg.Extractor,
		browserOn: cfg.Browser.Enabled && driver != nil,
	}
}

// Extract resolves the URL, derives the source id, checks for a prior
// import, and runs the strategies in priority order until one yields
// questions. It returns a fully-populated form or a typed ExtractError,
// never a partial merge of attempts.
func (o *Orchestrator) Extract(ctx context.Context, rawURL string) (*models.ExtractedForm, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.MaxTimeout)
	defer cancel()

	target := rawURL
	if fetch.IsShortLink(rawURL) {
		resolved, err := o.fetcher.ResolveShortLink(ctx, rawURL)
		if err != nil {
			return nil, models.NewExtractError(
				models.ErrCodeInvalidSourceURL,
				"short link could not be resolved",
				err,
			)
		}
		slog.Debug("short link resolved", "from", rawURL, "to", resolved)
		target = resolved
	}

	sourceID, err := DeriveSourceID(target)
	if err != nil {
		return nil, err
	}

	diag := models.Diagnostics{}
	if sourceID == models.SourceIDUnknown {
		diag.AddWarning("no stable source id could be derived; duplicate check skipped")
	} else if o.lookup != nil {
		exists, lookupErr := o.lookup.FindExistingImportBySourceID(ctx, sourceID)
		if lookupErr != nil {
			slog.Warn("duplicate check failed, continuing without it",
				"sourceId", sourceID, "error", lookupErr)
			diag.AddWarning("duplicate check failed: " + lookupErr.Error())
		} else if exists {
			return nil, models.NewExtractError(
				models.ErrCodeAlreadyImported,
				fmt.Sprintf("form %s was already imported", sourceID),
				nil,
			)
		}
	}

	src := &sessionSource{driver: o.driver}
	defer src.close()

	form, err := runFallback(ctx, o.strategies(src, target), &diag)
	if err != nil {
		return nil, err
	}
	form.SourceID = sourceID
	form.Diagnostics = diag
	return form, nil
}

// strategyRun is one self-contained extraction attempt.
type strategyRun struct {
	name models.StrategyName
	run  func(ctx context.Context) (*models.ExtractedForm, error)
}

// strategies builds the per-call strategy chain. The two browser strategies
// share one lazily-opened session via src.
func (o *Orchestrator) strategies(src *sessionSource, target string) []strategyRun {
	var runs []strategyRun
	if o.browserOn {
		runs = append(runs,
			strategyRun{
				name: models.StrategyBrowserRuntime,
				run: func(ctx context.Context) (*models.ExtractedForm, error) {
					page, err := src.page(ctx, target)
					if err != nil {
						return nil, err
					}
					res, err := page.Eval(runtimeBlobJS)
					if err != nil {
						return nil, err
					}
					if res.Nil() {
						return nil, fmt.Errorf("runtime blob not present in page")
					}
					form := parser.ParseRuntimeBlob(res.Str())
					form.Diagnostics.PagesTraversed = 1
					return form, nil
				},
			},
			strategyRun{
				name: models.StrategyBrowserDOM,
				run: func(ctx context.Context) (*models.ExtractedForm, error) {
					page, err := src.page(ctx, target)
					if err != nil {
						return nil, err
					}
					return extract.FromRenderedPageMultiPage(ctx, page, extract.MultiPageOptions{
						MaxPages:    o.cfg.MaxPages,
						SettleDelay: o.cfg.SettleDelay,
					})
				},
			},
		)
	}
	runs = append(runs, strategyRun{
		name: models.StrategyStaticFetch,
		run: func(ctx context.Context) (*models.ExtractedForm, error) {
			rawHTML, err := o.fetcher.FetchHTML(ctx, target)
			if err != nil {
				return nil, err
			}
			return extract.FromStaticHTML(rawHTML)
		},
	})
	return runs
}

// runFallback tries each strategy in order. An error or a zero-question
// result means "try the next one"; the final strategy's result is returned
// even when empty, with a warning. Exhaustion is a typed error carrying the
// accumulated warnings.
func runFallback(ctx context.Context, strategies []strategyRun, diag *models.Diagnostics) (*models.ExtractedForm, error) {
	for i, s := range strategies {
		if ctx.Err() != nil {
			diag.AddWarning("extraction canceled: " + ctx.Err().Error())
			break
		}
		slog.Debug("strategy starting", "strategy", string(s.name))
		form, err := s.run(ctx)
		if err != nil {
			slog.Warn("strategy failed", "strategy", string(s.name), "error", err)
			diag.AddWarning(fmt.Sprintf("%s: %v", s.name, err))
			continue
		}

		diag.MergeWarnings(form.Diagnostics)
		if form.Diagnostics.PagesTraversed > diag.PagesTraversed {
			diag.PagesTraversed = form.Diagnostics.PagesTraversed
		}

		if len(form.Questions) > 0 {
			diag.StrategyUsed = s.name
			slog.Info("strategy succeeded",
				"strategy", string(s.name), "questions", len(form.Questions))
			return form, nil
		}
		if i == len(strategies)-1 {
			diag.AddWarning(fmt.Sprintf("%s: final strategy produced zero questions", s.name))
			diag.StrategyUsed = s.name
			return form, nil
		}
		diag.AddWarning(fmt.Sprintf("%s: produced zero questions", s.name))
	}

	return nil, &models.ExtractError{
		Code:     models.ErrCodeStrategyExhausted,
		Message:  "every extraction strategy failed",
		Warnings: append([]string(nil), diag.Warnings...),
	}
}

// sessionSource lazily opens one browser session per extraction call and
// shares the navigated page between the browser strategies. A launch
// failure is sticky so the second browser strategy does not retry a launch
// that cannot succeed.
type sessionSource struct {
	driver  browser.Launcher
	sess    browser.Session
	pg      browser.Page
	pgURL   string
	openErr error
}

func (s *sessionSource) page(ctx context.Context, url string) (browser.Page, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	if s.sess == nil {
		sess, err := s.driver.Open(ctx)
		if err != nil {
			s.openErr = err
			return nil, err
		}
		s.sess = sess
	}
	if s.pg != nil && s.pgURL == url {
		return s.pg, nil
	}
	pg, err := s.sess.Navigate(ctx, url)
	if err != nil {
		return nil, err
	}
	s.pg, s.pgURL = pg, url
	return pg, nil
}

func (s *sessionSource) close() {
	if s.sess != nil {
		s.sess.Close()
	}
}
