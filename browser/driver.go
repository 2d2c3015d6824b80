package browser

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/evaly/formimport/config"
	"github.com/evaly/formimport/models"
)

// Driver launches headless-browser sessions.
type Driver struct {
	browserCfg   config.BrowserConfig
	extractorCfg config.ExtractorConfig
}

// NewDriver creates a Driver from the loaded configuration.
func NewDriver(cfg *config.Config) *Driver {
	return &Driver{
		browserCfg:   cfg.Browser,
		extractorCfg: cfg.Extractor,
	}
}

// Open launches a browser and connects to it. A launch failure means the
// environment has no usable browser runtime; the orchestrator treats that as
// an automatic fallback to static fetch, not a caller-visible error.
func (d *Driver) Open(ctx context.Context) (Session, error) {
	l := launcher.New().
		Headless(d.browserCfg.Headless).
		NoSandbox(d.browserCfg.NoSandbox)

	if d.browserCfg.BrowserBin != "" {
		l = l.Bin(d.browserCfg.BrowserBin)
	}
	if d.browserCfg.Proxy != "" {
		l = l.Proxy(d.browserCfg.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeAutomationUnavailable,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, models.NewExtractError(
			models.ErrCodeAutomationUnavailable,
			"failed to connect to browser",
			err,
		)
	}

	return &session{
		browser:      b,
		launcher:     l,
		browserCfg:   d.browserCfg,
		extractorCfg: d.extractorCfg,
	}, nil
}

// session is one live browser. Close tears everything down on every exit
// path: routers, pages, browser process.
type session struct {
	browser      *rod.Browser
	launcher     *launcher.Launcher
	browserCfg   config.BrowserConfig
	extractorCfg config.ExtractorConfig
	routers      []*rod.HijackRouter
	pages        []*rod.Page
}

// Navigate opens a tab, installs stealth and resource blocking (both must
// happen before navigation to take effect), navigates with a bounded
// timeout, and waits for the DOM to settle.
func (s *session) Navigate(ctx context.Context, targetURL string) (Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeNavigation,
			"failed to open page",
			err,
		)
	}
	s.pages = append(s.pages, page)

	_ = proto.NetworkSetUserAgentOverride{
		UserAgent: s.browserCfg.UserAgent,
	}.Call(page)
	_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.browserCfg.ViewportWidth,
		Height:            s.browserCfg.ViewportHeight,
		DeviceScaleFactor: 1,
	})

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	if router := setupHijack(page, s.browserCfg.BlockedResourceTypes); router != nil {
		s.routers = append(s.routers, router)
	}

	navCtx, cancel := context.WithTimeout(ctx, s.extractorCfg.NavigationTimeout)
	defer cancel()

	np := page.Context(navCtx)
	if err := np.Navigate(targetURL); err != nil {
		return nil, categorizeError(err, "navigation to target URL failed")
	}
	if stableErr := np.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	select {
	case <-time.After(s.extractorCfg.SettleDelay):
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "canceled while settling after navigation")
	}

	return &rodPage{page: page.Context(ctx)}, nil
}

// Close stops hijack routers, closes pages, and kills the browser process.
// Uses the original (context-free) handles so teardown succeeds even after
// the request context has expired.
func (s *session) Close() {
	for _, r := range s.routers {
		_ = r.Stop()
	}
	for _, p := range s.pages {
		_ = p.Close()
	}
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed, killing process", "error", err)
		s.launcher.Kill()
	}
	s.launcher.Cleanup()
}

// categorizeError wraps raw rod/context errors into typed ExtractErrors.
func categorizeError(err error, msg string) *models.ExtractError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewExtractError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewExtractError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewExtractError(models.ErrCodeNavigation, msg, err)
	}
}
