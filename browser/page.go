// Package browser owns the headless-browser session lifecycle and exposes
// live pages behind small interfaces, so the runtime parser and the DOM
// extractor stay unit-testable against a fake page.
package browser

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"

	"github.com/evaly/formimport/models"
)

// Page is a live rendered page.
type Page interface {
	// Eval runs a JS function in the page and returns its value.
	Eval(js string, args ...any) (gson.JSON, error)

	// HTML returns the current rendered document HTML.
	HTML() (string, error)
}

// Session is one open browser. It is ephemeral: opened and torn down within
// a single extraction call, never reused across calls.
type Session interface {
	Navigate(ctx context.Context, url string) (Page, error)
	Close()
}

// Launcher opens browser sessions. The concrete Driver launches a real
// browser; tests substitute fakes.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

// rodPage adapts a rod page to the Page interface.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Eval(js string, args ...any) (gson.JSON, error) {
	res, err := p.page.Eval(js, args...)
	if err != nil {
		return gson.New(nil), models.NewExtractError(
			models.ErrCodeEvaluation,
			"in-page evaluation failed",
			err,
		)
	}
	return res.Value, nil
}

func (p *rodPage) HTML() (string, error) {
	html, err := p.page.HTML()
	if err != nil {
		return "", models.NewExtractError(
			models.ErrCodeEvaluation,
			"failed to read rendered HTML",
			err,
		)
	}
	return html, nil
}
