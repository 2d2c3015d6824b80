package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/evaly/formimport/browser"
	"github.com/evaly/formimport/models"
)

// hardPageBound forces traversal to stop regardless of configuration, so a
// misbehaving page whose "Next" control never disappears cannot loop
// forever.
const hardPageBound = 20

// nextControlJS locates a currently-visible navigation control whose exact
// lowercased text is a known "advance" label, optionally clicking it.
// Returns whether such a control exists.
const nextControlJS = `(doClick) => {
	const wanted = ["next", "continue"];
	const candidates = document.querySelectorAll('div[role=button], button, span[role=button]');
	for (const el of candidates) {
		const text = (el.textContent || "").trim().toLowerCase();
		if (!wanted.includes(text)) continue;
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		if (rect.width === 0 || rect.height === 0) continue;
		if (style.display === "none" || style.visibility === "hidden") continue;
		if (doClick) el.click();
		return true;
	}
	return false;
}`

// MultiPageOptions tunes the multi-page traversal.
type MultiPageOptions struct {
	// MaxPages bounds traversal; clamped to hardPageBound.
	MaxPages int

	// SettleDelay is the pause after each page advance.
	SettleDelay time.Duration
}

// FromRenderedPage extracts a single rendered page. Questions are tagged
// with the main sentinel section.
func FromRenderedPage(page browser.Page) (*models.ExtractedForm, error) {
	rawHTML, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("extract: read rendered html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse rendered html: %w", err)
	}

	form := models.NewExtractedForm()
	form.Title = formTitle(doc)
	form.Description = formDescription(doc)
	form.Diagnostics.PagesTraversed = 1
	if qs := extractQuestions(doc.Selection, models.MainSectionID, &form.Diagnostics); qs != nil {
		form.Questions = qs
	}
	if len(form.Questions) == 0 {
		form.Diagnostics.AddWarning("rendered page contained no questions")
	}
	return form, nil
}

// FromRenderedPageMultiPage drives the page through its client-side pages:
// read the current render, tag its questions with a per-page section, click
// a visible Next/Continue control, wait for the render to settle, repeat.
// The source product splits long forms across client-side pages that share
// one URL, so only this traversal sees pages past the first. Each page's DOM
// is read exactly once, immediately before advancing.
func FromRenderedPageMultiPage(ctx context.Context, page browser.Page, opts MultiPageOptions) (*models.ExtractedForm, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 || maxPages > hardPageBound {
		maxPages = hardPageBound
	}

	form := models.NewExtractedForm()

	for pageNum := 1; ; pageNum++ {
		rawHTML, err := page.HTML()
		if err != nil {
			if pageNum == 1 {
				return nil, fmt.Errorf("extract: read rendered html: %w", err)
			}
			form.Diagnostics.AddWarning(fmt.Sprintf("page %d could not be read: %v", pageNum, err))
			break
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
		if err != nil {
			if pageNum == 1 {
				return nil, fmt.Errorf("extract: parse rendered html: %w", err)
			}
			form.Diagnostics.AddWarning(fmt.Sprintf("page %d could not be parsed: %v", pageNum, err))
			break
		}

		if pageNum == 1 {
			form.Title = formTitle(doc)
			form.Description = formDescription(doc)
		}

		sectionID := fmt.Sprintf("page_%d", pageNum)
		form.Questions = append(form.Questions,
			extractQuestions(doc.Selection, sectionID, &form.Diagnostics)...)
		form.Sections = append(form.Sections, models.Section{
			ID:    sectionID,
			Order: pageNum,
		})
		form.Diagnostics.PagesTraversed = pageNum

		if pageNum >= maxPages {
			if exists, _ := nextControl(page, false); exists {
				form.Diagnostics.AddWarning(
					fmt.Sprintf("multi-page traversal stopped at page bound (%d)", maxPages))
			}
			break
		}

		advanced, err := nextControl(page, true)
		if err != nil {
			form.Diagnostics.AddWarning(fmt.Sprintf("page advance failed on page %d: %v", pageNum, err))
			break
		}
		if !advanced {
			break
		}

		select {
		case <-time.After(opts.SettleDelay):
		case <-ctx.Done():
			form.Diagnostics.AddWarning("multi-page traversal canceled")
			return collapseSinglePage(form), ctx.Err()
		}
	}

	if len(form.Questions) == 0 {
		form.Diagnostics.AddWarning("rendered page contained no questions")
	}
	return collapseSinglePage(form), nil
}

// collapseSinglePage drops the synthetic page section when the form turned
// out to be single-page, retagging questions with the main sentinel.
func collapseSinglePage(form *models.ExtractedForm) *models.ExtractedForm {
	if form.Diagnostics.PagesTraversed > 1 {
		return form
	}
	form.Sections = []models.Section{}
	for i := range form.Questions {
		form.Questions[i].SectionID = models.MainSectionID
	}
	return form
}

func nextControl(page browser.Page, doClick bool) (bool, error) {
	res, err := page.Eval(nextControlJS, doClick)
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}
