package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/evaly/formimport/models"
)

// FromStaticHTML extracts a form from plain fetched HTML, with no rendered
// state and no page navigation. Only markup present in the initial response
// is visible here, so recall is lower than the browser strategies.
func FromStaticHTML(rawHTML string) (*models.ExtractedForm, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("extract: parse static html: %w", err)
	}

	form := models.NewExtractedForm()
	form.Title = formTitle(doc)
	form.Description = formDescription(doc)
	form.Diagnostics.PagesTraversed = 1

	if qs := extractQuestions(doc.Selection, models.MainSectionID, &form.Diagnostics); qs != nil {
		form.Questions = qs
	}
	if len(form.Questions) == 0 {
		form.Diagnostics.AddWarning("static extraction found no questions")
	}
	return form, nil
}

// formTitle prefers the in-page heading cascade and falls back to the
// document <title>, stripping the product suffix.
func formTitle(doc *goquery.Document) string {
	if title := firstText(doc.Selection, formTitleGroups); title != "" {
		return title
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSuffix(title, " - Google Forms")
	return strings.TrimSpace(title)
}

// formDescription reads the description block (normalized from its HTML) or
// falls back to the meta description.
func formDescription(doc *goquery.Document) string {
	if sel, _ := firstMatch(doc.Selection, formDescriptionGroups); sel != nil {
		if desc := renderDescription(sel.First()); desc != "" {
			return desc
		}
	}
	for _, metaSel := range []string{`meta[name=description]`, `meta[property="og:description"]`} {
		if content, ok := doc.Find(metaSel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
