package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/evaly/formimport/models"
)

// placeholder option texts excluded from dropdown extraction.
var dropdownPlaceholders = map[string]struct{}{
	"":                 {},
	"choose":           {},
	"select":           {},
	"choose an option": {},
	"select an option": {},
}

// extractQuestions walks every question container under root in document
// order, tagging results with sectionID. Containers without a discoverable
// title are skipped (decorative blocks, media items).
func extractQuestions(root *goquery.Selection, sectionID string, diag *models.Diagnostics) []models.Question {
	containers, groupName := firstMatch(root, questionContainerGroups)
	if containers == nil {
		return nil
	}

	var questions []models.Question
	containers.Each(func(_ int, s *goquery.Selection) {
		q, ok := questionFromContainer(root, s, sectionID, diag)
		if !ok {
			return
		}
		questions = append(questions, q)
	})
	if len(questions) > 0 && groupName != "listitem-role" {
		diag.AddWarning("question containers matched fallback selector group " + groupName)
	}
	return questions
}

// questionFromContainer builds one Question from a container element,
// inferring kind from the input primitives present. doc is the document
// root, needed for id-based label lookups that may leave the container.
func questionFromContainer(doc, s *goquery.Selection, sectionID string, diag *models.Diagnostics) (models.Question, bool) {
	title := firstText(s, questionTitleGroups)
	title = strings.TrimSpace(strings.TrimSuffix(title, "*"))
	if title == "" {
		return models.Question{}, false
	}

	q := models.Question{
		Title:     title,
		Kind:      models.KindShortText,
		Required:  isRequired(s),
		Options:   []string{},
		SectionID: sectionID,
	}

	switch {
	case s.Find("textarea").Length() > 0:
		q.Kind = models.KindLongText

	case s.Find(`input[type=date]`).Length() > 0:
		q.Kind = models.KindDate

	case s.Find(`input[type=time]`).Length() > 0 || hasTimeFields(s):
		q.Kind = models.KindTime

	case s.Find(`[role=radiogroup]`).Length() > 0 || s.Find(`input[type=radio]`).Length() > 0:
		opts := choiceOptions(doc, s, `[role=radio]`, `input[type=radio]`, title)
		applyChoice(&q, s, opts, false)

	case s.Find(`[role=checkbox]`).Length() > 0 || s.Find(`input[type=checkbox]`).Length() > 0:
		opts := choiceOptions(doc, s, `[role=checkbox]`, `input[type=checkbox]`, title)
		applyChoice(&q, s, opts, true)

	case s.Find("select").Length() > 0:
		q.Kind = models.KindSingleChoice
		q.Options = selectOptions(s.Find("select").First())

	case s.Find(`[role=listbox]`).Length() > 0:
		q.Kind = models.KindSingleChoice
		var opts []string
		s.Find(`[role=option]`).Each(func(_ int, o *goquery.Selection) {
			text := strings.TrimSpace(o.Text())
			if text == "" {
				if dv, ok := o.Attr("data-value"); ok {
					text = strings.TrimSpace(dv)
				}
			}
			if _, skip := dropdownPlaceholders[strings.ToLower(text)]; skip {
				return
			}
			opts = append(opts, text)
		})
		q.Options = models.DedupeOptions(opts)
	}

	if q.Kind == models.KindSingleChoice && len(q.Options) == 0 {
		diag.AddWarning("choice question \"" + q.Title + "\" has no options")
	}
	return q, true
}

// applyChoice fills in a radio/checkbox question, re-classifying numeric
// contiguous option runs (or an explicit ARIA linear-scale group) as SCALE.
func applyChoice(q *models.Question, s *goquery.Selection, opts []string, multi bool) {
	q.Kind = models.KindSingleChoice
	q.Options = models.DedupeOptions(opts)
	q.MultiSelect = multi

	ariaScale := false
	if label, ok := s.Find(`[role=radiogroup]`).First().Attr("aria-label"); ok {
		ariaScale = strings.Contains(strings.ToLower(label), "linear scale")
	}
	low, high, run := models.ContiguousRun(q.Options)
	if !run && ariaScale {
		low, high, run = 1, len(q.Options), len(q.Options) > 1
	}
	if run && !multi {
		q.Kind = models.KindScale
		q.Scale = &models.ScaleSpec{Low: low, High: high}
		q.Options = []string{}
	}
}

// choiceOptions collects the option labels of a radio/checkbox group. Custom
// ARIA widgets carry their label as an attribute; native inputs go through
// the association heuristics.
func choiceOptions(doc, container *goquery.Selection, roleSel, inputSel, questionTitle string) []string {
	var opts []string

	container.Find(roleSel).Each(func(_ int, o *goquery.Selection) {
		if label, ok := o.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			opts = append(opts, strings.TrimSpace(label))
			return
		}
		if dv, ok := o.Attr("data-value"); ok && strings.TrimSpace(dv) != "" {
			opts = append(opts, strings.TrimSpace(dv))
		}
	})
	if len(opts) > 0 {
		return opts
	}

	container.Find(inputSel).Each(func(_ int, input *goquery.Selection) {
		if label := labelForInput(doc, input, questionTitle); label != "" {
			opts = append(opts, label)
		}
	})
	return opts
}

// labelForInput associates a visible label with a native input, trying in
// order: aria-labelledby target, label[for], enclosing container text with
// the question title stripped, adjacent text. First non-empty wins.
func labelForInput(doc, input *goquery.Selection, questionTitle string) string {
	if ids, ok := input.Attr("aria-labelledby"); ok {
		for _, id := range strings.Fields(ids) {
			if text := strings.TrimSpace(doc.Find("#" + id).Text()); text != "" {
				return text
			}
		}
	}

	if id, ok := input.Attr("id"); ok && id != "" {
		if text := strings.TrimSpace(doc.Find(`label[for=` + id + `]`).Text()); text != "" {
			return text
		}
	}

	enclosing := input.Closest("label")
	if enclosing.Length() == 0 {
		enclosing = input.Parent()
	}
	if text := strings.TrimSpace(enclosing.Text()); text != "" {
		stripped := strings.TrimSpace(strings.ReplaceAll(text, questionTitle, ""))
		if stripped != "" {
			return stripped
		}
	}

	if text := strings.TrimSpace(input.Next().Text()); text != "" {
		return text
	}
	return ""
}

// selectOptions reads the entries of a native <select>, excluding
// placeholder rows.
func selectOptions(sel *goquery.Selection) []string {
	var opts []string
	sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		text := strings.TrimSpace(o.Text())
		if _, skip := dropdownPlaceholders[strings.ToLower(text)]; skip {
			return
		}
		if v, ok := o.Attr("value"); ok && strings.TrimSpace(v) == "" {
			return
		}
		opts = append(opts, text)
	})
	return models.DedupeOptions(opts)
}

// hasTimeFields detects the split hour/minute spinners the source UI renders
// for time questions.
func hasTimeFields(s *goquery.Selection) bool {
	hour := s.Find(`input[aria-label=Hour]`).Length() > 0
	minute := s.Find(`input[aria-label=Minute]`).Length() > 0
	return hour && minute
}

// isRequired checks the required marker: an aria-label on the asterisk span,
// an aria-required group, or a trailing asterisk on the title.
func isRequired(s *goquery.Selection) bool {
	if s.Find(`span[aria-label="Required question"]`).Length() > 0 {
		return true
	}
	if s.Find(`[aria-required=true]`).Length() > 0 {
		return true
	}
	title := firstText(s, questionTitleGroups)
	return strings.HasSuffix(strings.TrimSpace(title), "*")
}
