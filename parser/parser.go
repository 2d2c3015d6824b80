// Package parser converts the runtime data blob a Google Form embeds for its
// own renderer (FB_PUBLIC_LOAD_DATA_) into a typed ExtractedForm. The blob is
// a deeply nested positional array whose shape drifts across form versions,
// so question nodes are located by bounded recursive pattern matching rather
// than by fixed index paths.
package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/evaly/formimport/models"
)

// maxSearchDepth bounds the recursive search. Real blobs keep question nodes
// within a handful of levels; anything deeper is either noise or a hostile
// input.
const maxSearchDepth = 10

// Raw item type codes used by the source system.
const (
	codeShortText   = 0
	codeParagraph   = 1
	codeMultiChoice = 2
	codeDropdown    = 3
	codeCheckbox    = 4
	codeScale       = 5
	codeTitleText   = 6 // display-only text block, never emitted
	codeGrid        = 7
	codeSection     = 8 // page break / section marker
	codeDate        = 9
	codeTime        = 10
	codeRating      = 18 // unlabeled numeric scale variant
)

var kindByCode = map[int]models.QuestionKind{
	codeShortText:   models.KindShortText,
	codeParagraph:   models.KindLongText,
	codeMultiChoice: models.KindSingleChoice,
	codeDropdown:    models.KindSingleChoice,
	codeCheckbox:    models.KindSingleChoice,
	codeScale:       models.KindScale,
	codeGrid:        models.KindSingleChoice,
	codeDate:        models.KindDate,
	codeTime:        models.KindTime,
	codeRating:      models.KindScale,
}

// MapRawCode maps a raw item type code onto the canonical question kind.
// Codes outside the table map to SHORT_TEXT.
func MapRawCode(code int) models.QuestionKind {
	if k, ok := kindByCode[code]; ok {
		return k
	}
	return models.KindShortText
}

// accum is the fold state threaded through the recursive search. It is
// passed and returned by value so the walk stays referentially transparent.
type accum struct {
	sections         []models.Section
	questions        []models.Question
	warnings         []string
	currentSectionID string
	sectionSeq       int
}

func (a accum) warn(format string, args ...any) accum {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
	return a
}

// ParseRuntimeBlob parses the raw in-page blob. An unparseable blob or one
// with no recognizable question nodes yields a form with zero questions and
// a warning, never an error: "this strategy produced nothing" is a valid
// outcome the orchestrator uses to decide on fallback.
func ParseRuntimeBlob(raw string) *models.ExtractedForm {
	form := models.NewExtractedForm()

	var root any
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		form.Diagnostics.AddWarning("runtime blob is not valid JSON")
		return form
	}

	form.Title, form.Description = formHeader(root)

	acc := walk(root, 0, accum{currentSectionID: models.MainSectionID})

	if acc.sections != nil {
		form.Sections = acc.sections
	}
	if acc.questions != nil {
		form.Questions = acc.questions
	}
	for _, w := range acc.warnings {
		form.Diagnostics.AddWarning(w)
	}
	if len(form.Questions) == 0 {
		form.Diagnostics.AddWarning("runtime blob contained no recognizable questions")
	}
	return form
}

// formHeader reads the form title and description from their usual positions
// near the top of the blob (title at root[3], description at root[1][0]).
// Both are best-effort; question discovery does not depend on them.
func formHeader(root any) (title, description string) {
	arr, ok := root.([]any)
	if !ok {
		return "", ""
	}
	if len(arr) > 3 {
		if s, ok := arr[3].(string); ok {
			title = strings.TrimSpace(s)
		}
	}
	if len(arr) > 1 {
		if inner, ok := arr[1].([]any); ok && len(inner) > 0 {
			if s, ok := inner[0].(string); ok {
				description = strings.TrimSpace(s)
			}
		}
	}
	return title, description
}

// walk performs the bounded recursive search. A node accepted as a question
// (or section marker) is consumed whole; its children are not descended into,
// which keeps option rows from being misread as nested questions.
func walk(node any, depth int, acc accum) accum {
	if depth > maxSearchDepth {
		return acc
	}
	switch v := node.(type) {
	case []any:
		if questionShaped(v) {
			return acceptNode(v, acc)
		}
		for _, child := range v {
			acc = walk(child, depth+1, acc)
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys) // deterministic traversal
		for _, k := range keys {
			acc = walk(v[k], depth+1, acc)
		}
	}
	return acc
}

// questionShaped reports whether an array matches the loose question-node
// shape: length >= 4, element 0 a non-null identifier, element 1 a non-empty
// string title, element 3 a small non-negative integer type code.
func questionShaped(node []any) bool {
	if len(node) < 4 {
		return false
	}
	if !isIdentifier(node[0]) {
		return false
	}
	title, ok := node[1].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return false
	}
	code, ok := asSmallInt(node[3])
	return ok && code >= 0
}

func isIdentifier(v any) bool {
	switch v.(type) {
	case float64, string:
		return true
	}
	return false
}

// asSmallInt accepts integral JSON numbers in [0, 100].
func asSmallInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	n := int(f)
	if float64(n) != f || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

func identifierString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

// acceptNode converts one matched node into a question, a section boundary,
// or nothing (display-only text blocks).
func acceptNode(node []any, acc accum) accum {
	code, _ := asSmallInt(node[3])
	title := strings.TrimSpace(node[1].(string))

	switch code {
	case codeTitleText:
		// Display text block: not a question and not a section boundary.
		return acc
	case codeSection:
		return openSection(node, title, acc)
	}

	q := models.Question{
		Title:     title,
		Kind:      MapRawCode(code),
		SectionID: acc.currentSectionID,
		Options:   []string{},
	}
	if _, known := kindByCode[code]; !known {
		acc = acc.warn("unknown raw type code %d for %q, defaulting to short text", code, title)
	}

	opts, required, labels := answerSpec(node)
	q.Required = required
	q.MultiSelect = code == codeCheckbox

	switch {
	case code == codeScale, code == codeRating:
		q.Scale = explicitScale(opts, labels)
		if q.Scale.LowLabel == "" && q.Scale.HighLabel == "" {
			acc = acc.warn("scale question %q has no endpoint labels", title)
		}
	case q.Kind == models.KindSingleChoice || code == codeShortText:
		q.Options = models.DedupeOptions(opts)
		if low, high, ok := models.ContiguousRun(q.Options); ok {
			// Scale disguised as a plain choice list: 3-11 contiguous
			// ascending integers.
			q.Kind = models.KindScale
			q.Scale = &models.ScaleSpec{Low: low, High: high}
			q.Options = []string{}
			q.MultiSelect = false
		} else if q.Kind != models.KindSingleChoice {
			// Only choice kinds carry options.
			q.Options = []string{}
		} else if len(q.Options) == 0 {
			acc = acc.warn("choice question %q has no options", title)
		}
	}

	acc.questions = append(acc.questions, q)
	return acc
}

// openSection closes the current section and opens a new one, tagging every
// subsequently accepted question until the next marker.
func openSection(node []any, title string, acc accum) accum {
	acc.sectionSeq++
	id := identifierString(node[0])
	if id == "" {
		id = fmt.Sprintf("section_%d", acc.sectionSeq)
	}
	sec := models.Section{
		ID:    id,
		Title: title,
		Order: acc.sectionSeq,
	}
	if len(node) > 2 {
		if desc, ok := node[2].(string); ok {
			sec.Description = strings.TrimSpace(desc)
		}
	}
	acc.sections = append(acc.sections, sec)
	acc.currentSectionID = id
	return acc
}

// answerSpec digs the option labels, the required flag, and any endpoint
// label pair out of the answer sub-array at node[4]. The sub-array's inner
// layout varies by type variant, so label discovery scans a few positions
// instead of assuming one.
func answerSpec(node []any) (options []string, required bool, labels []string) {
	if len(node) < 5 {
		return nil, false, nil
	}
	outer, ok := node[4].([]any)
	if !ok || len(outer) == 0 {
		return nil, false, nil
	}
	spec, ok := outer[0].([]any)
	if !ok {
		return nil, false, nil
	}

	if len(spec) > 1 {
		if rows, ok := spec[1].([]any); ok {
			for _, row := range rows {
				cells, ok := row.([]any)
				if !ok || len(cells) == 0 {
					continue
				}
				if label, ok := cells[0].(string); ok {
					options = append(options, label)
				}
			}
		}
	}
	if len(spec) > 2 {
		required = truthy(spec[2])
	}
	// Endpoint labels live at spec[3] for the labeled scale variant and
	// shift one slot right on some revisions. The rating variant has none.
	for _, idx := range []int{3, 4} {
		if len(spec) <= idx {
			break
		}
		pair, ok := spec[idx].([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		lo, okLo := pair[0].(string)
		hi, okHi := pair[1].(string)
		if okLo && okHi {
			labels = []string{lo, hi}
			break
		}
	}
	return options, required, labels
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	}
	return false
}

// explicitScale builds the scale spec for an explicit scale/rating node.
// Bounds come from the numeric option run; labels stay empty when the source
// defines none (flagged upstream, never synthesized).
func explicitScale(opts []string, labels []string) *models.ScaleSpec {
	s := &models.ScaleSpec{Low: 1, High: 5}
	if low, high, ok := models.ContiguousRun(opts); ok {
		s.Low, s.High = low, high
	} else if len(opts) > 1 {
		s.Low, s.High = 1, len(opts)
	}
	if len(labels) == 2 {
		s.LowLabel = strings.TrimSpace(labels[0])
		s.HighLabel = strings.TrimSpace(labels[1])
	}
	return s
}
