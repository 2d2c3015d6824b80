package models

import (
	"strconv"
	"strings"
)

// QuestionKind is the canonical question type after normalization. Source
// systems expose far more raw type codes than this; everything maps onto
// this closed set.
type QuestionKind string

const (
	KindShortText    QuestionKind = "SHORT_TEXT"
	KindLongText     QuestionKind = "LONG_TEXT"
	KindSingleChoice QuestionKind = "SINGLE_CHOICE"
	KindScale        QuestionKind = "SCALE"
	KindDate         QuestionKind = "DATE"
	KindTime         QuestionKind = "TIME"
)

// StrategyName identifies which extraction strategy produced a form.
type StrategyName string

const (
	StrategyBrowserRuntime StrategyName = "BROWSER_RUNTIME_PARSE"
	StrategyBrowserDOM     StrategyName = "BROWSER_DOM_FALLBACK"
	StrategyStaticFetch    StrategyName = "STATIC_FETCH_FALLBACK"
)

// MainSectionID tags questions that appear before any explicit section
// marker (or on forms with no sections at all).
const MainSectionID = "main"

// SourceIDUnknown is used when no stable identifier could be derived from
// the source URL.
const SourceIDUnknown = "unknown"

// ScaleSpec holds linear-scale bounds and endpoint labels. Labels stay empty
// when the source form does not define them; consumers decide whether to
// synthesize defaults.
type ScaleSpec struct {
	Low       int    `json:"low"`
	High      int    `json:"high"`
	LowLabel  string `json:"lowLabel"`
	HighLabel string `json:"highLabel"`
}

// Section is one titled group of questions, in presentation order.
type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// Question is the central entity of an extraction run.
type Question struct {
	Title       string       `json:"title"`
	Kind        QuestionKind `json:"kind"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options"`
	MultiSelect bool         `json:"multiSelect,omitempty"`
	Scale       *ScaleSpec   `json:"scale,omitempty"`
	SectionID   string       `json:"sectionId"`
}

// Diagnostics carries operability metadata about an extraction run. It is
// not business data but is required for observability and test assertions.
type Diagnostics struct {
	StrategyUsed   StrategyName `json:"strategyUsed"`
	PagesTraversed int          `json:"pagesTraversed"`
	Warnings       []string     `json:"warnings"`
}

// AddWarning appends a warning, keeping the set deduplicated and ordered.
func (d *Diagnostics) AddWarning(w string) {
	w = strings.TrimSpace(w)
	if w == "" {
		return
	}
	for _, existing := range d.Warnings {
		if existing == w {
			return
		}
	}
	d.Warnings = append(d.Warnings, w)
}

// MergeWarnings copies every warning from another diagnostics value.
func (d *Diagnostics) MergeWarnings(other Diagnostics) {
	for _, w := range other.Warnings {
		d.AddWarning(w)
	}
}

// ExtractedForm is the immutable result of one extraction run. It is
// constructed once per call and handed to the caller; the extractor holds no
// state between calls.
type ExtractedForm struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Sections    []Section   `json:"sections"`
	Questions   []Question  `json:"questions"`
	SourceID    string      `json:"sourceId"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// NewExtractedForm returns an empty form with non-nil slices so the JSON
// serialization always has sections/questions arrays.
func NewExtractedForm() *ExtractedForm {
	return &ExtractedForm{
		SourceID:  SourceIDUnknown,
		Sections:  []Section{},
		Questions: []Question{},
	}
}

// SectionByID looks up a section by its id.
func (f *ExtractedForm) SectionByID(id string) (Section, bool) {
	for _, s := range f.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// ContiguousRun reports whether opts is a contiguous ascending integer run
// of 3-11 entries, returning its bounds. Choice lists of this shape are
// numeric ratings in disguise.
func ContiguousRun(opts []string) (low, high int, ok bool) {
	if len(opts) < 3 || len(opts) > 11 {
		return 0, 0, false
	}
	prev := 0
	for i, o := range opts {
		n, err := strconv.Atoi(strings.TrimSpace(o))
		if err != nil {
			return 0, 0, false
		}
		if i > 0 && n != prev+1 {
			return 0, 0, false
		}
		prev = n
	}
	return prev - len(opts) + 1, prev, true
}

// DedupeOptions returns opts with empty entries removed and duplicates
// dropped, preserving first-seen order.
func DedupeOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
