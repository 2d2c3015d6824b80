package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/evaly/formimport/models"
)

const sampleBlob = `[null,["Tell us how it went",[
	[101,"Your name",null,0],
	[102,"Comments",null,1],
	[103,"Favorite color",null,2,[[1031,[["Red"],["Blue"],["Red"],["Green"]],true]]],
	[104,"Intro text",null,6],
	[105,"Part 2","Second part",8],
	[106,"Overall rating",null,5,[[1061,[["1"],["2"],["3"],["4"],["5"]],false,["Poor","Excellent"]]]],
	[107,"Event date",null,9]
]],"/forms","Event Feedback"]`

func TestParseRuntimeBlob_Header(t *testing.T) {
	form := ParseRuntimeBlob(sampleBlob)
	if form.Title != "Event Feedback" {
		t.Errorf("title = %q, want %q", form.Title, "Event Feedback")
	}
	if form.Description != "Tell us how it went" {
		t.Errorf("description = %q, want %q", form.Description, "Tell us how it went")
	}
}

func TestParseRuntimeBlob_Questions(t *testing.T) {
	form := ParseRuntimeBlob(sampleBlob)
	if len(form.Questions) != 5 {
		t.Fatalf("got %d questions, want 5: %+v", len(form.Questions), form.Questions)
	}

	q := form.Questions[0]
	if q.Kind != models.KindShortText || q.Title != "Your name" {
		t.Errorf("q0 = %+v, want short text 'Your name'", q)
	}
	if form.Questions[1].Kind != models.KindLongText {
		t.Errorf("q1 kind = %s, want LONG_TEXT", form.Questions[1].Kind)
	}

	choice := form.Questions[2]
	if choice.Kind != models.KindSingleChoice {
		t.Errorf("q2 kind = %s, want SINGLE_CHOICE", choice.Kind)
	}
	if !choice.Required {
		t.Error("q2 should be required")
	}
	if want := []string{"Red", "Blue", "Green"}; !reflect.DeepEqual(choice.Options, want) {
		t.Errorf("q2 options = %v, want %v (deduplicated, order preserved)", choice.Options, want)
	}

	scale := form.Questions[3]
	if scale.Kind != models.KindScale {
		t.Fatalf("q3 kind = %s, want SCALE", scale.Kind)
	}
	if scale.Scale == nil || scale.Scale.Low != 1 || scale.Scale.High != 5 {
		t.Errorf("q3 scale = %+v, want low 1 high 5", scale.Scale)
	}
	if scale.Scale.LowLabel != "Poor" || scale.Scale.HighLabel != "Excellent" {
		t.Errorf("q3 labels = %q/%q, want Poor/Excellent", scale.Scale.LowLabel, scale.Scale.HighLabel)
	}

	if form.Questions[4].Kind != models.KindDate {
		t.Errorf("q4 kind = %s, want DATE", form.Questions[4].Kind)
	}
}

func TestParseRuntimeBlob_SectionTagging(t *testing.T) {
	blob := `[[1,"Intro",null,6],[2,"Q1",null,0],[3,"Part 2",null,8],[4,"Q2",null,0]]`
	form := ParseRuntimeBlob(blob)

	if len(form.Sections) != 1 {
		t.Fatalf("got %d sections, want 1 (no section for content before the first marker)", len(form.Sections))
	}
	sec := form.Sections[0]
	if sec.Title != "Part 2" || sec.Order != 1 {
		t.Errorf("section = %+v, want title 'Part 2' order 1", sec)
	}

	if len(form.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(form.Questions))
	}
	if form.Questions[0].SectionID != models.MainSectionID {
		t.Errorf("Q1 sectionId = %q, want %q", form.Questions[0].SectionID, models.MainSectionID)
	}
	if form.Questions[1].SectionID != sec.ID {
		t.Errorf("Q2 sectionId = %q, want %q", form.Questions[1].SectionID, sec.ID)
	}
}

func TestParseRuntimeBlob_ScaleDisguise(t *testing.T) {
	contiguous := `[[1,"Satisfaction",null,2,[[2,[["1"],["2"],["3"],["4"],["5"]],0]]]]`
	form := ParseRuntimeBlob(contiguous)
	if len(form.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(form.Questions))
	}
	q := form.Questions[0]
	if q.Kind != models.KindScale {
		t.Fatalf("contiguous numeric options: kind = %s, want SCALE", q.Kind)
	}
	if q.Scale.Low != 1 || q.Scale.High != 5 {
		t.Errorf("scale bounds = %d..%d, want 1..5", q.Scale.Low, q.Scale.High)
	}
	if len(q.Options) != 0 {
		t.Errorf("re-classified scale kept options: %v", q.Options)
	}

	gapped := `[[1,"Pick a number",null,2,[[2,[["1"],["2"],["4"]],0]]]]`
	form = ParseRuntimeBlob(gapped)
	q = form.Questions[0]
	if q.Kind != models.KindSingleChoice {
		t.Errorf("non-contiguous options: kind = %s, want SINGLE_CHOICE", q.Kind)
	}
	if want := []string{"1", "2", "4"}; !reflect.DeepEqual(q.Options, want) {
		t.Errorf("options = %v, want %v", q.Options, want)
	}
}

func TestParseRuntimeBlob_RatingVariantHasEmptyLabels(t *testing.T) {
	blob := `[[1,"Rate the venue",null,18,[[2,[["1"],["2"],["3"],["4"]],0]]]]`
	form := ParseRuntimeBlob(blob)
	q := form.Questions[0]
	if q.Kind != models.KindScale {
		t.Fatalf("kind = %s, want SCALE", q.Kind)
	}
	if q.Scale.LowLabel != "" || q.Scale.HighLabel != "" {
		t.Errorf("labels = %q/%q, want empty (never synthesized)", q.Scale.LowLabel, q.Scale.HighLabel)
	}
	if !hasWarning(form.Diagnostics.Warnings, "no endpoint labels") {
		t.Errorf("missing unlabeled-scale warning, got %v", form.Diagnostics.Warnings)
	}
}

func TestParseRuntimeBlob_BoundedRecursion(t *testing.T) {
	deep := strings.Repeat("[", 50) + `[9,"Too deep",null,0]` + strings.Repeat("]", 50)
	blob := `[[5,"Shallow",null,0],` + deep + `]`

	form := ParseRuntimeBlob(blob)
	if len(form.Questions) != 1 {
		t.Fatalf("got %d questions, want only the shallow one", len(form.Questions))
	}
	if form.Questions[0].Title != "Shallow" {
		t.Errorf("question = %q, want Shallow", form.Questions[0].Title)
	}
}

func TestParseRuntimeBlob_Idempotent(t *testing.T) {
	a := ParseRuntimeBlob(sampleBlob)
	b := ParseRuntimeBlob(sampleBlob)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two parses of the same blob differ:\n%+v\n%+v", a, b)
	}
}

func TestParseRuntimeBlob_InvalidJSON(t *testing.T) {
	form := ParseRuntimeBlob("var data = not json;")
	if len(form.Questions) != 0 {
		t.Errorf("invalid JSON should yield zero questions, got %d", len(form.Questions))
	}
	if !hasWarning(form.Diagnostics.Warnings, "not valid JSON") {
		t.Errorf("missing invalid-JSON warning, got %v", form.Diagnostics.Warnings)
	}
}

func TestParseRuntimeBlob_ShortTextDropsOptions(t *testing.T) {
	blob := `[[1,"Reference code",null,0,[[2,[["AB"],["CD"]],0]]]]`
	form := ParseRuntimeBlob(blob)
	if len(form.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(form.Questions))
	}
	q := form.Questions[0]
	if q.Kind != models.KindShortText {
		t.Fatalf("kind = %s, want SHORT_TEXT", q.Kind)
	}
	if len(q.Options) != 0 {
		t.Errorf("short-text question kept options: %v", q.Options)
	}
}

func TestParseRuntimeBlob_ChoiceWithoutOptionsWarns(t *testing.T) {
	blob := `[[1,"Broken choice",null,2]]`
	form := ParseRuntimeBlob(blob)
	if len(form.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(form.Questions))
	}
	if !hasWarning(form.Diagnostics.Warnings, "has no options") {
		t.Errorf("missing zero-options warning, got %v", form.Diagnostics.Warnings)
	}
}

func TestMapRawCode(t *testing.T) {
	tests := []struct {
		code int
		want models.QuestionKind
	}{
		{0, models.KindShortText},
		{1, models.KindLongText},
		{2, models.KindSingleChoice},
		{3, models.KindSingleChoice},
		{4, models.KindSingleChoice},
		{5, models.KindScale},
		{7, models.KindSingleChoice},
		{9, models.KindDate},
		{10, models.KindTime},
		{18, models.KindScale},
		{42, models.KindShortText}, // unknown codes default to short text
		{99, models.KindShortText},
	}
	for _, tt := range tests {
		got := MapRawCode(tt.code)
		if got != tt.want {
			t.Errorf("MapRawCode(%d) = %s, want %s", tt.code, got, tt.want)
		}
		if again := MapRawCode(tt.code); again != got {
			t.Errorf("MapRawCode(%d) not deterministic: %s then %s", tt.code, got, again)
		}
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
