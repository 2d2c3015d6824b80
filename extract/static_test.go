package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/evaly/formimport/models"
)

const staticFormHTML = `<!DOCTYPE html>
<html><head>
<title>Workshop Feedback - Google Forms</title>
<meta name="description" content="Tell us about the workshop">
</head><body>
<form>
	<div role="listitem">
		<div role="heading">Your name</div>
		<input type="text">
	</div>
	<div role="listitem">
		<div role="heading">Anything else?</div>
		<textarea></textarea>
	</div>
	<div role="listitem">
		<div role="heading">Session attended</div>
		<input type="radio" id="opt-a"><label for="opt-a">Morning</label>
		<input type="radio" id="opt-b"><label for="opt-b">Afternoon</label>
	</div>
	<div role="listitem">
		<div role="heading">Topics of interest</div>
		<div role="checkbox" aria-label="Networking"></div>
		<div role="checkbox" aria-label="Security"></div>
	</div>
	<div role="listitem">
		<div role="heading">Overall rating</div>
		<div role="radiogroup" aria-label="Overall rating linear scale">
			<div role="radio" aria-label="1"></div>
			<div role="radio" aria-label="2"></div>
			<div role="radio" aria-label="3"></div>
			<div role="radio" aria-label="4"></div>
		</div>
	</div>
	<div role="listitem">
		<div role="heading">Preferred track</div>
		<select>
			<option value="">Choose</option>
			<option>Beginner</option>
			<option>Advanced</option>
		</select>
	</div>
	<div role="listitem">
		<div role="heading">Date attended</div>
		<input type="date">
	</div>
</form>
</body></html>`

func TestFromStaticHTML(t *testing.T) {
	form, err := FromStaticHTML(staticFormHTML)
	if err != nil {
		t.Fatalf("FromStaticHTML: %v", err)
	}

	if form.Title != "Workshop Feedback" {
		t.Errorf("title = %q, want %q (product suffix stripped)", form.Title, "Workshop Feedback")
	}
	if form.Description != "Tell us about the workshop" {
		t.Errorf("description = %q", form.Description)
	}
	if len(form.Questions) != 7 {
		t.Fatalf("got %d questions, want 7: %+v", len(form.Questions), form.Questions)
	}
	if form.Diagnostics.PagesTraversed != 1 {
		t.Errorf("pagesTraversed = %d, want 1", form.Diagnostics.PagesTraversed)
	}

	kinds := make([]models.QuestionKind, 0, len(form.Questions))
	for _, q := range form.Questions {
		kinds = append(kinds, q.Kind)
		if q.SectionID != models.MainSectionID {
			t.Errorf("question %q sectionId = %q, want main", q.Title, q.SectionID)
		}
	}
	wantKinds := []models.QuestionKind{
		models.KindShortText,
		models.KindLongText,
		models.KindSingleChoice,
		models.KindSingleChoice,
		models.KindScale,
		models.KindSingleChoice,
		models.KindDate,
	}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds, wantKinds)
	}

	radio := form.Questions[2]
	if want := []string{"Morning", "Afternoon"}; !reflect.DeepEqual(radio.Options, want) {
		t.Errorf("radio options = %v, want %v", radio.Options, want)
	}

	checkbox := form.Questions[3]
	if !checkbox.MultiSelect {
		t.Error("checkbox group should be multi-select")
	}
	if want := []string{"Networking", "Security"}; !reflect.DeepEqual(checkbox.Options, want) {
		t.Errorf("checkbox options = %v, want %v", checkbox.Options, want)
	}

	scale := form.Questions[4]
	if scale.Scale == nil || scale.Scale.Low != 1 || scale.Scale.High != 4 {
		t.Errorf("scale = %+v, want 1..4", scale.Scale)
	}
	if len(scale.Options) != 0 {
		t.Errorf("scale question kept options: %v", scale.Options)
	}

	sel := form.Questions[5]
	if want := []string{"Beginner", "Advanced"}; !reflect.DeepEqual(sel.Options, want) {
		t.Errorf("select options = %v, want %v (placeholder excluded)", sel.Options, want)
	}
}

func TestFromStaticHTML_NoQuestions(t *testing.T) {
	form, err := FromStaticHTML(`<html><head><title>Empty</title></head><body><p>nothing here</p></body></html>`)
	if err != nil {
		t.Fatalf("FromStaticHTML: %v", err)
	}
	if len(form.Questions) != 0 {
		t.Fatalf("got %d questions, want 0", len(form.Questions))
	}
	found := false
	for _, w := range form.Diagnostics.Warnings {
		if strings.Contains(w, "no questions") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing no-questions warning: %v", form.Diagnostics.Warnings)
	}
}

func TestFromStaticHTML_RequiredMarker(t *testing.T) {
	html := `<html><body><form>
	<div role="listitem">
		<div role="heading">Email <span aria-label="Required question">*</span></div>
		<input type="text">
	</div>
	</form></body></html>`

	form, err := FromStaticHTML(html)
	if err != nil {
		t.Fatalf("FromStaticHTML: %v", err)
	}
	if len(form.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(form.Questions))
	}
	if !form.Questions[0].Required {
		t.Error("question with required marker should be required")
	}
}
