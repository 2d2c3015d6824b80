package models

import (
	"reflect"
	"testing"
)

func TestContiguousRun(t *testing.T) {
	tests := []struct {
		name string
		opts []string
		low  int
		high int
		ok   bool
	}{
		{"one to five", []string{"1", "2", "3", "4", "5"}, 1, 5, true},
		{"zero based", []string{"0", "1", "2", "3"}, 0, 3, true},
		{"whitespace tolerated", []string{" 1", "2 ", " 3 "}, 1, 3, true},
		{"too short", []string{"1", "2"}, 0, 0, false},
		{"too long", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}, 0, 0, false},
		{"gap", []string{"1", "2", "4"}, 0, 0, false},
		{"descending", []string{"3", "2", "1"}, 0, 0, false},
		{"non numeric", []string{"1", "two", "3"}, 0, 0, false},
		{"empty", nil, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low, high, ok := ContiguousRun(tt.opts)
			if low != tt.low || high != tt.high || ok != tt.ok {
				t.Errorf("ContiguousRun(%v) = (%d, %d, %v), want (%d, %d, %v)",
					tt.opts, low, high, ok, tt.low, tt.high, tt.ok)
			}
		})
	}
}

func TestDedupeOptions(t *testing.T) {
	got := DedupeOptions([]string{"Red", " Blue ", "Red", "", "Green", "Blue"})
	want := []string{"Red", "Blue", "Green"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeOptions = %v, want %v", got, want)
	}

	if got := DedupeOptions(nil); len(got) != 0 {
		t.Errorf("DedupeOptions(nil) = %v, want empty", got)
	}
}

func TestDiagnosticsAddWarning(t *testing.T) {
	var d Diagnostics
	d.AddWarning("first")
	d.AddWarning("first")
	d.AddWarning("  ")
	d.AddWarning("second")

	want := []string{"first", "second"}
	if !reflect.DeepEqual(d.Warnings, want) {
		t.Errorf("warnings = %v, want %v", d.Warnings, want)
	}
}

func TestDiagnosticsMergeWarnings(t *testing.T) {
	a := Diagnostics{Warnings: []string{"shared", "only a"}}
	b := Diagnostics{Warnings: []string{"shared", "only b"}}
	a.MergeWarnings(b)

	want := []string{"shared", "only a", "only b"}
	if !reflect.DeepEqual(a.Warnings, want) {
		t.Errorf("merged warnings = %v, want %v", a.Warnings, want)
	}
}

func TestNewExtractedForm(t *testing.T) {
	f := NewExtractedForm()
	if f.Sections == nil || f.Questions == nil {
		t.Error("slices must be non-nil for serialization")
	}
	if f.SourceID != SourceIDUnknown {
		t.Errorf("sourceId = %q, want unknown", f.SourceID)
	}
}

func TestSectionByID(t *testing.T) {
	f := NewExtractedForm()
	f.Sections = append(f.Sections, Section{ID: "page_2", Title: "Details", Order: 2})

	if s, ok := f.SectionByID("page_2"); !ok || s.Title != "Details" {
		t.Errorf("SectionByID(page_2) = (%+v, %v)", s, ok)
	}
	if _, ok := f.SectionByID("missing"); ok {
		t.Error("SectionByID(missing) should not be found")
	}
}
