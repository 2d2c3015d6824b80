// Package extract pulls form structure out of rendered or static HTML. The
// source UI uses different markup across versions and locales, so every
// lookup is an ordered list of selector groups tried in sequence: the first
// group with a non-empty match wins.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// selectorGroup is one tier of the fallback cascade, precompiled once at
// package init.
type selectorGroup struct {
	name     string
	matchers []cascadia.Selector
}

func group(name string, selectors ...string) selectorGroup {
	g := selectorGroup{name: name}
	for _, s := range selectors {
		g.matchers = append(g.matchers, cascadia.MustCompile(s))
	}
	return g
}

// questionContainerGroups locate the per-question container elements.
var questionContainerGroups = []selectorGroup{
	group("listitem-role", "div[role=listitem]"),
	group("current-markup", "div.Qr7Oae"),
	group("legacy-freebird",
		"div.freebirdFormviewerComponentsQuestionBaseRoot",
		"div.freebirdFormviewerViewNumberedItemContainer"),
	group("generic-form", "form fieldset", "form .question"),
}

// questionTitleGroups locate the title text inside a container.
var questionTitleGroups = []selectorGroup{
	group("heading-role", "div[role=heading]"),
	group("current-markup", "span.M7eMe"),
	group("legacy-freebird", "div.freebirdFormviewerComponentsQuestionBaseTitle"),
	group("generic", "legend", "label", "h3"),
}

// formTitleGroups locate the form-level title on the first page. Question
// headings also carry role=heading, so the generic tier stays at <h1> and
// the document <title> serves as the final fallback.
var formTitleGroups = []selectorGroup{
	group("current-markup", "div.F9yp7e", "div.ahS2Le div[role=heading]"),
	group("legacy-freebird", "div.freebirdFormviewerViewHeaderTitle"),
	group("generic", "h1"),
}

// formDescriptionGroups locate the form-level description block.
var formDescriptionGroups = []selectorGroup{
	group("current-markup", "div.cBGGJ", "div.F9yp7e + div"),
	group("legacy-freebird", "div.freebirdFormviewerViewHeaderDescription"),
}

// firstMatch returns the matches of the first group that selects at least one
// element under root, plus the winning group's name. A simple first-match
// combinator, not a scoring system.
func firstMatch(root *goquery.Selection, groups []selectorGroup) (*goquery.Selection, string) {
	for _, g := range groups {
		for _, m := range g.matchers {
			if sel := root.FindMatcher(m); sel.Length() > 0 {
				return sel, g.name
			}
		}
	}
	return nil, ""
}

// firstText returns the trimmed text of the first element matched by the
// cascade, or "".
func firstText(root *goquery.Selection, groups []selectorGroup) string {
	sel, _ := firstMatch(root, groups)
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.First().Text())
}
