package analytics

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	minFeedbackLen  = 30
	maxFeedbackRows = 100
)

// freeTextBlocks collects the longer visible text runs of a summary page,
// which is how long-answer responses render there. Chart labels and page
// chrome are short, so a length floor filters them out.
func freeTextBlocks(rawHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var blocks []string
	doc.Find("div, span, p, li").Each(func(_ int, s *goquery.Selection) {
		if len(blocks) >= maxFeedbackRows || s.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) < minFeedbackLen {
			return
		}
		if reResponseCount.MatchString(text) {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		blocks = append(blocks, text)
	})
	return blocks
}
