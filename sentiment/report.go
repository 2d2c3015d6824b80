package sentiment

import (
	"strings"
)

// Parts is one comment split into sentence groups by polarity, so a mixed
// comment ("great talks, terrible venue") contributes to both sides of a
// report instead of being flattened to one label.
type Parts struct {
	PositivePart string `json:"positivePart"`
	NegativePart string `json:"negativePart"`
	NeutralPart  string `json:"neutralPart"`
}

// Bucket aggregates the comments of one label.
type Bucket struct {
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Comments   []string `json:"comments"`
}

// Report is the aggregate sentiment breakdown of a feedback set.
type Report struct {
	Positive Bucket `json:"positive"`
	Negative Bucket `json:"negative"`
	Neutral  Bucket `json:"neutral"`
	Total    int    `json:"total"`
}

// SplitBySentiment groups a comment's sentences by their polarity balance.
// Sentences near zero go to the neutral part.
func (a *Analyzer) SplitBySentiment(text string) Parts {
	var positive, negative, neutral []string
	for _, sentence := range splitSentences(text) {
		balance := sentenceBalance(sentence)
		switch {
		case balance > 0.3:
			positive = append(positive, sentence)
		case balance < -0.3:
			negative = append(negative, sentence)
		default:
			neutral = append(neutral, sentence)
		}
	}
	return Parts{
		PositivePart: joinSentences(positive),
		NegativePart: joinSentences(negative),
		NeutralPart:  joinSentences(neutral),
	}
}

// GenerateReport analyzes every non-empty comment and buckets it by label,
// with percentages over the analyzed total.
func (a *Analyzer) GenerateReport(feedbacks []string) *Report {
	report := &Report{
		Positive: Bucket{Comments: []string{}},
		Negative: Bucket{Comments: []string{}},
		Neutral:  Bucket{Comments: []string{}},
	}

	for _, text := range feedbacks {
		if strings.TrimSpace(text) == "" {
			continue
		}
		report.Total++
		switch a.Analyze(text).Label {
		case Positive:
			report.Positive.Count++
			report.Positive.Comments = append(report.Positive.Comments, text)
		case Negative:
			report.Negative.Count++
			report.Negative.Comments = append(report.Negative.Comments, text)
		default:
			report.Neutral.Count++
			report.Neutral.Comments = append(report.Neutral.Comments, text)
		}
	}

	if report.Total > 0 {
		report.Positive.Percentage = percentage(report.Positive.Count, report.Total)
		report.Negative.Percentage = percentage(report.Negative.Count, report.Total)
		report.Neutral.Percentage = percentage(report.Neutral.Count, report.Total)
	}
	return report
}

func percentage(count, total int) float64 {
	return float64(count) / float64(total) * 100
}

// sentenceBalance is the positive minus negative lexicon weight of one
// sentence.
func sentenceBalance(sentence string) float64 {
	p, n := scoreWords(strings.ToLower(stripEmoji(sentence)))
	return p - n
}

func splitSentences(text string) []string {
	normalized := strings.NewReplacer("!", ".", "?", ".").Replace(text)
	var sentences []string
	for _, s := range strings.Split(normalized, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func joinSentences(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}
