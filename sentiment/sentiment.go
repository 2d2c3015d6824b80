// Package sentiment classifies free-text feedback as positive, negative, or
// neutral. Feedback on imported forms is frequently mixed English and
// Tagalog/Filipino, so the lexicon covers both plus common code-switching
// phrases; scoring is lexicon-and-context based with no external model.
package sentiment

import (
	"strings"
)

// Label is the sentiment classification of one comment.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Result is the outcome of analyzing one comment.
type Result struct {
	Label Label `json:"label"`

	// Score is the positive minus negative lexicon weight after negation
	// and intensity adjustments. Zero for empty input.
	Score float64 `json:"score"`

	// Confidence grows with the score magnitude, capped at 0.95.
	Confidence float64 `json:"confidence"`
}

// Word weights. Phrases are matched before words and carry more weight
// because they are less ambiguous than isolated tokens.
var positiveWords = map[string]float64{
	// English
	"excellent": 2, "outstanding": 2, "perfect": 2, "great": 1.5,
	"good": 1, "helpful": 1, "informative": 1.5, "insightful": 1.5,
	"valuable": 1.5, "useful": 1, "inspiring": 1.5, "engaging": 1,
	"enjoyed": 1.5, "enjoyable": 1, "fun": 1, "interesting": 1,
	"organized": 1, "smooth": 1, "professional": 1, "effective": 1,
	"efficient": 1, "successful": 1, "productive": 1, "satisfied": 1,
	"memorable": 1.5, "grateful": 1, "appreciate": 1, "appreciated": 1,
	"thankful": 1, "recommend": 1.5, "recommended": 1.5, "nice": 1,
	"solid": 1, "amazing": 2, "wonderful": 1.5,
	// Tagalog
	"maganda": 1, "mabuti": 1, "masaya": 1, "nakakatuwa": 1, "galing": 1,
	"magaling": 1, "husay": 1, "mahusay": 1, "maayos": 1, "astig": 1,
	"sulit": 1, "salamat": 1, "natuto": 1, "natutunan": 1, "nakatulong": 1,
	"tagumpay": 1, "swabe": 1, "lupet": 1.5,
}

var negativeWords = map[string]float64{
	// English
	"bad": 1, "terrible": 1.5, "awful": 1.5, "worst": 2, "horrible": 1.5,
	"poor": 1, "boring": 1, "disappointed": 1, "disappointing": 1,
	"failed": 1, "problem": 0.7, "issue": 0.7, "incomplete": 0.7,
	"crowded": 0.8, "difficult": 0.8, "frustrated": 1, "frustrating": 1,
	"disorganized": 1, "chaotic": 1, "confusing": 0.8, "unclear": 0.7,
	"messy": 0.8, "noisy": 0.6, "uncomfortable": 0.7, "rushed": 0.8,
	"late": 0.7, "delayed": 0.7, "unprepared": 0.8, "unprofessional": 1,
	"lacking": 0.7, "inadequate": 0.8, "insufficient": 0.7,
	"mediocre": 0.6, "underwhelming": 0.7, "bored": 0.7, "tired": 0.6,
	// Tagalog
	"masama": 1, "pangit": 1, "nakakainis": 1, "nakakaasar": 1,
	"nakakaantok": 1, "sayang": 1, "problema": 0.7, "mali": 0.8,
	"kulang": 0.7, "kakulangan": 0.8, "magulo": 0.8, "masikip": 0.7,
	"nahirapan": 0.8, "matagal": 0.6, "mabagal": 0.6, "napagod": 0.6,
	"nakakabore": 0.8, "nakakasawa": 0.7, "dismayado": 1, "nabigo": 1,
}

var positivePhrases = []string{
	"very good", "the best", "well done", "job well done", "great job",
	"excellent work", "love it", "loved it", "worth it", "highly recommend",
	"must attend", "thank you so much", "well-organized", "well organized",
	"well-planned", "well-prepared",
	"ang ganda", "sobrang ganda", "napakaganda", "ang galing",
	"sobrang galing", "napakagaling", "maraming salamat", "sobrang saya",
	"napakasaya", "ang saya", "sulit sa oras", "bet ko",
}

var negativePhrases = []string{
	"not good", "not great", "not well", "waste of time", "bad experience",
	"poor quality", "very bad", "so bad", "nothing special",
	"hindi maganda", "walang kwenta", "sayang lang", "hindi maayos",
	"hindi okay", "hindi ayos", "di maayos", "di maganda", "ang sama",
	"sobrang pangit", "napakapangit", "sobrang masama", "napakamasama",
}

// neutralIndicators mark lukewarm comments that should not be tipped
// positive or negative by a single weak lexicon hit.
var neutralIndicators = []string{
	"okay", "ok", "alright", "fine", "so-so", "average", "normal",
	"decent", "fair", "passable", "adequate", "acceptable",
	"okay lang", "ok lang", "oks lang", "ayos lang", "pwede na",
	"pwede naman", "ganon lang", "ganun lang", "sige lang", "normal lang",
	"siguro", "medyo",
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {},
	"hindi": {}, "wala": {}, "walang": {}, "di": {},
}

var intensifiers = map[string]struct{}{
	"very": {}, "really": {}, "extremely": {}, "super": {}, "so": {},
	"too": {}, "sobra": {}, "sobrang": {}, "napaka": {}, "labis": {},
	"grabe": {}, "talaga": {},
}

var diminishers = map[string]struct{}{
	"slightly": {}, "somewhat": {}, "medyo": {}, "konti": {},
	"kaunti": {}, "bahagya": {},
}

// textEmoticons are ASCII emoticons stripped along with Unicode emoji before
// scoring, so decorations cannot tip a rating.
var textEmoticons = []string{":)", ":-)", ":D", ":(", ":-(", "D:"}

// Analyzer scores comments against the bilingual lexicon. Stateless and safe
// for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies one comment. Empty input (or input that is nothing but
// emoji) is neutral with zero confidence.
func (a *Analyzer) Analyze(text string) Result {
	cleaned := stripEmoji(text)
	if strings.TrimSpace(cleaned) == "" {
		return Result{Label: Neutral}
	}
	lower := strings.ToLower(cleaned)

	var pos, neg float64
	for _, p := range positivePhrases {
		if strings.Contains(lower, p) {
			pos += 2.5
		}
	}
	for _, p := range negativePhrases {
		if strings.Contains(lower, p) {
			neg += 2.5
		}
	}

	neutralHits := 0
	for _, n := range neutralIndicators {
		if containsWordOrPhrase(lower, n) {
			neutralHits++
		}
	}

	wp, wn := scoreWords(lower)
	pos += wp
	neg += wn

	total := pos - neg
	switch {
	case neutralHits >= 1 && pos < 1.5 && neg < 1.0:
		return Result{Label: Neutral, Score: total, Confidence: 0.7}
	case total > 1.0:
		return Result{Label: Positive, Score: total, Confidence: capConfidence(total)}
	case total < -1.0:
		return Result{Label: Negative, Score: total, Confidence: capConfidence(-total)}
	default:
		return Result{Label: Neutral, Score: total, Confidence: 0.65}
	}
}

func capConfidence(magnitude float64) float64 {
	c := 0.5 + magnitude/5
	if c > 0.95 {
		return 0.95
	}
	return c
}

// scoreWords walks the tokens applying negation (within the two preceding
// words, flipping the polarity) and intensity multipliers from the
// immediately preceding word.
func scoreWords(lower string) (pos, neg float64) {
	words := strings.Fields(lower)
	for i, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()")

		negated := false
		for j := max(0, i-2); j < i; j++ {
			if _, ok := negations[strings.Trim(words[j], ".,!?;:\"'()")]; ok {
				negated = true
				break
			}
		}

		multiplier := 1.0
		if i > 0 {
			prev := strings.Trim(words[i-1], ".,!?;:\"'()")
			if _, ok := intensifiers[prev]; ok {
				multiplier = 1.5
			} else if _, ok := diminishers[prev]; ok {
				multiplier = 0.5
			}
		}

		if w, ok := positiveWords[word]; ok {
			if negated {
				neg += w * multiplier
			} else {
				pos += w * multiplier
			}
		} else if w, ok := negativeWords[word]; ok {
			if negated {
				pos += w * multiplier
			} else {
				neg += w * multiplier
			}
		}
	}
	return pos, neg
}

// containsWordOrPhrase matches multi-word indicators by substring and single
// words on token boundaries, so "okay" does not fire inside "okayed".
func containsWordOrPhrase(lower, indicator string) bool {
	if strings.Contains(indicator, " ") || strings.Contains(indicator, "-") {
		return strings.Contains(lower, indicator)
	}
	for _, w := range strings.Fields(lower) {
		if strings.Trim(w, ".,!?;:\"'()") == indicator {
			return true
		}
	}
	return false
}

// stripEmoji removes Unicode emoji blocks and ASCII emoticons.
func stripEmoji(text string) string {
	for _, e := range textEmoticons {
		text = strings.ReplaceAll(text, e, "")
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x1F300 && r <= 0x1FAFF, // pictographs, emoticons, symbols
			r >= 0x2600 && r <= 0x27BF, // misc symbols and dingbats
			r >= 0x1F1E6 && r <= 0x1F1FF, // regional indicators
			r == 0xFE0F: // variation selector
			return -1
		}
		return r
	}, text)
}
