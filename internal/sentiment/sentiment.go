// Package sentiment scans diary notes for positive and negative keywords.
//
// Matching is lexical: keywords are counted as raw substrings, so "down" also
// matches inside "downtown". This mirrors how the diary summaries have always
// been scored and keeps existing reports reproducible.
package sentiment

import (
	"strings"

	"github.com/julianstephens/carelog/internal/models"
)

// Label is the overall tone of a set of notes
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

const (
	dominanceRatio = 1.5
	maxKeywords    = 5
)

// Lexicon is a pair of keyword lists for one locale
type Lexicon struct {
	Positive []string
	Negative []string
}

var lexicons = map[string]Lexicon{
	"en": {
		Positive: []string{"good", "energetic", "happy", "calm", "great", "satisfied", "fun", "glad", "relaxed"},
		Negative: []string{"hard", "tired", "down", "anxious", "stress", "unwell", "sick", "unmotivated"},
	},
	"ja": {
		Positive: []string{"良い", "元気", "幸せ", "調子", "穏やか", "最高", "満足", "楽しい", "嬉しい"},
		Negative: []string{"辛い", "疲れ", "沈ん", "不安", "ストレス", "体調", "優れ", "やる気"},
	},
}

// LexiconFor returns the keyword lists for a locale, falling back to English
func LexiconFor(locale string) Lexicon {
	if lex, ok := lexicons[locale]; ok {
		return lex
	}
	return lexicons["en"]
}

// Result is the outcome of a scan
type Result struct {
	Sentiment     Label    `json:"sentiment"`
	PositiveCount int      `json:"positive_count"`
	NegativeCount int      `json:"negative_count"`
	Keywords      []string `json:"keywords"`
}

// Analyze scores text with the given lexicon.
func Analyze(text string, lex Lexicon) Result {
	res := Result{Sentiment: Neutral, Keywords: []string{}}
	if text == "" {
		return res
	}

	seen := make(map[string]bool)
	collect := func(words []string) int {
		total := 0
		for _, word := range words {
			n := strings.Count(text, word)
			if n == 0 {
				continue
			}
			total += n
			if !seen[word] {
				seen[word] = true
				res.Keywords = append(res.Keywords, word)
			}
		}
		return total
	}

	res.PositiveCount = collect(lex.Positive)
	res.NegativeCount = collect(lex.Negative)

	switch {
	case float64(res.PositiveCount) > float64(res.NegativeCount)*dominanceRatio:
		res.Sentiment = Positive
	case float64(res.NegativeCount) > float64(res.PositiveCount)*dominanceRatio:
		res.Sentiment = Negative
	}

	if len(res.Keywords) > maxKeywords {
		res.Keywords = res.Keywords[:maxKeywords]
	}

	return res
}

// AnalyzeLogs joins the free notes of logs with a space and scores them
// using the lexicon for locale.
func AnalyzeLogs(logs []models.DailyLog, locale string) Result {
	return Analyze(JoinNotes(logs), LexiconFor(locale))
}

// JoinNotes concatenates every recorded free note with a single space
func JoinNotes(logs []models.DailyLog) string {
	notes := make([]string, 0, len(logs))
	for _, log := range logs {
		if log.FreeNote != nil {
			notes = append(notes, *log.FreeNote)
		}
	}
	return strings.Join(notes, " ")
}
