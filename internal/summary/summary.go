// Package summary composes the narrative paragraph shown on reports.
// Output is deterministic: the same inputs always yield the same text.
package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/sentiment"
	"github.com/julianstephens/carelog/internal/stats"
	"github.com/julianstephens/carelog/internal/utils"
)

const keywordsInSummary = 3

// Input is everything the generator needs about a period
type Input struct {
	PeriodLabel string
	LogCount    int
	Stats       stats.Statistics
	Trend       stats.Trend
	Sleep       stats.SleepTier
	Sentiment   sentiment.Result
}

// FromLogs runs the full pipeline over the logs of one period: statistics,
// mood trend, sleep pattern and diary sentiment.
func FromLogs(logs []models.DailyLog, periodLabel, locale string) Input {
	return Input{
		PeriodLabel: periodLabel,
		LogCount:    len(logs),
		Stats:       stats.Compute(logs),
		Trend:       stats.ClassifyTrend(stats.MoodSeries(logs)),
		Sleep:       stats.SleepPattern(logs),
		Sentiment:   sentiment.AnalyzeLogs(logs, locale),
	}
}

// Generate builds the summary paragraph for a locale, truncated to
// constants.MaxSummaryRunes characters.
func Generate(in Input, locale string) string {
	tpl := templatesFor(locale)

	if in.LogCount == 0 {
		return tpl.empty
	}

	parts := []string{fmt.Sprintf(tpl.opening, in.PeriodLabel)}

	if in.Stats.MoodAvg != nil {
		parts = append(parts, fmt.Sprintf(tpl.mood, tpl.moodLevels[moodLevel(*in.Stats.MoodAvg)], tpl.trends[trendOrStable(in.Trend)]))
	}

	if in.Stats.SleepAvg != nil {
		parts = append(parts, fmt.Sprintf(tpl.sleep, formatNumber(utils.Round(*in.Stats.SleepAvg, 1)), tpl.sleepTiers[tierOrInsufficient(in.Sleep)]))
	}

	if in.Stats.AdherenceRate > 0 {
		parts = append(parts, fmt.Sprintf(tpl.adherence, formatNumber(in.Stats.AdherenceRate), tpl.adherenceLevels[adherenceLevel(in.Stats.AdherenceRate)]))
	}

	label := in.Sentiment.Sentiment
	if label == "" {
		label = sentiment.Neutral
	}
	parts = append(parts, tpl.sentiments[label])

	if len(in.Sentiment.Keywords) > 0 {
		keywords := in.Sentiment.Keywords
		if len(keywords) > keywordsInSummary {
			keywords = keywords[:keywordsInSummary]
		}
		quoted := make([]string, len(keywords))
		for i, k := range keywords {
			quoted[i] = fmt.Sprintf(tpl.keywordFormat, k)
		}
		parts = append(parts, fmt.Sprintf(tpl.keywords, strings.Join(quoted, tpl.keywordSep)))
	} else {
		parts = append(parts, tpl.noKeywords)
	}

	parts = append(parts, tpl.closings[scoreTier(Score(in.Stats))])

	return utils.TruncateRunes(strings.Join(parts, tpl.sep), constants.MaxSummaryRunes)
}

// Score is the 0-100 composite used to pick the closing sentence.
// Mood contributes up to 30, sleep up to 30 and adherence up to 40.
// Undefined statistics contribute nothing.
func Score(st stats.Statistics) float64 {
	var score float64
	if st.MoodAvg != nil {
		score += *st.MoodAvg / 5 * 30
	}
	if st.SleepAvg != nil {
		score += math.Min(*st.SleepAvg/8, 1) * 30
	}
	score += st.AdherenceRate / 100 * 40
	return score
}

func moodLevel(avg float64) int {
	switch {
	case avg >= 4:
		return 0
	case avg >= 3:
		return 1
	default:
		return 2
	}
}

func adherenceLevel(rate float64) int {
	switch {
	case rate >= 90:
		return 0
	case rate >= 75:
		return 1
	default:
		return 2
	}
}

func scoreTier(score float64) int {
	switch {
	case score >= 80:
		return 0
	case score >= 60:
		return 1
	default:
		return 2
	}
}

func trendOrStable(t stats.Trend) stats.Trend {
	if t == "" {
		return stats.TrendStable
	}
	return t
}

func tierOrInsufficient(t stats.SleepTier) stats.SleepTier {
	if t == "" {
		return stats.SleepInsufficient
	}
	return t
}

// formatNumber prints a rounded value without trailing zeros ("7", "7.5")
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
