package summary

import (
	"github.com/julianstephens/carelog/internal/sentiment"
	"github.com/julianstephens/carelog/internal/stats"
)

// templates holds the sentence fragments for one locale
type templates struct {
	sep             string
	empty           string
	opening         string
	mood            string
	moodLevels      [3]string
	trends          map[stats.Trend]string
	sleep           string
	sleepTiers      map[stats.SleepTier]string
	adherence       string
	adherenceLevels [3]string
	sentiments      map[sentiment.Label]string
	keywords        string
	keywordFormat   string
	keywordSep      string
	noKeywords      string
	closings        [3]string
}

var locales = map[string]templates{
	"en": {
		sep:        " ",
		empty:      "No data was recorded for the selected period.",
		opening:    "Summary of records for %s.",
		mood:       "Mood has been %s with %s.",
		moodLevels: [3]string{"good", "stable", "somewhat low"},
		trends: map[stats.Trend]string{
			stats.TrendImproving: "an improving trend",
			stats.TrendDeclining: "a declining trend",
			stats.TrendStable:    "a stable trend",
		},
		sleep: "Sleep averaged %s hours, reflecting %s.",
		sleepTiers: map[stats.SleepTier]string{
			stats.SleepGood:             "good sleep",
			stats.SleepFair:             "fair sleep",
			stats.SleepNeedsImprovement: "sleep that needs improvement",
			stats.SleepInsufficient:     "insufficient sleep data",
		},
		adherence:       "Medication adherence was %s%%, which is %s.",
		adherenceLevels: [3]string{"good", "mostly good", "leaving room for improvement"},
		sentiments: map[sentiment.Label]string{
			sentiment.Positive: "The diary reflects a largely positive outlook,",
			sentiment.Negative: "The diary shows signs of anxiety and fatigue,",
			sentiment.Neutral:  "The diary entries are fairly steady,",
		},
		keywords:      "with expressions such as %s standing out.",
		keywordFormat: "%q",
		keywordSep:    ", ",
		noKeywords:    "describing mostly everyday matters.",
		closings: [3]string{
			"Overall, a good condition is being maintained.",
			"Things are broadly stable, with room for further improvement.",
			"Paying closer attention to health management is recommended.",
		},
	},
	"ja": {
		sep:        "",
		empty:      "選択された期間にはデータが記録されていません。",
		opening:    "%sの記録を分析した結果、",
		mood:       "気分は%sで%sを示しています。",
		moodLevels: [3]string{"良好", "安定", "やや低調"},
		trends: map[stats.Trend]string{
			stats.TrendImproving: "改善傾向",
			stats.TrendDeclining: "下降傾向",
			stats.TrendStable:    "安定",
		},
		sleep: "睡眠時間は平均%s時間で、%sです。",
		sleepTiers: map[stats.SleepTier]string{
			stats.SleepGood:             "良好な睡眠状態",
			stats.SleepFair:             "普通の睡眠状態",
			stats.SleepNeedsImprovement: "睡眠の改善が必要",
			stats.SleepInsufficient:     "睡眠データが不足しています",
		},
		adherence:       "服薬遵守率は%s%%で%sです。",
		adherenceLevels: [3]string{"良好", "概ね良好", "改善の余地"},
		sentiments: map[sentiment.Label]string{
			sentiment.Positive: "日記からは前向きな気持ちが多く感じられ、",
			sentiment.Negative: "日記からは不安や疲労感が表れており、",
			sentiment.Neutral:  "日記の内容は比較的安定しており、",
		},
		keywords:      "「%s」といった表現が特徴的です。",
		keywordFormat: "%s",
		keywordSep:    "、",
		noKeywords:    "日常的な内容が記録されています。",
		closings: [3]string{
			"全体的に良好な状態を維持されています。",
			"概ね安定した状態ですが、さらなる改善の可能性があります。",
			"体調管理により一層の注意を払うことをお勧めします。",
		},
	},
}

func templatesFor(locale string) templates {
	if t, ok := locales[locale]; ok {
		return t
	}
	return locales["en"]
}
