package sentiment

import (
	"reflect"
	"testing"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

func TestAnalyze(t *testing.T) {
	en := LexiconFor("en")

	tests := []struct {
		name         string
		text         string
		wantLabel    Label
		wantPos      int
		wantNeg      int
		wantKeywords []string
	}{
		{
			name:         "empty",
			text:         "",
			wantLabel:    Neutral,
			wantKeywords: []string{},
		},
		{
			name:         "clearly positive",
			text:         "felt happy and calm, a good day",
			wantLabel:    Positive,
			wantPos:      3,
			wantKeywords: []string{"good", "happy", "calm"},
		},
		{
			name:         "clearly negative",
			text:         "tired and anxious, stress all day",
			wantLabel:    Negative,
			wantNeg:      3,
			wantKeywords: []string{"tired", "anxious", "stress"},
		},
		{
			name:         "balanced is neutral",
			text:         "good morning but tired by evening",
			wantLabel:    Neutral,
			wantPos:      1,
			wantNeg:      1,
			wantKeywords: []string{"good", "tired"},
		},
		{
			name:         "substring inside a larger word",
			text:         "walked downtown",
			wantLabel:    Negative,
			wantNeg:      1,
			wantKeywords: []string{"down"},
		},
		{
			name:         "repeated occurrences count",
			text:         "good good good tired",
			wantLabel:    Positive,
			wantPos:      3,
			wantNeg:      1,
			wantKeywords: []string{"good", "tired"},
		},
		{
			name:         "ratio boundary stays neutral",
			text:         "happy glad good tired down",
			wantLabel:    Neutral,
			wantPos:      3,
			wantNeg:      2,
			wantKeywords: []string{"good", "happy", "glad", "tired", "down"},
		},
		{
			name:         "keywords capped at five",
			text:         "good happy calm great fun glad",
			wantLabel:    Positive,
			wantPos:      6,
			wantKeywords: []string{"good", "happy", "calm", "great", "fun"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text, en)
			if got.Sentiment != tt.wantLabel {
				t.Errorf("Sentiment = %q, want %q", got.Sentiment, tt.wantLabel)
			}
			if got.PositiveCount != tt.wantPos || got.NegativeCount != tt.wantNeg {
				t.Errorf("counts = %d/%d, want %d/%d", got.PositiveCount, got.NegativeCount, tt.wantPos, tt.wantNeg)
			}
			if !reflect.DeepEqual(got.Keywords, tt.wantKeywords) {
				t.Errorf("Keywords = %v, want %v", got.Keywords, tt.wantKeywords)
			}
		})
	}
}

func TestAnalyzeJapanese(t *testing.T) {
	got := Analyze("今日は元気で調子が良い。楽しい一日だった。", LexiconFor("ja"))
	if got.Sentiment != Positive {
		t.Errorf("Sentiment = %q, want positive", got.Sentiment)
	}
	want := []string{"良い", "元気", "調子", "楽しい"}
	if !reflect.DeepEqual(got.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", got.Keywords, want)
	}

	got = Analyze("疲れて気分が沈んでいる。不安が強い。", LexiconFor("ja"))
	if got.Sentiment != Negative {
		t.Errorf("Sentiment = %q, want negative", got.Sentiment)
	}
}

func TestAnalyzeLogs(t *testing.T) {
	logs := []models.DailyLog{
		{FreeNote: utils.String("felt hap")},
		{FreeNote: nil},
		{FreeNote: utils.String("py today")},
	}
	// Notes are joined with a space so words never fuse across days
	got := AnalyzeLogs(logs, "en")
	if got.PositiveCount != 0 {
		t.Errorf("PositiveCount = %d, want 0", got.PositiveCount)
	}
	if JoinNotes(logs) != "felt hap py today" {
		t.Errorf("JoinNotes() = %q", JoinNotes(logs))
	}
}

func TestLexiconFallback(t *testing.T) {
	if !reflect.DeepEqual(LexiconFor("de"), LexiconFor("en")) {
		t.Error("unknown locale should fall back to en lexicon")
	}
}
