package scoring

import (
	"reflect"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		keywords    []string
		wantScore   float64
		wantMatched []string
	}{
		{
			name:        "three of four",
			text:        "Python and SQL developer with Docker experience",
			keywords:    []string{"docker", "kubernetes", "python", "sql"},
			wantScore:   75.0,
			wantMatched: []string{"docker", "python", "sql"},
		},
		{
			name:        "no matches",
			text:        "nothing relevant here",
			keywords:    []string{"docker", "kubernetes", "python", "sql"},
			wantScore:   0,
			wantMatched: []string{},
		},
		{
			name:        "rounding to one decimal",
			text:        "python",
			keywords:    []string{"java", "perl", "python"},
			wantScore:   33.3,
			wantMatched: []string{"python"},
		},
		{
			name:        "substring containment counts",
			text:        "expert in javascript",
			keywords:    []string{"java"},
			wantScore:   100.0,
			wantMatched: []string{"java"},
		},
		{
			name:        "case insensitive",
			text:        "PYTHON EVERYWHERE",
			keywords:    []string{"python"},
			wantScore:   100.0,
			wantMatched: []string{"python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.text, tt.keywords)

			if got.Score != tt.wantScore {
				t.Fatalf("expected score %v, got %v", tt.wantScore, got.Score)
			}
			if !reflect.DeepEqual(got.Matched, tt.wantMatched) {
				t.Fatalf("expected matched %v, got %v", tt.wantMatched, got.Matched)
			}
			if got.MatchedCount != len(tt.wantMatched) {
				t.Fatalf("expected matched count %d, got %d", len(tt.wantMatched), got.MatchedCount)
			}
			if got.Total != len(tt.keywords) {
				t.Fatalf("expected total %d, got %d", len(tt.keywords), got.Total)
			}
		})
	}
}

func TestScoreEmptyKeywordSet(t *testing.T) {
	got := Score("any text at all", nil)

	if got.Score != 0 {
		t.Fatalf("expected score 0 for empty keyword set, got %v", got.Score)
	}
	if got.Total != 0 {
		t.Fatalf("expected total 0, got %d", got.Total)
	}
}

func TestScoreBounds(t *testing.T) {
	texts := []string{"", "python", "python sql docker", "completely unrelated"}
	keywords := []string{"docker", "python", "sql"}

	for _, text := range texts {
		got := Score(text, keywords)
		if got.Score < 0 || got.Score > 100 {
			t.Fatalf("score %v out of bounds for text %q", got.Score, text)
		}
	}
}

func TestScoreMatchedOrderFollowsKeywords(t *testing.T) {
	text := "sql python docker"

	got := Score(text, []string{"docker", "python", "sql"})
	want := []string{"docker", "python", "sql"}
	if !reflect.DeepEqual(got.Matched, want) {
		t.Fatalf("expected matched order %v, got %v", want, got.Matched)
	}
}
