// Package scoring computes the applicant-text-analysis (ATA) score: the
// percentage of job-description keywords found in a candidate's document text.
package scoring

import (
	"math"
	"strings"
)

// Result is the outcome of scoring one document against a keyword set.
type Result struct {
	Score        float64
	Matched      []string
	MatchedCount int
	Total        int
}

// Score checks each keyword for case-insensitive substring containment in the
// text and returns the match percentage rounded to one decimal. A keyword that
// is a substring of a longer token still counts as matched. The matched list
// preserves the order of the keywords argument, so callers that canonicalize
// their keyword set get reproducible output. An empty keyword set scores 0.
func Score(text string, keywords []string) Result {
	lowered := strings.ToLower(text)

	matched := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}

	result := Result{
		Matched:      matched,
		MatchedCount: len(matched),
		Total:        len(keywords),
	}

	if result.Total > 0 {
		result.Score = Round1(100 * float64(result.MatchedCount) / float64(result.Total))
	}

	return result
}

// Round1 rounds to one decimal place, the precision every score in the
// candidate table is reported at.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
