package candidate

import (
	"strconv"
	"strings"

	"github.com/talentops/cv-screener/internal/extract"
)

// Columns is the fixed column order of the candidate table.
var Columns = []string{
	"filename",
	"name",
	"email",
	"skills",
	"experience",
	"education",
	"ata_score",
	"ml_score",
	"matched_count",
	"total_keywords",
	"matched_keywords",
}

// Record is one structured, scored representation of a single input document.
// MLScore is nil when the suitability model did not run, which is distinct
// from a computed score of zero.
type Record struct {
	Filename        string             `json:"filename" mapstructure:"filename"`
	Name            string             `json:"name" mapstructure:"name"`
	Email           string             `json:"email" mapstructure:"email"`
	Skills          []string           `json:"skills" mapstructure:"skills"`
	Experience      extract.Experience `json:"experience" mapstructure:"experience"`
	Education       string             `json:"education" mapstructure:"education"`
	AtaScore        float64            `json:"ata_score" mapstructure:"ata_score"`
	MLScore         *float64           `json:"ml_score" mapstructure:"ml_score"`
	MatchedCount    int                `json:"matched_count" mapstructure:"matched_count"`
	TotalKeywords   int                `json:"total_keywords" mapstructure:"total_keywords"`
	MatchedKeywords []string           `json:"matched_keywords" mapstructure:"matched_keywords"`
}

// dedupKey identifies a candidate for deduplication. Multi-submission is a
// known scenario; two records with the same email and name are one candidate.
type dedupKey struct {
	email string
	name  string
}

func (r *Record) key() dedupKey {
	return dedupKey{email: r.Email, name: r.Name}
}

// Cells renders the record in Columns order. Education entries are rendered
// one per line and the ML score cell is empty when the score was not computed.
func (r *Record) Cells() []string {
	mlScore := ""
	if r.MLScore != nil {
		mlScore = strconv.FormatFloat(*r.MLScore, 'f', 1, 64)
	}

	return []string{
		r.Filename,
		r.Name,
		r.Email,
		strings.Join(r.Skills, ", "),
		r.Experience.String(),
		strings.ReplaceAll(r.Education, "; ", "\n"),
		strconv.FormatFloat(r.AtaScore, 'f', 1, 64),
		mlScore,
		strconv.Itoa(r.MatchedCount),
		strconv.Itoa(r.TotalKeywords),
		strings.Join(r.MatchedKeywords, ", "),
	}
}
