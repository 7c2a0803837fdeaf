// Package jd loads a job description and extracts the keyword set the ATA
// scorer runs against.
package jd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talentops/cv-screener/internal/extract"
)

// GenericStopwords are terms too broad to rank candidates on; they are
// removed from every extracted keyword set.
var GenericStopwords = []string{
	"cloud", "backend", "frontend", "software", "development",
	"technology", "engineering", "team", "project", "experience",
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ExtractorConfig controls keyword extraction from a job description.
type ExtractorConfig struct {
	// Stopwords replaces GenericStopwords when non-empty.
	Stopwords []string
	// TopN bounds the number of AI keyphrases requested.
	TopN int
	// Generator, when set, contributes contextual keyphrases on top of the
	// static lexicon matches. Its failures are logged and ignored.
	Generator contentGenerator
}

// LoadText reads a job description text file.
func LoadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loading job description %q: %w", path, err)
	}
	return string(data), nil
}

// ExtractKeywords returns the canonical keyword set for a job description:
// lexicon terms appearing anywhere in the lowered text, plus optional AI
// keyphrases, minus stopwords. The result is lowercased, deduplicated and
// sorted so scoring output is reproducible.
func ExtractKeywords(ctx context.Context, text string, lex *extract.Lexicon, cfg *ExtractorConfig, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &ExtractorConfig{}
	}
	if lex == nil {
		lex = extract.DefaultLexicon()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)

	found := make([]string, 0)
	for _, skill := range lex.Skills {
		if strings.Contains(lowered, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}

	if cfg.Generator != nil {
		phrases, err := aiKeyphrases(ctx, cfg.Generator, text, cfg.TopN)
		if err != nil {
			logger.Warn("ai keyphrase extraction failed, using lexicon matches only", zap.Error(err))
		} else {
			found = append(found, phrases...)
		}
	}

	stopwords := cfg.Stopwords
	if len(stopwords) == 0 {
		stopwords = GenericStopwords
	}

	return Canonicalize(found, stopwords)
}

// Canonicalize lowercases, trims, deduplicates and sorts a keyword set,
// dropping stopwords and empty entries.
func Canonicalize(keywords, stopwords []string) []string {
	stop := make(map[string]bool, len(stopwords))
	for _, word := range stopwords {
		stop[strings.ToLower(strings.TrimSpace(word))] = true
	}

	seen := make(map[string]bool, len(keywords))
	result := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" || stop[keyword] || seen[keyword] {
			continue
		}
		seen[keyword] = true
		result = append(result, keyword)
	}

	sort.Strings(result)
	return result
}

const keyphrasePrompt = `Extract the %d most important skills and requirements from this job description.
Respond with ONLY a JSON array of short lowercase keyphrases (1-3 words each).

Job description:
%s`

const defaultTopN = 12

func aiKeyphrases(ctx context.Context, generator contentGenerator, text string, topN int) ([]string, error) {
	if topN <= 0 {
		topN = defaultTopN
	}

	raw, err := generator.GenerateContent(ctx, fmt.Sprintf(keyphrasePrompt, topN, text))
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var phrases []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &phrases); err != nil {
		return nil, fmt.Errorf("parse keyphrase response: %w", err)
	}
	return phrases, nil
}
