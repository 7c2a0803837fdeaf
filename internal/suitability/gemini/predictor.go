package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/talentops/cv-screener/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	// Resumes longer than this are truncated in the prompt to keep the batch
	// within the model's context window.
	maxResumeRunes = 6000
)

// Predictor scores candidate texts against the position keywords with a
// single batched Gemini call. It implements suitability.Predictor.
type Predictor struct {
	generator contentGenerator
	keywords  []string
	logger    *zap.Logger
	maxLogLen int
}

func NewPredictor(generator contentGenerator, keywords []string, maxLogLength int, logger *zap.Logger) *Predictor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Predictor{
		generator: generator,
		keywords:  keywords,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Predict returns one probability in [0,1] per text, positionally aligned
// with the input.
func (p *Predictor) Predict(ctx context.Context, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}

	prompt, err := p.buildPrompt(texts)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini suitability request",
		zap.Int("batch_size", len(texts)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini suitability response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	scores, err := parseScores(raw)
	if err != nil {
		return nil, err
	}

	if len(scores) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d scores for %d resumes", len(scores), len(texts))
	}

	for i, score := range scores {
		scores[i] = clamp01(score)
	}

	return scores, nil
}

func (p *Predictor) buildPrompt(texts []string) (string, error) {
	condensed := make([]string, len(texts))
	for i, text := range texts {
		condensed[i] = truncateRunes(text, maxResumeRunes)
	}

	resumesJSON, err := json.Marshal(condensed)
	if err != nil {
		return "", fmt.Errorf("marshal resume batch: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{KEYWORDS}}", strings.Join(p.keywords, ", "))
	prompt = strings.ReplaceAll(prompt, "{{COUNT}}", strconv.Itoa(len(texts)))
	prompt = strings.ReplaceAll(prompt, "{{RESUMES_JSON}}", string(resumesJSON))
	return prompt, nil
}

// parseScores accepts either a bare JSON array of numbers or an object with a
// "scores" key, with stringly-typed numbers coerced.
func parseScores(raw string) ([]float64, error) {
	cleaned := extractJSON(raw)

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if obj, ok := decoded.(map[string]any); ok {
		var wrapper struct {
			Scores []float64 `mapstructure:"scores"`
		}
		cfg := &mapstructure.DecoderConfig{
			Result:           &wrapper,
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(obj); err != nil {
			return nil, fmt.Errorf("decode gemini response: %w", err)
		}
		return wrapper.Scores, nil
	}

	var scores []float64
	cfg := &mapstructure.DecoderConfig{
		Result:           &scores,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(decoded); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	return scores, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
