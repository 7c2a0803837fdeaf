// Package suitability defines the contract with the learned suitability
// model. The model itself lives outside this system; the pipeline only
// consumes probabilities.
package suitability

import (
	"context"

	"github.com/talentops/cv-screener/internal/scoring"
)

// Predictor scores a batch of candidate texts. Implementations must return
// one probability in [0,1] per input text, positionally aligned, and must be
// invoked exactly once per pipeline run over the full collection.
type Predictor interface {
	Predict(ctx context.Context, texts []string) ([]float64, error)
}

// Percentage converts a model probability into the percentage form stored on
// candidate records.
func Percentage(p float64) float64 {
	return scoring.Round1(p * 100)
}
