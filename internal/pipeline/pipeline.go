// Package pipeline orchestrates a screening run: per-document field
// extraction and ATA scoring, routing of source files into partitions, one
// batched suitability call, and final rank/dedup/normalize of the candidate
// table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"go.uber.org/zap"

	"github.com/talentops/cv-screener/internal/candidate"
	"github.com/talentops/cv-screener/internal/document"
	"github.com/talentops/cv-screener/internal/extract"
	"github.com/talentops/cv-screener/internal/scoring"
	"github.com/talentops/cv-screener/internal/suitability"
)

var (
	// ErrNoKeywords is returned when a run is configured with an empty
	// keyword set: every candidate would score 0 and the table would be
	// meaningless.
	ErrNoKeywords = errors.New("keyword set is empty")

	// ErrModelUnavailable marks a failed suitability batch. The run still
	// produces an ATA-only table unless the model is configured as required.
	ErrModelUnavailable = errors.New("suitability model unavailable")
)

// TextExtractor converts a raw document to plain text.
type TextExtractor interface {
	Text(ctx context.Context, doc document.Document) (string, error)
}

// Store routes a source document into the accepted or rejected partition.
type Store interface {
	Store(filename string, accepted bool) error
}

// Config controls a single run. UseModel is explicit so runs are reproducible
// in isolation; there is no ambient model toggle.
type Config struct {
	// Keywords is the canonical job-description keyword set.
	Keywords []string
	// Threshold is the minimum ATA score routed to the accepted partition.
	// It affects storage routing only, never table membership.
	Threshold float64
	// UseModel enables the batched suitability call. When false every record
	// gets a nil ml_score, never 0.
	UseModel bool
	// ModelRequired aborts the run on suitability failure instead of
	// degrading to an ATA-only table.
	ModelRequired bool
	// Workers bounds parallel document processing.
	Workers int
	// DocumentTimeout bounds text extraction per document; a timeout is
	// treated like any extraction failure (skip, log, continue).
	DocumentTimeout time.Duration
}

// Deps aggregates the run's collaborators.
type Deps struct {
	Texts     TextExtractor
	Fields    *extract.Extractor
	Predictor suitability.Predictor
	Store     Store
	Logger    *zap.Logger
}

type Pipeline struct {
	cfg  *Config
	deps *Deps
}

const (
	defaultWorkers         = 4
	defaultDocumentTimeout = 30 * time.Second
)

func New(cfg *Config, deps *Deps) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if len(cfg.Keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if deps == nil || deps.Texts == nil || deps.Fields == nil {
		return nil, errors.New("text extractor and field extractor are required")
	}
	if cfg.UseModel && deps.Predictor == nil {
		return nil, errors.New("predictor is required when the suitability model is enabled")
	}

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.DocumentTimeout <= 0 {
		cfg.DocumentTimeout = defaultDocumentTimeout
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Pipeline{cfg: cfg, deps: deps}, nil
}

// outcome pairs a finished record with the lowered text the suitability model
// scores. Text lives here, not on the record, so no output row ever carries
// raw document text.
type outcome struct {
	record *candidate.Record
	text   string
}

// Run processes every document and returns the ranked, deduplicated candidate
// table. A malformed document never aborts the run; it is logged and skipped.
// When the suitability batch fails and the model is not required, the
// ATA-only table is returned together with ErrModelUnavailable.
func (p *Pipeline) Run(ctx context.Context, docs []document.Document) (*candidate.Table, error) {
	results := make([]*outcome, len(docs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Workers)

	for i, doc := range docs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = p.process(groupCtx, doc)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	records := make([]*candidate.Record, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, result := range results {
		if result == nil {
			continue
		}
		records = append(records, result.record)
		texts = append(texts, result.text)
	}

	p.deps.Logger.Info("documents processed",
		zap.Int("initial", len(docs)),
		zap.Int("dropped", len(docs)-len(records)),
		zap.Int("left", len(records)),
	)

	modelErr := p.fuseSuitability(ctx, records, texts)
	if modelErr != nil && p.cfg.ModelRequired {
		return nil, modelErr
	}

	table := &candidate.Table{Records: records}
	table.Rank()

	initial := table.Len()
	dropped := table.Deduplicate()
	p.deps.Logger.Info("candidates deduplicated",
		zap.Int("initial", initial),
		zap.Int("dropped", dropped),
		zap.Int("left", table.Len()),
	)

	return table, modelErr
}

// process runs extraction, scoring and routing for one document. It returns
// nil when the document produced no record.
func (p *Pipeline) process(ctx context.Context, doc document.Document) *outcome {
	tctx, cancel := context.WithTimeout(ctx, p.cfg.DocumentTimeout)
	defer cancel()

	text, err := p.deps.Texts.Text(tctx, doc)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) {
			p.deps.Logger.Warn("skipping unsupported file", zap.String("filename", doc.Name))
		} else {
			p.deps.Logger.Warn("skipping unreadable file",
				zap.String("filename", doc.Name),
				zap.Error(err),
			)
		}
		return nil
	}

	fields := p.deps.Fields.Fields(text)
	result := scoring.Score(text, p.cfg.Keywords)

	record := &candidate.Record{
		Filename:        doc.Name,
		Name:            fields.Name,
		Email:           fields.Email,
		Skills:          fields.Skills,
		Experience:      fields.Experience,
		Education:       fields.Education,
		AtaScore:        result.Score,
		MatchedCount:    result.MatchedCount,
		TotalKeywords:   result.Total,
		MatchedKeywords: result.Matched,
	}

	accepted := result.Score >= p.cfg.Threshold
	if p.deps.Store != nil {
		if err := p.deps.Store.Store(doc.Name, accepted); err != nil {
			p.deps.Logger.Warn("routing document failed",
				zap.String("filename", doc.Name),
				zap.Error(err),
			)
		}
	}

	if accepted {
		p.deps.Logger.Info("matched",
			zap.String("filename", doc.Name),
			zap.Float64("ata_score", result.Score),
		)
	} else {
		p.deps.Logger.Info("archived",
			zap.String("filename", doc.Name),
			zap.Float64("ata_score", result.Score),
		)
	}

	return &outcome{record: record, text: strings.ToLower(text)}
}

// fuseSuitability runs the single batched model call and merges percentages
// into the records by position. A disabled model leaves every score nil,
// explicitly "not computed" rather than zero.
func (p *Pipeline) fuseSuitability(ctx context.Context, records []*candidate.Record, texts []string) error {
	if !p.cfg.UseModel {
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	probs, err := p.deps.Predictor.Predict(ctx, texts)
	if err != nil {
		p.deps.Logger.Error("suitability prediction failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(probs) != len(records) {
		p.deps.Logger.Error("suitability prediction misaligned",
			zap.Int("records", len(records)),
			zap.Int("predictions", len(probs)),
		)
		return fmt.Errorf("%w: got %d predictions for %d records", ErrModelUnavailable, len(probs), len(records))
	}

	for i, prob := range probs {
		score := suitability.Percentage(prob)
		records[i].MLScore = &score
	}

	return nil
}
