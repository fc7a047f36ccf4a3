package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/patterns"
	"github.com/cadencestack/cadence-engine/internal/timeseries"
)

// CorpusSource provides the advice snippet corpus for one retrieval call.
type CorpusSource interface {
	Snippets(ctx context.Context) ([]models.Snippet, error)
}

// SnippetRetriever ranks a corpus against a free-text query.
type SnippetRetriever interface {
	Retrieve(query string, corpus []models.Snippet, k int, category string) ([]models.RetrievalResult, error)
}

// Pipeline orchestrates one analysis request: normalization, signal
// derivation, scoring, classification, and advice retrieval. Each call is a
// pure transformation over its own inputs; nothing is cached across requests.
type Pipeline struct {
	logger    *slog.Logger
	corpus    CorpusSource
	retriever SnippetRetriever
	defaultK  int
	maxK      int
}

// NewPipeline constructs an analysis pipeline.
func NewPipeline(logger *slog.Logger, corpus CorpusSource, retriever SnippetRetriever, defaultK, maxK int) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultK <= 0 {
		defaultK = 4
	}
	if maxK <= 0 {
		maxK = 8
	}
	return &Pipeline{
		logger:    logger,
		corpus:    corpus,
		retriever: retriever,
		defaultK:  defaultK,
		maxK:      maxK,
	}
}

// Analyze runs the full flow over raw timestamp strings. A nil timestamp
// slice means the field was never supplied and surfaces as a schema error,
// not an empty log.
func (p *Pipeline) Analyze(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	table := timeseries.Table{}
	if req.Timestamps != nil {
		table = timeseries.FromStrings(req.Timestamps)
	}
	return p.AnalyzeTable(ctx, table, req.K, req.Category, req.Meta)
}

// AnalyzeTable runs the full flow over an already-assembled input table.
// Normalization completes before any statistic is computed, and the pattern
// label is known before the retrieval query is synthesized.
func (p *Pipeline) AnalyzeTable(ctx context.Context, table timeseries.Table, k int, category string, meta map[string]string) (models.AnalysisResult, error) {
	log, err := timeseries.Normalize(table)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	pattern := patterns.Classify(log)
	result := models.AnalysisResult{
		AnalysisID: uuid.NewString(),
		Scores: models.Scores{
			Pattern:   pattern,
			Avoidance: AvoidanceScore(log),
			Risk:      RiskScore(log),
		},
		Explainability: BuildExplainability(log),
		Meta:           meta,
	}

	snippets, err := p.RetrieveAdvice(ctx, SynthesizeQuery(pattern), k, category)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	result.Snippets = snippets

	p.logger.Debug("analysis complete",
		slog.String("analysis_id", result.AnalysisID),
		slog.String("pattern", pattern),
		slog.Int("events", result.Explainability.TotalEvents),
	)
	return result, nil
}

// RetrieveAdvice ranks the corpus against the query, clamping k to the
// configured bounds.
func (p *Pipeline) RetrieveAdvice(ctx context.Context, query string, k int, category string) ([]models.RetrievalResult, error) {
	if p.corpus == nil || p.retriever == nil {
		return nil, fmt.Errorf("retrieval not configured")
	}

	if k <= 0 {
		k = p.defaultK
	}
	if k > p.maxK {
		k = p.maxK
	}

	corpus, err := p.corpus.Snippets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return p.retriever.Retrieve(query, corpus, k, category)
}

// SynthesizeQuery turns a pattern label into the retrieval query text.
func SynthesizeQuery(pattern string) string {
	return fmt.Sprintf("%s procrastination advice next step", pattern)
}
