package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cadencestack/cadence-engine/internal/cache"
	"github.com/cadencestack/cadence-engine/internal/engine"
	"github.com/cadencestack/cadence-engine/internal/metrics"
	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/report"
	"github.com/cadencestack/cadence-engine/internal/timeseries"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

// AnalysisService fronts the analysis pipeline with latency tracking,
// metrics, a bounded retrieval result cache, and report caching. The
// pipeline itself stays pure; all caching lives at this layer.
type AnalysisService struct {
	logger      *slog.Logger
	pipeline    *engine.Pipeline
	cache       cache.Provider
	reportTTL   time.Duration
	latencies   *utils.LatencyTracker
	resultCache *lru.Cache[string, []models.RetrievalResult]
}

// NewAnalysisService constructs the service facade.
func NewAnalysisService(logger *slog.Logger, pipeline *engine.Pipeline, cacheProvider cache.Provider, reportTTL time.Duration, resultCacheSize int) (*AnalysisService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	if resultCacheSize <= 0 {
		resultCacheSize = 256
	}
	resultCache, err := lru.New[string, []models.RetrievalResult](resultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("build retrieval cache: %w", err)
	}
	return &AnalysisService{
		logger:      logger,
		pipeline:    pipeline,
		cache:       cacheProvider,
		reportTTL:   reportTTL,
		latencies:   utils.NewLatencyTracker(1024),
		resultCache: resultCache,
	}, nil
}

// Analyze runs one analysis over raw timestamp strings.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	return s.observe(func() (models.AnalysisResult, error) {
		return s.pipeline.Analyze(ctx, req)
	})
}

// AnalyzeTable runs one analysis over a pre-assembled input table (the CSV
// ingestion path).
func (s *AnalysisService) AnalyzeTable(ctx context.Context, table timeseries.Table, k int, category string, meta map[string]string) (models.AnalysisResult, error) {
	return s.observe(func() (models.AnalysisResult, error) {
		return s.pipeline.AnalyzeTable(ctx, table, k, category, meta)
	})
}

// RetrieveSnippets ranks the corpus against an arbitrary query. Identical
// calls are served from a bounded in-process cache; retrieval is
// deterministic, so cached entries never go stale for a fixed corpus.
func (s *AnalysisService) RetrieveSnippets(ctx context.Context, query string, k int, category string) ([]models.RetrievalResult, error) {
	key := fmt.Sprintf("%s|%d|%s", query, k, category)
	if cached, ok := s.resultCache.Get(key); ok {
		metrics.ObserveRetrieval(true)
		return cached, nil
	}
	metrics.ObserveRetrieval(false)

	results, err := s.pipeline.RetrieveAdvice(ctx, query, k, category)
	if err != nil {
		return nil, err
	}
	s.resultCache.Add(key, results)
	return results, nil
}

// InvalidateRetrievalCache drops every cached retrieval result. Called when
// the corpus source is reloaded.
func (s *AnalysisService) InvalidateRetrievalCache() {
	s.resultCache.Purge()
}

// Report runs an analysis and renders the markdown report. Rendered reports
// are cached by request payload for the configured TTL.
func (s *AnalysisService) Report(ctx context.Context, req models.AnalysisRequest) ([]byte, error) {
	key, keyed := reportCacheKey(req)
	if keyed {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			return cached, nil
		}
	}

	result, err := s.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	rendered := report.Render(result)

	if keyed && s.reportTTL > 0 {
		if err := s.cache.Set(ctx, key, rendered, s.reportTTL); err != nil {
			s.logger.Warn("report cache write failed", slog.Any("error", err))
		}
	}
	return rendered, nil
}

// LatencyP95 returns the current p95 analysis latency.
func (s *AnalysisService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func (s *AnalysisService) observe(run func() (models.AnalysisResult, error)) (models.AnalysisResult, error) {
	start := time.Now()
	result, err := run()
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, metrics.OutcomeError)
		return models.AnalysisResult{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}
	return result, nil
}

func reportCacheKey(req models.AnalysisRequest) (string, bool) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(payload)
	return "report:" + hex.EncodeToString(sum[:]), true
}
