package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/retrieval"
	"github.com/cadencestack/cadence-engine/internal/timeseries"
)

type staticCorpus struct {
	snippets []models.Snippet
	err      error
}

func (s *staticCorpus) Snippets(_ context.Context) ([]models.Snippet, error) {
	return s.snippets, s.err
}

type recordingRetriever struct {
	query    string
	k        int
	category string
}

func (r *recordingRetriever) Retrieve(query string, corpus []models.Snippet, k int, category string) ([]models.RetrievalResult, error) {
	r.query, r.k, r.category = query, k, category
	if len(corpus) == 0 {
		return nil, retrieval.ErrEmptyCorpus
	}
	return []models.RetrievalResult{{Snippet: corpus[0], Score: 1}}, nil
}

func testCorpus() *staticCorpus {
	return &staticCorpus{snippets: []models.Snippet{
		{ID: "a", Category: "avoidance", Title: "Shrink the task", Text: "Break the avoided task into a tiny first step and start there."},
		{ID: "b", Category: "fatigue", Title: "Stop earlier", Text: "Schedule a hard stop in the evening to protect recovery."},
		{ID: "c", Category: "planning", Title: "Plan tomorrow", Text: "Write tomorrow's first task before closing the day."},
	}}
}

func TestPipelineAnalyzeEndToEnd(t *testing.T) {
	p := NewPipeline(nil, testCorpus(), retrieval.NewEngine(), 4, 8)

	result, err := p.Analyze(context.Background(), models.AnalysisRequest{
		Timestamps: []string{
			"2025-03-03T10:00:00Z",
			"2025-03-04T10:30:00Z",
			"2025-03-05T11:00:00Z",
			"2025-03-06T09:15:00Z",
		},
		Meta: map[string]string{"source": "test"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AnalysisID == "" {
		t.Fatal("expected a non-empty analysis id")
	}
	if result.Scores.Pattern == "" {
		t.Fatal("expected a pattern label")
	}
	if result.Explainability.TotalEvents != 4 {
		t.Fatalf("expected 4 events, got %d", result.Explainability.TotalEvents)
	}
	// defaultK exceeds the corpus, so every snippet comes back.
	if len(result.Snippets) != 3 {
		t.Fatalf("expected full corpus of 3 snippets, got %d", len(result.Snippets))
	}
	if result.Meta["source"] != "test" {
		t.Fatalf("expected meta carried through, got %v", result.Meta)
	}
}

func TestPipelineAnalyzePropagatesInputErrors(t *testing.T) {
	p := NewPipeline(nil, testCorpus(), retrieval.NewEngine(), 4, 8)

	_, err := p.Analyze(context.Background(), models.AnalysisRequest{Timestamps: []string{}})
	if !errors.Is(err, timeseries.ErrEmptyLog) {
		t.Fatalf("expected ErrEmptyLog, got %v", err)
	}

	_, err = p.AnalyzeTable(context.Background(), timeseries.Table{}, 0, "", nil)
	if !errors.Is(err, timeseries.ErrMissingTimestampColumn) {
		t.Fatalf("expected ErrMissingTimestampColumn, got %v", err)
	}
}

func TestRetrieveAdviceClampsK(t *testing.T) {
	rec := &recordingRetriever{}
	p := NewPipeline(nil, testCorpus(), rec, 4, 8)

	if _, err := p.RetrieveAdvice(context.Background(), "advice", 0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.k != 4 {
		t.Fatalf("expected default k 4, got %d", rec.k)
	}

	if _, err := p.RetrieveAdvice(context.Background(), "advice", 99, "fatigue"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.k != 8 {
		t.Fatalf("expected k clamped to 8, got %d", rec.k)
	}
	if rec.category != "fatigue" {
		t.Fatalf("expected category passed through, got %q", rec.category)
	}
}

func TestRetrieveAdviceCorpusErrors(t *testing.T) {
	p := NewPipeline(nil, &staticCorpus{err: errors.New("boom")}, retrieval.NewEngine(), 4, 8)
	if _, err := p.RetrieveAdvice(context.Background(), "advice", 2, ""); err == nil {
		t.Fatal("expected corpus load error")
	}

	p = NewPipeline(nil, &staticCorpus{}, retrieval.NewEngine(), 4, 8)
	_, err := p.RetrieveAdvice(context.Background(), "advice", 2, "")
	if !errors.Is(err, retrieval.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestSynthesizeQuery(t *testing.T) {
	q := SynthesizeQuery("Fatigue-driven procrastination")
	if !strings.HasPrefix(q, "Fatigue-driven procrastination") || !strings.Contains(q, "advice") {
		t.Fatalf("unexpected query: %q", q)
	}
}
