package retrieval

import (
	"errors"
	"math"
	"sort"

	"github.com/cadencestack/cadence-engine/internal/models"
)

// ErrEmptyCorpus indicates retrieval was attempted against a zero-snippet
// corpus, which points at a misconfigured corpus rather than bad user input.
var ErrEmptyCorpus = errors.New("snippet corpus is empty")

// Engine ranks a snippet corpus against a free-text query using TF-IDF
// cosine similarity. It holds no state between calls.
type Engine struct{}

// NewEngine constructs a retrieval engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Retrieve returns the top-k snippets ranked by similarity to the query,
// most-similar first, with scores rounded to 4 decimal places. A category
// filter that matches nothing falls back to the unfiltered corpus; k larger
// than the corpus returns everything. Ties rank by original corpus order.
func (e *Engine) Retrieve(query string, corpus []models.Snippet, k int, category string) ([]models.RetrievalResult, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	pool := corpus
	if category != "" {
		filtered := make([]models.Snippet, 0, len(corpus))
		for _, s := range corpus {
			if s.Category == category {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	docs := make([]string, 0, len(pool)+1)
	for _, s := range pool {
		docs = append(docs, s.Text)
	}
	docs = append(docs, query)

	vectors := fitTransform(docs)
	queryVec := vectors[len(vectors)-1]

	scores := make([]float64, len(pool))
	order := make([]int, len(pool))
	for i := range pool {
		scores[i] = cosine(queryVec, vectors[i])
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(pool) {
		k = len(pool)
	}
	if k < 0 {
		k = 0
	}

	results := make([]models.RetrievalResult, 0, k)
	for _, idx := range order[:k] {
		results = append(results, models.RetrievalResult{
			Snippet: pool[idx],
			Score:   round4(scores[idx]),
		})
	}
	return results, nil
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}
