package retrieval

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/cadencestack/cadence-engine/internal/models"
)

var adviceCorpus = []models.Snippet{
	{ID: "avoid-1", Category: "avoidance", Title: "Shrink the task", Text: "Break the avoided task into one tiny concrete step and start immediately."},
	{ID: "fatigue-1", Category: "fatigue", Title: "Protect sleep", Text: "Late evening work erodes sleep; set a hard stop and protect recovery."},
	{ID: "plan-1", Category: "planning", Title: "Plan the morning", Text: "Decide the first morning task the night before to remove startup friction."},
	{ID: "focus-1", Category: "focus", Title: "Single task", Text: "Work a single task in a short timed block with notifications silenced."},
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	e := NewEngine()
	_, err := e.Retrieve("any query", nil, 3, "")
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestRetrieveRanksRelevantSnippetFirst(t *testing.T) {
	e := NewEngine()
	results, err := e.Retrieve("avoided task tiny step", adviceCorpus, 4, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].ID != "avoid-1" {
		t.Fatalf("expected avoid-1 ranked first, got %s", results[0].ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("scores not descending at index %d: %v", i, results)
		}
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	e := NewEngine()
	first, err := e.Retrieve("evening sleep stop", adviceCorpus, 3, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Retrieve("evening sleep stop", adviceCorpus, 3, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("retrieval not deterministic:\n%v\n%v", first, second)
	}
}

func TestRetrieveKClampedToPool(t *testing.T) {
	e := NewEngine()
	results, err := e.Retrieve("task", adviceCorpus, 99, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(adviceCorpus) {
		t.Fatalf("expected %d results, got %d", len(adviceCorpus), len(results))
	}

	results, err = e.Retrieve("task", adviceCorpus, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestRetrieveCategoryFilterWithFallback(t *testing.T) {
	e := NewEngine()
	results, err := e.Retrieve("work", adviceCorpus, 4, "fatigue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "fatigue-1" {
		t.Fatalf("expected only the fatigue snippet, got %v", results)
	}

	// An unknown category must fall back to the unfiltered corpus.
	results, err = e.Retrieve("work", adviceCorpus, 4, "no-such-category")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(adviceCorpus) {
		t.Fatalf("expected fallback to full corpus, got %d results", len(results))
	}
}

func TestRetrieveTiesKeepCorpusOrder(t *testing.T) {
	dupes := []models.Snippet{
		{ID: "first", Text: "identical advice text"},
		{ID: "second", Text: "identical advice text"},
	}
	e := NewEngine()
	results, err := e.Retrieve("identical advice", dupes, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].ID != "first" || results[1].ID != "second" {
		t.Fatalf("expected ties in corpus order, got %v", results)
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("expected equal scores for identical texts, got %v vs %v", results[0].Score, results[1].Score)
	}
}

func TestRetrieveScoresRoundedToFourDecimals(t *testing.T) {
	e := NewEngine()
	results, err := e.Retrieve("morning task", adviceCorpus, 4, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if math.Abs(r.Score*10000-math.Round(r.Score*10000)) > 1e-9 {
			t.Fatalf("score %v not rounded to 4 decimal places", r.Score)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Fatalf("score %v out of [0,1]", r.Score)
		}
	}
}
