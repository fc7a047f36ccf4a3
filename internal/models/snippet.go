package models

// Snippet is a static advisory text record used as the retrieval corpus.
type Snippet struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Tags     []string `json:"tags"`
}

// RetrievalResult pairs a snippet with its similarity score for one query.
// Results are ordered most-similar first.
type RetrievalResult struct {
	Snippet
	Score float64 `json:"score"`
}
