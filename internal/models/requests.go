package models

// AnalysisRequest carries one behavioral analysis call.
type AnalysisRequest struct {
	// Timestamps are raw timestamp strings; unparsable entries are dropped
	// by the normalizer rather than rejected.
	Timestamps []string `json:"timestamps"`
	// K is the number of advice snippets to retrieve (0 means the configured
	// default).
	K int `json:"k"`
	// Category optionally restricts snippet retrieval. An over-narrow filter
	// falls back to the full corpus.
	Category string `json:"category"`
	// Meta is echoed into the result and the rendered report.
	Meta map[string]string `json:"meta"`
}

// Scores groups the pattern label with the two heuristic scores.
// The JSON field names are part of the report contract.
type Scores struct {
	Pattern   string  `json:"type"`
	Avoidance float64 `json:"perfectionism"`
	Risk      float64 `json:"risk"`
}

// Explainability is the reportable snapshot of every derived signal.
// Field names are consumed verbatim by the report formatter and UI.
type Explainability struct {
	TotalEvents     int            `json:"total_events"`
	PeakHour        *int           `json:"peak_hour"`
	BucketCounts    map[string]int `json:"bucket_counts"`
	LateNightRatio  float64        `json:"late_night_ratio"`
	WeekendRatio    float64        `json:"weekend_ratio"`
	HourVariance    float64        `json:"hour_variance"`
	LongGaps24h     int            `json:"long_gaps_24h"`
	LongGaps48h     int            `json:"long_gaps_48h"`
	MaxGapHours     float64        `json:"max_gap_hours"`
	BurstCount5In2h int            `json:"burst_count_5in2h"`
}

// AnalysisResult is the engine's output mapping consumed by the report
// formatter and any UI. Field names must not change.
type AnalysisResult struct {
	AnalysisID     string            `json:"analysis_id"`
	Scores         Scores            `json:"advanced"`
	Explainability Explainability    `json:"explainability"`
	Snippets       []RetrievalResult `json:"snippets"`
	Meta           map[string]string `json:"meta,omitempty"`
}
