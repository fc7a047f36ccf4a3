package engine

import (
	"github.com/cadencestack/cadence-engine/internal/extractors"
	"github.com/cadencestack/cadence-engine/internal/models"
)

// BuildExplainability aggregates every derived signal into one reportable
// snapshot. It is a read/aggregate pass over the extractor outputs; nothing
// is computed that the extractors do not already define.
func BuildExplainability(log models.EventLog) models.Explainability {
	exp := models.Explainability{
		TotalEvents:     len(log),
		BucketCounts:    extractors.BucketCounts(log),
		LateNightRatio:  round2(extractors.LateNightRatio(log)),
		WeekendRatio:    round2(extractors.WeekendRatio(log)),
		HourVariance:    round2(extractors.HourVariance(log)),
		LongGaps24h:     extractors.LongGapsCount(log, 24),
		LongGaps48h:     extractors.LongGapsCount(log, 48),
		MaxGapHours:     round2(extractors.MaxGapHours(log)),
		BurstCount5In2h: extractors.Burstiness5In2h(log),
	}
	if peak, ok := extractors.PeakHour(log); ok {
		exp.PeakHour = &peak
	}
	return exp
}
