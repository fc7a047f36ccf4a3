package engine

import (
	"math"
	"time"

	"github.com/cadencestack/cadence-engine/internal/extractors"
	"github.com/cadencestack/cadence-engine/internal/models"
)

// Scoring weights are fixed design constants; the scores are deterministic
// weighted sums with no learned parameters, so every value stays auditable.
const (
	avoidanceLongGapWeight  = 0.55
	avoidanceBurstWeight    = 0.35
	avoidanceLateWeight     = 0.10
	avoidanceLateAmplifier  = 5.0
	avoidanceVolumeBaseline = 25.0
	riskBase                = 0.18
	riskInactivityWeight    = 0.02
	riskHourVarianceWeight  = 0.015
	riskAvoidanceWeight     = 0.45
	riskWeekendWeight       = 0.10
	riskNeutral             = 0.5
	recentWindow            = 7 * 24 * time.Hour
)

// AvoidanceScore combines long-gap density, burst density, and the
// late-night ratio into a bounded avoidance heuristic. Gap and burst counts
// are normalized by log volume so short and long logs compare; the
// late-night ratio is amplified before weighting since it is already a
// [0,1] fraction. Returns a value in [0,1] rounded to 2 decimal places.
func AvoidanceScore(log models.EventLog) float64 {
	longGaps := extractors.LongGapsCount(log, extractors.DefaultLongGapThresholdHours)
	bursts := extractors.Burstiness5In2h(log)
	late := extractors.LateNightRatio(log)

	volumeNorm := math.Max(1.0, float64(len(log))/avoidanceVolumeBaseline)
	raw := avoidanceLongGapWeight*(float64(longGaps)/volumeNorm) +
		avoidanceBurstWeight*(float64(bursts)/volumeNorm) +
		avoidanceLateWeight*late*avoidanceLateAmplifier
	return round2(clamp(raw, 0, 1))
}

// RiskScore predicts next-period slippage in [0,1], rounded to 2 decimal
// places. The full log's avoidance score anchors the estimate while the
// variance and weekend signals are scoped to the trailing week. An empty
// trailing week (guarded, cannot occur with a non-empty log) yields a
// neutral 0.5.
func RiskScore(log models.EventLog) float64 {
	lastWeek := log.Since(log.Last().Add(-recentWindow))
	if len(lastWeek) == 0 {
		return riskNeutral
	}

	inactivityH := log.Last().Sub(lastWeek.Last()).Hours()
	raw := riskBase +
		riskInactivityWeight*inactivityH +
		riskHourVarianceWeight*extractors.HourVariance(lastWeek) +
		riskAvoidanceWeight*AvoidanceScore(log) +
		riskWeekendWeight*extractors.WeekendRatio(lastWeek)
	return round2(clamp(raw, 0, 1))
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
