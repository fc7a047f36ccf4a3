package extractors

import (
	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

// DefaultLongGapThresholdHours is the gap length beyond which inactivity is
// considered a long gap.
const DefaultLongGapThresholdHours = 24.0

// GapsHours returns hour-denominated gaps between adjacent events, aligned
// 1:1 with the log. The first element is 0 by convention (no prior event).
func GapsHours(log models.EventLog) []float64 {
	gaps := make([]float64, len(log))
	for i := 1; i < len(log); i++ {
		gaps[i] = utils.HoursBetween(log[i-1].At, log[i].At)
	}
	return gaps
}

// LongGapsCount counts gaps strictly greater than thresholdH hours.
func LongGapsCount(log models.EventLog, thresholdH float64) int {
	count := 0
	for _, gap := range GapsHours(log) {
		if gap > thresholdH {
			count++
		}
	}
	return count
}

// MaxGapHours returns the longest single gap observed, 0 for logs of length
// 0 or 1.
func MaxGapHours(log models.EventLog) float64 {
	max := 0.0
	for _, gap := range GapsHours(log) {
		if gap > max {
			max = gap
		}
	}
	return max
}
