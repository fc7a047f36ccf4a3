package extractors

import (
	"time"

	"github.com/cadencestack/cadence-engine/internal/models"
)

// Time-of-day bucket names. The bucket boundary for late night (>= 22)
// deliberately differs from the late-night ratio threshold (>= 23); the two
// are independent heuristics and must stay distinct.
const (
	BucketMorning   = "morning"
	BucketAfternoon = "afternoon"
	BucketEvening   = "evening"
	BucketLateNight = "late_night"
)

// lateNightHour is the hour from which the late-night ratio counts events.
// Only the 23:00-24:00 hour qualifies, not the early-morning hours.
const lateNightHour = 23

// TimeOfDayBucket maps an hour of day (0-23) to one of four fixed buckets.
func TimeOfDayBucket(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return BucketMorning
	case hour >= 12 && hour < 17:
		return BucketAfternoon
	case hour >= 17 && hour < 22:
		return BucketEvening
	default:
		return BucketLateNight
	}
}

// LateNightRatio is the fraction of events in the 23:00-24:00 hour.
func LateNightRatio(log models.EventLog) float64 {
	if len(log) == 0 {
		return 0
	}
	late := 0
	for _, ev := range log {
		if ev.At.Hour() >= lateNightHour {
			late++
		}
	}
	return float64(late) / float64(len(log))
}

// WeekendRatio is the fraction of events falling on Saturday or Sunday.
func WeekendRatio(log models.EventLog) float64 {
	if len(log) == 0 {
		return 0
	}
	weekend := 0
	for _, ev := range log {
		switch ev.At.Weekday() {
		case time.Saturday, time.Sunday:
			weekend++
		}
	}
	return float64(weekend) / float64(len(log))
}

// HourVariance is the population variance of hour-of-day across all events,
// 0 when the log is too short or degenerate to define one.
func HourVariance(log models.EventLog) float64 {
	if len(log) < 2 {
		return 0
	}
	mean := 0.0
	for _, ev := range log {
		mean += float64(ev.At.Hour())
	}
	mean /= float64(len(log))

	variance := 0.0
	for _, ev := range log {
		d := float64(ev.At.Hour()) - mean
		variance += d * d
	}
	return variance / float64(len(log))
}

// HourCounts tallies events per hour of day.
func HourCounts(log models.EventLog) map[int]int {
	counts := make(map[int]int)
	for _, ev := range log {
		counts[ev.At.Hour()]++
	}
	return counts
}

// PeakHour returns the most frequent hour of day and whether the log was
// non-empty. Ties resolve to the smallest hour.
func PeakHour(log models.EventLog) (int, bool) {
	counts := HourCounts(log)
	if len(counts) == 0 {
		return 0, false
	}
	peak, best := 0, -1
	for hour := 0; hour < 24; hour++ {
		if counts[hour] > best {
			peak, best = hour, counts[hour]
		}
	}
	return peak, true
}

// BucketCounts tallies events per time-of-day bucket.
func BucketCounts(log models.EventLog) map[string]int {
	counts := make(map[string]int)
	for _, ev := range log {
		counts[TimeOfDayBucket(ev.At.Hour())]++
	}
	return counts
}
