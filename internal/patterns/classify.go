package patterns

import (
	"github.com/cadencestack/cadence-engine/internal/extractors"
	"github.com/cadencestack/cadence-engine/internal/models"
)

// Pattern labels assigned by the classifier.
const (
	LabelAvoidance  = "Avoidance-driven procrastination"
	LabelFatigue    = "Fatigue-driven procrastination"
	LabelDeadline   = "Deadline-chasing (bursty) procrastination"
	LabelConsistent = "Consistent / low-procrastination pattern"
	LabelMixed      = "Mixed / situational procrastination"
)

// features holds the derived ratios the rules evaluate.
type features struct {
	dayPct     float64
	eveningPct float64
	latePct    float64
	longGaps   int
	bursts     int
}

// rule pairs a predicate with the label it assigns.
type rule struct {
	label string
	match func(f features) bool
}

// rules is evaluated in order; the first matching rule wins.
var rules = []rule{
	{
		label: LabelAvoidance,
		match: func(f features) bool { return f.longGaps >= 2 && f.latePct >= 0.35 },
	},
	{
		label: LabelFatigue,
		match: func(f features) bool { return f.eveningPct >= 0.45 && f.latePct < 0.25 },
	},
	{
		label: LabelDeadline,
		match: func(f features) bool { return f.bursts >= 2 && f.latePct+f.eveningPct >= 0.60 },
	},
	{
		label: LabelConsistent,
		match: func(f features) bool { return f.dayPct >= 0.55 && f.longGaps == 0 },
	},
}

// Classify assigns one categorical pattern label to the log. It is a pure
// function; no state is carried between calls.
func Classify(log models.EventLog) string {
	f := deriveFeatures(log)
	for _, r := range rules {
		if r.match(f) {
			return r.label
		}
	}
	return LabelMixed
}

func deriveFeatures(log models.EventLog) features {
	day, evening, late := 0, 0, 0
	for _, ev := range log {
		hour := ev.At.Hour()
		switch {
		case hour >= 9 && hour < 18:
			day++
		case hour >= 18 && hour < 23:
			evening++
		case hour >= 23:
			late++
		}
	}

	total := len(log)
	if total < 1 {
		total = 1
	}

	return features{
		dayPct:     float64(day) / float64(total),
		eveningPct: float64(evening) / float64(total),
		latePct:    float64(late) / float64(total),
		longGaps:   extractors.LongGapsCount(log, extractors.DefaultLongGapThresholdHours),
		bursts:     extractors.Burstiness5In2h(log),
	}
}
