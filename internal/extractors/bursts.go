package extractors

import "github.com/cadencestack/cadence-engine/internal/models"

const (
	// burstWindowEvents is the number of consecutive events in one window.
	burstWindowEvents = 5
	// burstSpanHours is the maximum span a window may cover to qualify.
	burstSpanHours = 2.0
)

// Burstiness5In2h slides a window of exactly 5 consecutive events across the
// log and counts windows whose span is at most 2 hours. Overlapping windows
// are each counted; the metric measures burst density, not disjoint burst
// episodes. Returns 0 for logs shorter than 5 events.
func Burstiness5In2h(log models.EventLog) int {
	if len(log) < burstWindowEvents {
		return 0
	}
	count := 0
	for i := 0; i+burstWindowEvents <= len(log); i++ {
		first := log[i].At
		last := log[i+burstWindowEvents-1].At
		if last.Sub(first).Hours() <= burstSpanHours {
			count++
		}
	}
	return count
}
