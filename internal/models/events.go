package models

import "time"

// Event is a single activity instant. Only the arrival time is modelled;
// events carry no payload.
type Event struct {
	At time.Time
}

// EventLog is a normalized, time-ordered sequence of events for one analysis
// request. It is constructed once by the normalizer and never mutated.
type EventLog []Event

// First returns the earliest event timestamp.
func (l EventLog) First() time.Time {
	if len(l) == 0 {
		return time.Time{}
	}
	return l[0].At
}

// Last returns the latest event timestamp.
func (l EventLog) Last() time.Time {
	if len(l) == 0 {
		return time.Time{}
	}
	return l[len(l)-1].At
}

// Since returns the sub-log of events at or after the cutoff. The result
// shares backing storage with the receiver; both are read-only.
func (l EventLog) Since(cutoff time.Time) EventLog {
	for i, ev := range l {
		if !ev.At.Before(cutoff) {
			return l[i:]
		}
	}
	return nil
}
