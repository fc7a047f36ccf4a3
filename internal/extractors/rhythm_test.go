package extractors

import (
	"math"
	"testing"
	"time"

	"github.com/cadencestack/cadence-engine/internal/models"
)

// eventsOn builds a log from (day-of-March-2025, hour) pairs.
// March 1 2025 is a Saturday, March 3 a Monday.
func eventsOn(pairs ...[2]int) models.EventLog {
	log := make(models.EventLog, 0, len(pairs))
	for _, p := range pairs {
		log = append(log, models.Event{At: time.Date(2025, 3, p[0], p[1], 0, 0, 0, time.UTC)})
	}
	return log
}

func TestTimeOfDayBucket(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, BucketLateNight},
		{4, BucketLateNight},
		{5, BucketMorning},
		{11, BucketMorning},
		{12, BucketAfternoon},
		{16, BucketAfternoon},
		{17, BucketEvening},
		{21, BucketEvening},
		{22, BucketLateNight},
		{23, BucketLateNight},
	}
	for _, tc := range cases {
		if got := TimeOfDayBucket(tc.hour); got != tc.want {
			t.Fatalf("hour %d: expected %s, got %s", tc.hour, tc.want, got)
		}
	}
}

func TestLateNightRatioCountsOnlyHour23(t *testing.T) {
	// Hour 22 lands in the late_night bucket but is not counted by the ratio.
	log := eventsOn([2]int{3, 22}, [2]int{3, 23}, [2]int{4, 23}, [2]int{4, 10}, [2]int{5, 14})
	if got := LateNightRatio(log); got != 0.4 {
		t.Fatalf("expected ratio 0.4, got %v", got)
	}
	if got := LateNightRatio(nil); got != 0 {
		t.Fatalf("expected 0 for empty log, got %v", got)
	}
}

func TestWeekendRatio(t *testing.T) {
	// March 1-2 are the weekend, 3-4 weekdays.
	log := eventsOn([2]int{1, 10}, [2]int{2, 10}, [2]int{3, 10}, [2]int{4, 10})
	if got := WeekendRatio(log); got != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", got)
	}
}

func TestHourVariance(t *testing.T) {
	if got := HourVariance(nil); got != 0 {
		t.Fatalf("expected 0 for empty log, got %v", got)
	}
	if got := HourVariance(eventsOn([2]int{3, 15})); got != 0 {
		t.Fatalf("expected 0 for single event, got %v", got)
	}
	if got := HourVariance(eventsOn([2]int{3, 9}, [2]int{4, 9}, [2]int{5, 9})); got != 0 {
		t.Fatalf("expected 0 variance for identical hours, got %v", got)
	}
	// Population variance of {8, 12}: mean 10, variance 4.
	got := HourVariance(eventsOn([2]int{3, 8}, [2]int{3, 12}))
	if math.Abs(got-4) > 1e-9 {
		t.Fatalf("expected population variance 4, got %v", got)
	}
}

func TestPeakHourTiesResolveToSmallestHour(t *testing.T) {
	if _, ok := PeakHour(nil); ok {
		t.Fatal("expected no peak hour for empty log")
	}
	log := eventsOn([2]int{3, 20}, [2]int{4, 20}, [2]int{3, 9}, [2]int{4, 9}, [2]int{5, 14})
	peak, ok := PeakHour(log)
	if !ok || peak != 9 {
		t.Fatalf("expected tied peak to resolve to hour 9, got %d (ok=%v)", peak, ok)
	}
}

func TestBucketCounts(t *testing.T) {
	log := eventsOn([2]int{3, 6}, [2]int{3, 13}, [2]int{3, 19}, [2]int{3, 23}, [2]int{4, 8})
	counts := BucketCounts(log)
	if counts[BucketMorning] != 2 || counts[BucketAfternoon] != 1 || counts[BucketEvening] != 1 || counts[BucketLateNight] != 1 {
		t.Fatalf("unexpected bucket counts: %v", counts)
	}
}
