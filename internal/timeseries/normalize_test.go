package timeseries

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeMissingTimestampColumn(t *testing.T) {
	_, err := Normalize(Table{})
	if !errors.Is(err, ErrMissingTimestampColumn) {
		t.Fatalf("expected ErrMissingTimestampColumn, got %v", err)
	}
}

func TestNormalizeEmptyLog(t *testing.T) {
	_, err := Normalize(FromStrings([]string{}))
	if !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("expected ErrEmptyLog for empty input, got %v", err)
	}

	_, err = Normalize(FromStrings([]string{"not-a-date", "also bad", ""}))
	if !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("expected ErrEmptyLog when every row is unparsable, got %v", err)
	}
}

func TestNormalizeDropsInvalidAndSorts(t *testing.T) {
	log, err := Normalize(FromStrings([]string{
		"2025-03-02T10:00:00Z",
		"garbage",
		"2025-03-01T09:30:00Z",
		"2025-03-01 18:15:00",
		"",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log) != 3 {
		t.Fatalf("expected 3 surviving events, got %d", len(log))
	}
	for i := 1; i < len(log); i++ {
		if log[i].At.Before(log[i-1].At) {
			t.Fatalf("events not sorted ascending at index %d: %v before %v", i, log[i].At, log[i-1].At)
		}
	}
	if log[0].At.Hour() != 9 || log[0].At.Minute() != 30 {
		t.Fatalf("expected earliest event 09:30, got %v", log[0].At)
	}
}

func TestNormalizeInstantsColumnDropsZeroValues(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	log, err := Normalize(Table{Instants: []time.Time{base.Add(time.Hour), {}, base}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("expected zero-value instant dropped, got %d events", len(log))
	}
	if !log[0].At.Equal(base) {
		t.Fatalf("expected first event %v, got %v", base, log[0].At)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := []string{"2025-03-02T10:00:00Z", "2025-03-01T10:00:00Z"}
	table := FromStrings(raw)
	if _, err := Normalize(table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw[0] != "2025-03-02T10:00:00Z" || raw[1] != "2025-03-01T10:00:00Z" {
		t.Fatalf("input slice mutated: %v", raw)
	}
}
