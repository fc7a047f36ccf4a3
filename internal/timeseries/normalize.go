package timeseries

import (
	"errors"
	"sort"
	"time"

	"github.com/cadencestack/cadence-engine/internal/models"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

// ErrMissingTimestampColumn indicates the input table exposes neither the
// canonical instant column nor the raw timestamp column.
var ErrMissingTimestampColumn = errors.New("input must contain a 'ts' instant column or a 'timestamp' column")

// ErrEmptyLog indicates no valid timestamps remained after parsing.
var ErrEmptyLog = errors.New("no valid timestamps after parsing")

// Table is a row-oriented input carrying at most two timestamp columns: a
// canonical column of already-typed instants and a fallback column of raw
// timestamp text. A nil slice means the column is absent.
type Table struct {
	Instants []time.Time
	Raw      []string
}

// FromStrings builds a Table from raw timestamp strings.
func FromStrings(values []string) Table {
	if values == nil {
		values = []string{}
	}
	return Table{Raw: values}
}

// Normalize canonicalizes a raw table into an ordered EventLog. Rows with
// invalid or unparsable timestamps are dropped silently; the remaining rows
// are sorted ascending. The input is never mutated.
func Normalize(t Table) (models.EventLog, error) {
	var instants []time.Time

	switch {
	case t.Instants != nil:
		instants = make([]time.Time, 0, len(t.Instants))
		for _, ts := range t.Instants {
			if ts.IsZero() {
				continue
			}
			instants = append(instants, ts)
		}
	case t.Raw != nil:
		instants = make([]time.Time, 0, len(t.Raw))
		for _, raw := range t.Raw {
			ts, err := utils.ParseTimestamp(raw)
			if err != nil {
				continue
			}
			instants = append(instants, ts)
		}
	default:
		return nil, ErrMissingTimestampColumn
	}

	if len(instants) == 0 {
		return nil, ErrEmptyLog
	}

	log := make(models.EventLog, 0, len(instants))
	for _, ts := range instants {
		log = append(log, models.Event{At: ts})
	}
	sort.SliceStable(log, func(i, j int) bool { return log[i].At.Before(log[j].At) })
	return log, nil
}
