package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cadencestack/cadence-engine/internal/timeseries"
	"github.com/cadencestack/cadence-engine/internal/utils"
)

// ParseCSV reads a header-led CSV stream and assembles the input table for
// the normalizer. The canonical `ts` column is preferred over the raw
// `timestamp` column when both are present. Column resolution mirrors the
// normalizer's contract: a missing column here surfaces later as a schema
// error, while unparsable rows simply drop.
func ParseCSV(r io.Reader) (timeseries.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return timeseries.Table{}, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return timeseries.Table{}, fmt.Errorf("read csv header: %w", err)
	}

	tsCol, rawCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ts":
			if tsCol == -1 {
				tsCol = i
			}
		case "timestamp":
			if rawCol == -1 {
				rawCol = i
			}
		}
	}
	if tsCol == -1 && rawCol == -1 {
		// Leave both columns absent; Normalize reports the schema error.
		return timeseries.Table{}, nil
	}

	table := timeseries.Table{}
	if tsCol >= 0 {
		table.Instants = []time.Time{}
	} else {
		table.Raw = []string{}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return timeseries.Table{}, fmt.Errorf("read csv row: %w", err)
		}

		if tsCol >= 0 {
			if tsCol >= len(record) {
				continue
			}
			ts, err := utils.ParseTimestamp(record[tsCol])
			if err != nil {
				continue
			}
			table.Instants = append(table.Instants, ts)
		} else {
			if rawCol >= len(record) {
				continue
			}
			table.Raw = append(table.Raw, record[rawCol])
		}
	}
	return table, nil
}
