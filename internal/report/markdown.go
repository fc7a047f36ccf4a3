package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cadencestack/cadence-engine/internal/models"
)

// Render formats an analysis result as a markdown document. It is a pure
// formatter over the engine's output mapping; all numbers arrive already
// rounded.
func Render(result models.AnalysisResult) []byte {
	var b strings.Builder

	b.WriteString("# Procrastination Pattern Analysis Report\n\n")

	if len(result.Meta) > 0 {
		b.WriteString("## Metadata\n")
		keys := make([]string, 0, len(result.Meta))
		for k := range result.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %s\n", k, result.Meta[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Pattern: **%s**\n", result.Scores.Pattern)
	fmt.Fprintf(&b, "- Avoidance score: **%.2f**\n", result.Scores.Avoidance)
	fmt.Fprintf(&b, "- Next-day risk: **%.2f** (%s)\n\n", result.Scores.Risk, RiskBand(result.Scores.Risk))

	b.WriteString("## Signals\n")
	writeSignals(&b, result.Explainability)
	b.WriteString("\n")

	b.WriteString("## Drivers\n")
	for _, d := range TopDrivers(result.Explainability) {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\n")

	b.WriteString("## Suggestions\n\n")
	for _, s := range result.Snippets {
		fmt.Fprintf(&b, "### %s\n", s.Title)
		fmt.Fprintf(&b, "- Category: %s\n", s.Category)
		fmt.Fprintf(&b, "- Relevance: %.4f\n", s.Score)
		if len(s.Tags) > 0 {
			fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(s.Tags, ", "))
		}
		b.WriteString("\n")
		b.WriteString(s.Text + "\n\n")
	}

	return []byte(b.String())
}

// writeSignals emits the explainability snapshot in its contract order.
func writeSignals(b *strings.Builder, exp models.Explainability) {
	fmt.Fprintf(b, "- **total_events**: %d\n", exp.TotalEvents)
	if exp.PeakHour != nil {
		fmt.Fprintf(b, "- **peak_hour**: %d\n", *exp.PeakHour)
	} else {
		fmt.Fprintf(b, "- **peak_hour**: n/a\n")
	}
	fmt.Fprintf(b, "- **bucket_counts**: %s\n", formatBuckets(exp.BucketCounts))
	fmt.Fprintf(b, "- **late_night_ratio**: %.2f\n", exp.LateNightRatio)
	fmt.Fprintf(b, "- **weekend_ratio**: %.2f\n", exp.WeekendRatio)
	fmt.Fprintf(b, "- **hour_variance**: %.2f\n", exp.HourVariance)
	fmt.Fprintf(b, "- **long_gaps_24h**: %d\n", exp.LongGaps24h)
	fmt.Fprintf(b, "- **long_gaps_48h**: %d\n", exp.LongGaps48h)
	fmt.Fprintf(b, "- **max_gap_hours**: %.2f\n", exp.MaxGapHours)
	fmt.Fprintf(b, "- **burst_count_5in2h**: %d\n", exp.BurstCount5In2h)
}

// bucketOrder fixes the display order of time-of-day buckets.
var bucketOrder = []string{"morning", "afternoon", "evening", "late_night"}

func formatBuckets(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, bucket := range bucketOrder {
		if n, ok := counts[bucket]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", bucket, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
