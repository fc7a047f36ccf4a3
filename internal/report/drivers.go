package report

import (
	"fmt"
	"strings"

	"github.com/cadencestack/cadence-engine/internal/models"
)

// RiskBand maps a risk score to a coarse band name.
func RiskBand(risk float64) string {
	switch {
	case risk >= 0.8:
		return "High"
	case risk >= 0.5:
		return "Medium"
	default:
		return "Low"
	}
}

// RiskAdvice returns the one-line framing that accompanies a risk band.
func RiskAdvice(risk float64) string {
	switch {
	case risk >= 0.8:
		return "Tomorrow might slip unless you reduce friction tonight."
	case risk >= 0.5:
		return "You'll be okay with a small plan and one early win."
	default:
		return "Rhythm looks decent - keep it simple and consistent."
	}
}

// PatternSummary returns a one-line interpretation of a pattern label.
func PatternSummary(pattern string) string {
	switch {
	case strings.Contains(pattern, "Avoidance"):
		return "Long gaps plus late returns usually mean the task feels high-stakes or unclear."
	case strings.Contains(pattern, "Fatigue"):
		return "Evening-heavy work can be fine, but fatigue makes starting harder."
	case strings.Contains(pattern, "Deadline"):
		return "Bursts can work, but earlier mini-deadlines reduce stress."
	case strings.Contains(pattern, "Consistent"):
		return "Pretty steady. Your main goal is protecting this rhythm."
	default:
		return "Mixed pattern - usually fixed by clearer next steps and a predictable work slot."
	}
}

// TopDrivers distils the explainability snapshot into at most five
// human-readable driver sentences.
func TopDrivers(exp models.Explainability) []string {
	drivers := make([]string, 0, 5)
	if exp.LongGaps24h > 0 {
		drivers = append(drivers, fmt.Sprintf("%d long inactivity gap(s) (>24h).", exp.LongGaps24h))
	}
	if exp.LateNightRatio >= 0.25 {
		drivers = append(drivers, fmt.Sprintf("Late-night activity shows up often (%d%%).", int(exp.LateNightRatio*100)))
	}
	if exp.BurstCount5In2h > 0 {
		drivers = append(drivers, fmt.Sprintf("%d burst window(s): 5+ events within 2 hours.", exp.BurstCount5In2h))
	}
	if exp.PeakHour != nil {
		drivers = append(drivers, fmt.Sprintf("Peak activity hour: around %d:00.", *exp.PeakHour))
	}
	if exp.WeekendRatio >= 0.35 {
		drivers = append(drivers, fmt.Sprintf("A lot of activity happens on weekends (%d%%).", int(exp.WeekendRatio*100)))
	}
	if len(drivers) == 0 {
		drivers = append(drivers, "No single strong driver - looks mixed.")
	}
	if len(drivers) > 5 {
		drivers = drivers[:5]
	}
	return drivers
}
