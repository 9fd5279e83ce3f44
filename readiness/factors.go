package readiness

import (
	"strings"

	"github.com/coachfit/coachfit/models"
)

// Per-metric shaping for the current-metrics tool: named factors with
// human-readable descriptions and a notes line flagging out-of-range values.

// SampleFactors classifies each present metric of a sample against fixed
// thresholds. Metrics that were never recorded produce no factor.
func SampleFactors(s *models.MetricSample) []Factor {
	var factors []Factor

	if s.SleepH != nil && *s.SleepH != 0 {
		impact := ImpactNeutral
		switch {
		case *s.SleepH >= 7:
			impact = ImpactPositive
		case *s.SleepH < 6:
			impact = ImpactNegative
		}
		factors = append(factors, Factor{
			Name: "Sleep", Value: *s.SleepH, Unit: "hours", Impact: impact,
			Description: "Last night's sleep duration",
		})
	}
	if s.Stress != nil {
		impact := ImpactNeutral
		switch {
		case *s.Stress <= 30:
			impact = ImpactPositive
		case *s.Stress >= 70:
			impact = ImpactNegative
		}
		factors = append(factors, Factor{
			Name: "Stress", Value: *s.Stress, Unit: "score", Impact: impact,
			Description: "Current stress level (lower is better)",
		})
	}
	if s.Steps != nil && *s.Steps != 0 {
		impact := ImpactNegative
		switch {
		case *s.Steps >= 10000:
			impact = ImpactPositive
		case *s.Steps >= 6000:
			impact = ImpactNeutral
		}
		factors = append(factors, Factor{
			Name: "Activity", Value: *s.Steps, Unit: "steps", Impact: impact,
			Description: "Daily step count",
		})
	}
	if s.Cardio != nil {
		impact := ImpactNegative
		switch {
		case *s.Cardio >= 60:
			impact = ImpactPositive
		case *s.Cardio >= 40:
			impact = ImpactNeutral
		}
		factors = append(factors, Factor{
			Name: "Cardio", Value: *s.Cardio, Unit: "minutes", Impact: impact,
			Description: "Cardio exercise duration",
		})
	}
	if s.ActiveMin != nil && *s.ActiveMin != 0 {
		impact := ImpactNegative
		switch {
		case *s.ActiveMin >= 45:
			impact = ImpactPositive
		case *s.ActiveMin >= 30:
			impact = ImpactNeutral
		}
		factors = append(factors, Factor{
			Name: "Active Minutes", Value: *s.ActiveMin, Unit: "minutes", Impact: impact,
			Description: "Active exercise minutes",
		})
	}

	return factors
}

// SampleNotes summarizes which metrics sit outside their healthy range.
func SampleNotes(s *models.MetricSample) string {
	var parts []string
	if s.SleepH != nil && *s.SleepH != 0 && *s.SleepH < 7 {
		parts = append(parts, "Sleep duration is below recommended 7-9 hours.")
	}
	if s.Stress != nil && *s.Stress > 50 {
		parts = append(parts, "Stress levels are elevated.")
	}
	if s.Steps != nil && *s.Steps != 0 && *s.Steps < 8000 {
		parts = append(parts, "Daily activity is below target.")
	}
	if len(parts) == 0 {
		return "Metrics look good overall."
	}
	return strings.Join(parts, " ")
}

// CurrentMetrics renders the sample as the tool's metric bundle, filling
// gaps with the documented defaults.
func CurrentMetrics(s *models.MetricSample) map[string]any {
	return map[string]any{
		"sleep":    orFloat(s.SleepH, 7.5),
		"stress":   orInt(s.Stress, 30),
		"steps":    orInt(s.Steps, 8000),
		"cardio":   orInt(s.Cardio, 50),
		"active":   orInt(s.ActiveMin, 35),
		"distance": orFloat(s.DistanceKM, 6.2),
		"calories": orInt(s.Calories, 2200),
	}
}

// DefaultMetricsBundle is the fixed payload returned when a user has no
// samples at all.
func DefaultMetricsBundle() (map[string]any, []Factor) {
	metrics := map[string]any{
		"sleep":    7.5,
		"stress":   30,
		"steps":    8000,
		"cardio":   50,
		"active":   35,
		"distance": 6.2,
		"calories": 2200,
	}
	factors := []Factor{
		{Name: "Sleep", Value: 7.5, Unit: "hours", Impact: ImpactNeutral, Description: "Default sleep value"},
		{Name: "Stress", Value: 30, Unit: "score", Impact: ImpactPositive, Description: "Default stress level"},
		{Name: "Activity", Value: 8000, Unit: "steps", Impact: ImpactNeutral, Description: "Default step count"},
	}
	return metrics, factors
}

func orFloat(p *float64, def float64) float64 {
	if p == nil || *p == 0 {
		return def
	}
	return *p
}

func orInt(p *int, def int) int {
	if p == nil || *p == 0 {
		return def
	}
	return *p
}
