// Package readiness derives a daily readiness assessment from recent metric
// samples and memoizes the result as a per-(user, date) snapshot row.
package readiness

import (
	"errors"
	"math"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachfit/coachfit/models"
)

// Impact classifies how a factor contributes to readiness.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNeutral  Impact = "neutral"
	ImpactNegative Impact = "negative"
)

// Status labels for an overall readiness result.
const (
	StatusHigh     = "high"
	StatusGood     = "good"
	StatusModerate = "moderate"
	StatusPoor     = "poor"
	StatusLow      = "low"
	StatusUnknown  = "unknown"
)

// Strategy selects one of the two historical scoring formulas. They predate
// this service and produce different payloads, so callers pick explicitly
// instead of the engine silently unifying them.
type Strategy string

const (
	// StrategyMean averages three sub-scores (sleep, inverted stress, steps).
	StrategyMean Strategy = "mean"
	// StrategyMajority votes over classified factor impacts and maps the
	// winner to a fixed score.
	StrategyMajority Strategy = "majority"
)

// Factor is one named contribution to a readiness result.
type Factor struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Unit        string `json:"unit,omitempty"`
	Impact      Impact `json:"impact"`
	Description string `json:"description,omitempty"`
}

// Result is a computed or cached readiness assessment. The compact fields
// mirror the frontend wire shape and are nil when the backing snapshot does
// not carry them.
type Result struct {
	Score          int
	Status         string
	Recommendation string
	Factors        []Factor
	SleepScore     *int
	HRRest         *int
	HRV            *int
	Fatigue        *string
	Cached         bool
}

// Fallback constants. The two entry-point families historically used
// different fallbacks; they are kept as-is but named in one place.
const (
	fallbackSleepScore  = 75
	fallbackStressScore = 30 // mean-variant scoring term
	fallbackRestingHR   = 60 // compact hr_rest field
	fallbackSteps       = 8000
	fallbackHRV         = 70

	defaultMeanScore     = 75
	defaultMajorityScore = 50
)

// No-data recommendations, one per entry-point family.
const (
	noDataCompact  = "No recent data. Consider logging your metrics for better insights."
	noDataMajority = "No recent data available. Consider logging your metrics for better insights."
	// NoDataMetricsBundle is used by the current-metrics tool default bundle.
	NoDataMetricsBundle = "No recent data available. Consider logging your daily metrics for better insights."
)

var fatigueRecommendations = map[string]string{
	"low":      "You're well recovered. Ready for high-intensity training.",
	"moderate": "You're moderately recovered. A steady training session is fine, but avoid max-intensity efforts.",
	"high":     "You need recovery. Focus on light activity or rest today.",
}

var majorityRecommendations = map[string]string{
	StatusGood:     "You're well recovered. Ready for high-intensity training.",
	StatusModerate: "You're moderately recovered. A steady training session is fine, but avoid max-intensity efforts.",
	StatusPoor:     "You need recovery. Focus on light activity or rest today.",
}

var meanStatusRecommendations = map[string]string{
	StatusHigh:     "You're well recovered and ready for high-intensity training.",
	StatusModerate: "You're moderately recovered. A steady training session is fine, but avoid max-intensity efforts.",
	StatusLow:      "You need recovery. Focus on light activity or rest today.",
}

// StatusRecommendation returns the mean-variant advice text for a status.
func StatusRecommendation(status string) string {
	return meanStatusRecommendations[status]
}

// sampleLookback bounds how far back "latest" may reach.
const sampleLookback = 7

// Engine computes readiness results backed by the snapshot cache.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// ComputeOrCached returns the snapshot for (user, day) when one exists,
// decoded verbatim. On a miss it computes from the latest of the user's
// recent samples and persists the result; concurrent misses converge on a
// single row through the unique (user_id, date) index. A user with no
// samples gets the strategy's default result, which is not persisted so the
// first real import is picked up the same day.
func (e *Engine) ComputeOrCached(userID uint, day string, strategy Strategy) (*Result, error) {
	var snap models.ReadinessSnapshot
	err := e.db.Where("user_id = ? AND date = ?", userID, day).First(&snap).Error
	if err == nil {
		return decodeSnapshot(&snap), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var samples []models.MetricSample
	if err := e.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(sampleLookback).
		Find(&samples).Error; err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return DefaultResult(strategy), nil
	}

	res := Compute(&samples[0], strategy)
	row := models.ReadinessSnapshot{
		UserID:         userID,
		Date:           day,
		Score:          res.Score,
		Status:         res.Status,
		Factors:        encodeFactors(res),
		Recommendation: res.Recommendation,
	}
	if err := e.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// Compute derives a readiness result from a single metric sample. Missing
// metrics fall back to constants; this never fails.
func Compute(s *models.MetricSample, strategy Strategy) *Result {
	if strategy == StrategyMajority {
		return computeMajority(s)
	}
	return computeMean(s)
}

func computeMean(s *models.MetricSample) *Result {
	sleepScore := fallbackSleepScore
	if s.SleepH != nil && *s.SleepH != 0 {
		sleepScore = int(math.Round(*s.SleepH * 10))
	}
	stress := fallbackStressScore
	if s.Stress != nil && *s.Stress != 0 {
		stress = *s.Stress
	}
	steps := fallbackSteps
	if s.Steps != nil && *s.Steps != 0 {
		steps = *s.Steps
	}
	activity := floorDiv(steps, 100)
	if activity > 100 {
		activity = 100
	}

	score := floorDiv(sleepScore+(100-stress)+activity, 3)
	status := StatusLow
	switch {
	case score >= 80:
		status = StatusHigh
	case score >= 60:
		status = StatusModerate
	}

	hrRest := fallbackRestingHR
	if s.Stress != nil && *s.Stress != 0 {
		hrRest = *s.Stress
	}
	hrv := fallbackHRV + floorDiv(sleepScore-fallbackSleepScore, 2)
	fatigue := "high"
	switch {
	case sleepScore > 80:
		fatigue = "low"
	case sleepScore > 70:
		fatigue = "moderate"
	}

	return &Result{
		Score:          score,
		Status:         status,
		Recommendation: fatigueRecommendations[fatigue],
		Factors:        SampleFactors(s),
		SleepScore:     &sleepScore,
		HRRest:         &hrRest,
		HRV:            &hrv,
		Fatigue:        &fatigue,
	}
}

func computeMajority(s *models.MetricSample) *Result {
	var factors []Factor

	hasSleep := s.SleepH != nil && *s.SleepH != 0
	if hasSleep {
		sleepScore := int(math.Round(*s.SleepH * 10))
		impact := ImpactNegative
		switch {
		case sleepScore > 80:
			impact = ImpactPositive
		case sleepScore > 70:
			impact = ImpactNeutral
		}
		factors = append(factors, Factor{Name: "Sleep Quality", Value: sleepScore, Unit: "score", Impact: impact})
	}
	if s.Stress != nil && *s.Stress != 0 {
		hr := *s.Stress // stress doubles as a resting-HR proxy upstream
		impact := ImpactNegative
		switch {
		case hr < 60:
			impact = ImpactPositive
		case hr < 70:
			impact = ImpactNeutral
		}
		factors = append(factors, Factor{Name: "Resting Heart Rate", Value: hr, Unit: "bpm", Impact: impact})
	}
	if hasSleep {
		hrv := fallbackHRV + floorDiv(int(math.Round(*s.SleepH*10))-fallbackSleepScore, 2)
		impact := ImpactNegative
		switch {
		case hrv > 75:
			impact = ImpactPositive
		case hrv > 65:
			impact = ImpactNeutral
		}
		factors = append(factors, Factor{Name: "HRV", Value: hrv, Unit: "ms", Impact: impact})
	}

	positive, negative := 0, 0
	for _, f := range factors {
		switch f.Impact {
		case ImpactPositive:
			positive++
		case ImpactNegative:
			negative++
		}
	}

	score, status := 65, StatusModerate
	switch {
	case positive > negative:
		score, status = 85, StatusGood
	case negative > positive:
		score, status = 45, StatusPoor
	}

	return &Result{
		Score:          score,
		Status:         status,
		Recommendation: majorityRecommendations[status],
		Factors:        factors,
	}
}

// DefaultResult is the documented zero-sample fallback for a strategy.
func DefaultResult(strategy Strategy) *Result {
	if strategy == StrategyMajority {
		return &Result{
			Score:          defaultMajorityScore,
			Status:         StatusUnknown,
			Recommendation: noDataMajority,
			Factors:        []Factor{},
		}
	}
	sleepScore := fallbackSleepScore
	hrRest := fallbackRestingHR
	hrv := fallbackHRV
	fatigue := "moderate"
	return &Result{
		Score:          defaultMeanScore,
		Status:         StatusModerate,
		Recommendation: noDataCompact,
		Factors:        []Factor{},
		SleepScore:     &sleepScore,
		HRRest:         &hrRest,
		HRV:            &hrv,
		Fatigue:        &fatigue,
	}
}

// encodeFactors builds the persisted factor map: the compact scalars the
// frontend shape reads back, plus every named factor as a structured entry.
func encodeFactors(res *Result) models.FactorMap {
	m := models.FactorMap{}
	if res.SleepScore != nil {
		m["sleep_score"] = models.FactorValue{Value: *res.SleepScore}
	}
	if res.HRRest != nil {
		m["hr_rest"] = models.FactorValue{Value: *res.HRRest}
	}
	if res.HRV != nil {
		m["hrv"] = models.FactorValue{Value: *res.HRV}
	}
	if res.Fatigue != nil {
		m["fatigue"] = models.FactorValue{Value: *res.Fatigue}
	}
	for _, f := range res.Factors {
		m[f.Name] = models.FactorValue{Value: f.Value, Unit: f.Unit, Impact: string(f.Impact)}
	}
	return m
}

// decodeSnapshot turns a stored snapshot back into a result. Score, status
// and recommendation are returned verbatim; every map entry becomes a factor
// (scalar entries with neutral impact), and the compact scalars additionally
// populate the frontend fields when present.
func decodeSnapshot(snap *models.ReadinessSnapshot) *Result {
	res := &Result{
		Score:          snap.Score,
		Status:         snap.Status,
		Recommendation: snap.Recommendation,
		Factors:        []Factor{},
		Cached:         true,
	}

	names := make([]string, 0, len(snap.Factors))
	for name := range snap.Factors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fv := snap.Factors[name]
		impact := ImpactNeutral
		if fv.Impact != "" {
			impact = Impact(fv.Impact)
		}
		res.Factors = append(res.Factors, Factor{Name: name, Value: fv.Value, Unit: fv.Unit, Impact: impact})

		switch name {
		case "sleep_score":
			if n, ok := asInt(fv.Value); ok {
				res.SleepScore = &n
			}
		case "hr_rest":
			if n, ok := asInt(fv.Value); ok {
				res.HRRest = &n
			}
		case "hrv":
			if n, ok := asInt(fv.Value); ok {
				res.HRV = &n
			}
		case "fatigue":
			if s, ok := fv.Value.(string); ok {
				res.Fatigue = &s
			}
		}
	}
	return res
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// floorDiv matches floor semantics for negative operands, which plain Go
// integer division does not.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
