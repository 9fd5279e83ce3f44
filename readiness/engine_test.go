package readiness_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/readiness"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.MetricSample{}, &models.ReadinessSnapshot{}))
	return db
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestDefaultResults(t *testing.T) {
	mean := readiness.DefaultResult(readiness.StrategyMean)
	assert.Equal(t, 75, mean.Score)
	assert.Equal(t, readiness.StatusModerate, mean.Status)
	assert.Contains(t, mean.Recommendation, "No recent data")
	require.NotNil(t, mean.SleepScore)
	assert.Equal(t, 75, *mean.SleepScore)
	require.NotNil(t, mean.HRRest)
	assert.Equal(t, 60, *mean.HRRest)
	require.NotNil(t, mean.HRV)
	assert.Equal(t, 70, *mean.HRV)

	majority := readiness.DefaultResult(readiness.StrategyMajority)
	assert.Equal(t, 50, majority.Score)
	assert.Equal(t, readiness.StatusUnknown, majority.Status)
	assert.Empty(t, majority.Factors)
}

func TestComputeOrCachedNoSamples(t *testing.T) {
	db := newTestDB(t)
	engine := readiness.NewEngine(db)

	res, err := engine.ComputeOrCached(1, "2026-08-31", readiness.StrategyMean)
	require.NoError(t, err)
	assert.Equal(t, 75, res.Score)
	assert.False(t, res.Cached)

	// The no-data default must not be persisted, so the first real import
	// is picked up the same day.
	var count int64
	require.NoError(t, db.Model(&models.ReadinessSnapshot{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSleepScoreDerivation(t *testing.T) {
	res := readiness.Compute(&models.MetricSample{SleepH: fptr(7.5)}, readiness.StrategyMean)
	require.NotNil(t, res.SleepScore)
	assert.Equal(t, 75, *res.SleepScore)

	res = readiness.Compute(&models.MetricSample{SleepH: fptr(8.2)}, readiness.StrategyMean)
	require.NotNil(t, res.SleepScore)
	assert.Equal(t, 82, *res.SleepScore)

	// Majority scoring classifies the same sleep values by impact.
	maj := readiness.Compute(&models.MetricSample{SleepH: fptr(7.5)}, readiness.StrategyMajority)
	require.Len(t, maj.Factors, 2) // Sleep Quality + derived HRV
	assert.Equal(t, "Sleep Quality", maj.Factors[0].Name)
	assert.Equal(t, readiness.ImpactNeutral, maj.Factors[0].Impact)

	maj = readiness.Compute(&models.MetricSample{SleepH: fptr(8.2)}, readiness.StrategyMajority)
	assert.Equal(t, readiness.ImpactPositive, maj.Factors[0].Impact)
}

func TestHRVDerivation(t *testing.T) {
	// sleep 6.0h yields sleep_score 60; the HRV offset must round toward
	// negative infinity: 70 + (60-75)/2 -> 62, not 63.
	res := readiness.Compute(&models.MetricSample{SleepH: fptr(6.0)}, readiness.StrategyMean)
	require.NotNil(t, res.HRV)
	assert.Equal(t, 62, *res.HRV)

	res = readiness.Compute(&models.MetricSample{SleepH: fptr(8.0)}, readiness.StrategyMean)
	require.NotNil(t, res.HRV)
	assert.Equal(t, 72, *res.HRV)
}

func TestStressedSampleScoresLow(t *testing.T) {
	sample := &models.MetricSample{Stress: iptr(80), Steps: iptr(3000)}

	mean := readiness.Compute(sample, readiness.StrategyMean)
	// sleep fallback 75, inverted stress 20, activity 30 -> 41
	assert.Equal(t, 41, mean.Score)
	assert.Equal(t, readiness.StatusLow, mean.Status)
	require.NotNil(t, mean.HRRest)
	assert.Equal(t, 80, *mean.HRRest)

	majority := readiness.Compute(sample, readiness.StrategyMajority)
	assert.Equal(t, 45, majority.Score)
	assert.Equal(t, readiness.StatusPoor, majority.Status)
	require.Len(t, majority.Factors, 1)
	assert.Equal(t, "Resting Heart Rate", majority.Factors[0].Name)
	assert.Equal(t, readiness.ImpactNegative, majority.Factors[0].Impact)
}

func TestMeanStatusThresholds(t *testing.T) {
	high := readiness.Compute(&models.MetricSample{
		SleepH: fptr(9.0), Stress: iptr(10), Steps: iptr(12000),
	}, readiness.StrategyMean)
	// (90 + 90 + 100) / 3 = 93
	assert.Equal(t, 93, high.Score)
	assert.Equal(t, readiness.StatusHigh, high.Status)

	moderate := readiness.Compute(&models.MetricSample{
		SleepH: fptr(7.0), Stress: iptr(40), Steps: iptr(5000),
	}, readiness.StrategyMean)
	// (70 + 60 + 50) / 3 = 60, the moderate boundary
	assert.Equal(t, 60, moderate.Score)
	assert.Equal(t, readiness.StatusModerate, moderate.Status)
}

func TestComputeOrCachedPersistsAndPins(t *testing.T) {
	db := newTestDB(t)
	engine := readiness.NewEngine(db)
	day := "2026-08-31"

	require.NoError(t, db.Create(&models.MetricSample{
		UserID: 1, Date: day, SleepH: fptr(8.2), Stress: iptr(20), Steps: iptr(11000),
	}).Error)

	first, err := engine.ComputeOrCached(1, day, readiness.StrategyMean)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	var count int64
	require.NoError(t, db.Model(&models.ReadinessSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// A dramatically worse sample arriving later must not move the day's
	// cached assessment.
	require.NoError(t, db.Create(&models.MetricSample{
		UserID: 1, Date: day, SleepH: fptr(3.0), Stress: iptr(95), Steps: iptr(500),
	}).Error)

	second, err := engine.ComputeOrCached(1, day, readiness.StrategyMean)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Recommendation, second.Recommendation)
	require.NotNil(t, second.SleepScore)
	assert.Equal(t, *first.SleepScore, *second.SleepScore)
}

func TestComputeOrCachedConcurrentMiss(t *testing.T) {
	db := newTestDB(t)
	engine := readiness.NewEngine(db)
	day := "2026-08-30"

	require.NoError(t, db.Create(&models.MetricSample{
		UserID: 7, Date: day, SleepH: fptr(7.2), Stress: iptr(35), Steps: iptr(9000),
	}).Error)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.ComputeOrCached(7, day, readiness.StrategyMean)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.ReadinessSnapshot{}).
		Where("user_id = ? AND date = ?", 7, day).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCachedSnapshotDecoding(t *testing.T) {
	db := newTestDB(t)
	engine := readiness.NewEngine(db)

	require.NoError(t, db.Create(&models.ReadinessSnapshot{
		UserID: 3,
		Date:   "2026-08-29",
		Score:  78,
		Status: readiness.StatusModerate,
		Factors: models.FactorMap{
			"sleep_score": {Value: 82},
			"hr_rest":     {Value: 62},
			"hrv":         {Value: 74},
			"fatigue":     {Value: "low"},
			"HRV":         {Value: 74, Unit: "ms", Impact: "positive"},
		},
		Recommendation: "Steady session today.",
	}).Error)

	res, err := engine.ComputeOrCached(3, "2026-08-29", readiness.StrategyMajority)
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, 78, res.Score)
	assert.Equal(t, "Steady session today.", res.Recommendation)
	require.NotNil(t, res.SleepScore)
	assert.Equal(t, 82, *res.SleepScore)
	require.NotNil(t, res.Fatigue)
	assert.Equal(t, "low", *res.Fatigue)

	// Every stored entry comes back as a factor, sorted by name, with the
	// structured entry keeping its impact and the scalars turning neutral.
	require.Len(t, res.Factors, 5)
	assert.Equal(t, "HRV", res.Factors[0].Name)
	assert.Equal(t, readiness.ImpactPositive, res.Factors[0].Impact)
	assert.Equal(t, "fatigue", res.Factors[1].Name)
	assert.Equal(t, readiness.ImpactNeutral, res.Factors[1].Impact)
}
