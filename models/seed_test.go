package models_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coachfit/coachfit/models"
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
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MetricSample{},
		&models.ReadinessSnapshot{},
		&models.Goal{},
		&models.DiaryEntry{},
		&models.WorkoutPlan{},
		&models.WorkoutSession{},
	))
	return db
}

func TestSeedDemoDataIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, models.SeedDemoData(db))
	require.NoError(t, models.SeedDemoData(db))

	counts := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}

	assert.EqualValues(t, 1, counts(&models.User{}))
	assert.EqualValues(t, 30, counts(&models.MetricSample{}))
	assert.EqualValues(t, 4, counts(&models.Goal{}))
	assert.EqualValues(t, 5, counts(&models.DiaryEntry{}))
	assert.EqualValues(t, 1, counts(&models.WorkoutPlan{}))
	assert.EqualValues(t, 3, counts(&models.WorkoutSession{}))
	assert.EqualValues(t, 1, counts(&models.ReadinessSnapshot{}))

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, models.DemoEmail, user.Email)

	var snap models.ReadinessSnapshot
	require.NoError(t, db.Where("user_id = ? AND date = ?", user.ID, time.Now().Format("2006-01-02")).First(&snap).Error)
	assert.Equal(t, 78, snap.Score)
	require.Len(t, snap.Factors, 4)
	assert.Equal(t, "positive", snap.Factors["HRV"].Impact)
	assert.Equal(t, "mild", snap.Factors["Muscle Soreness"].Value)

	var plan models.WorkoutPlan
	require.NoError(t, db.First(&plan).Error)
	days, ok := plan.Plan["plan"].([]any)
	require.True(t, ok)
	assert.Len(t, days, 3)
}
