package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// SeedDemoData provisions the demo user plus a month of plausible metrics,
// goals, diary entries, a weekly plan and today's readiness snapshot.
// Safe to run on every boot; existing rows are left alone.
func SeedDemoData(db *gorm.DB) error {
	var user User
	err := db.Where("email = ?", DemoEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		height := DemoHeightCM
		weight := DemoWeightKG
		user = User{Email: DemoEmail, Name: DemoName, HeightCM: &height, WeightKG: &weight}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	today := time.Now()
	for i := 0; i < 30; i++ {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")

		var count int64
		if err := db.Model(&MetricSample{}).Where("user_id = ? AND date = ?", user.ID, day).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		sleep := 7.5 + float64(i%3-1)*0.5
		stress := 30 + (i%5)*5
		steps := 8000 + (i%7)*500
		cardio := 45 + (i%3)*5
		active := 35 + (i%4)*5
		dist := 6.0 + float64(i%3)*0.5
		cal := 2200 + (i%5)*50
		sample := MetricSample{
			UserID:     user.ID,
			Date:       day,
			SleepH:     &sleep,
			Stress:     &stress,
			Steps:      &steps,
			Cardio:     &cardio,
			ActiveMin:  &active,
			DistanceKM: &dist,
			Calories:   &cal,
		}
		if err := db.Create(&sample).Error; err != nil {
			return err
		}
	}

	goals := []Goal{
		{UserID: user.ID, Category: "speed", Text: "Hit 31 km/h top speed"},
		{UserID: user.ID, Category: "passing", Text: "Reach 88% pass accuracy"},
		{UserID: user.ID, Category: "endurance", Text: "Complete 10km run under 45 minutes"},
		{UserID: user.ID, Category: "strength", Text: "Bench press 100kg for 5 reps"},
	}
	for _, g := range goals {
		var count int64
		if err := db.Model(&Goal{}).Where("user_id = ? AND category = ? AND text = ?", user.ID, g.Category, g.Text).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&g).Error; err != nil {
				return err
			}
		}
	}

	diary := []DiaryEntry{
		{UserID: user.ID, Type: "training", Text: "5v5 small-sided, good pop"},
		{UserID: user.ID, Type: "eating", Text: "Carb load pre-session"},
		{UserID: user.ID, Type: "recovery", Text: "Ice bath after intense workout"},
		{UserID: user.ID, Type: "sleep", Text: "Slept well, feeling refreshed"},
		{UserID: user.ID, Type: "training", Text: "Speed drills and agility work"},
	}
	for i, e := range diary {
		e.Date = today.AddDate(0, 0, -(i + 1)).Format("2006-01-02")
		var count int64
		if err := db.Model(&DiaryEntry{}).Where("user_id = ? AND date = ? AND type = ?", user.ID, e.Date, e.Type).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&e).Error; err != nil {
				return err
			}
		}
	}

	weekday := int(today.Weekday()+6) % 7 // Monday-based offset
	weekStart := today.AddDate(0, 0, -weekday).Format("2006-01-02")
	var planCount int64
	if err := db.Model(&WorkoutPlan{}).Where("user_id = ? AND week_start = ?", user.ID, weekStart).Count(&planCount).Error; err != nil {
		return err
	}
	if planCount == 0 {
		plan := WorkoutPlan{
			UserID:    user.ID,
			WeekStart: weekStart,
			Plan: JSONMap{
				"plan": []any{
					map[string]any{
						"day": "Monday", "focus": "speed", "volume": 1.0,
						"exercises": []any{
							map[string]any{"name": "Sprint intervals", "sets": 6, "reps": 30, "rest_seconds": 90},
							map[string]any{"name": "Agility ladder", "sets": 3, "reps": 5, "rest_seconds": 60},
						},
					},
					map[string]any{
						"day": "Wednesday", "focus": "passing", "volume": 0.9,
						"exercises": []any{
							map[string]any{"name": "Rondo 6v2", "sets": 4, "reps": 3, "rest_seconds": 120},
							map[string]any{"name": "Passing patterns", "sets": 3, "reps": 8, "rest_seconds": 90},
						},
					},
					map[string]any{
						"day": "Friday", "focus": "conditioning", "volume": 0.8,
						"exercises": []any{
							map[string]any{"name": "HIIT intervals", "sets": 8, "reps": 45, "rest_seconds": 60},
							map[string]any{"name": "Small-sided games", "sets": 3, "reps": 6, "rest_seconds": 180},
						},
					},
				},
			},
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}

	sessions := []WorkoutSession{
		{UserID: user.ID, Activity: "speed", Data: JSONMap{"duration_min": 55, "intensity": "high"}},
		{UserID: user.ID, Activity: "passing", Data: JSONMap{"duration_min": 70, "intensity": "moderate"}},
		{UserID: user.ID, Activity: "conditioning", Data: JSONMap{"duration_min": 45, "intensity": "high"}},
	}
	for i, s := range sessions {
		s.Date = today.AddDate(0, 0, -(i*2 + 1)).Format("2006-01-02")
		var count int64
		if err := db.Model(&WorkoutSession{}).Where("user_id = ? AND date = ? AND activity = ?", user.ID, s.Date, s.Activity).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&s).Error; err != nil {
				return err
			}
		}
	}

	todayStr := today.Format("2006-01-02")
	var snapCount int64
	if err := db.Model(&ReadinessSnapshot{}).Where("user_id = ? AND date = ?", user.ID, todayStr).Count(&snapCount).Error; err != nil {
		return err
	}
	if snapCount == 0 {
		snapshot := ReadinessSnapshot{
			UserID: user.ID,
			Date:   todayStr,
			Score:  78,
			Status: "moderate",
			Factors: FactorMap{
				"HRV":                {Value: 74, Unit: "ms", Impact: "positive"},
				"Resting Heart Rate": {Value: 62, Unit: "bpm", Impact: "neutral"},
				"Sleep Quality":      {Value: 82, Unit: "score", Impact: "positive"},
				"Muscle Soreness":    {Value: "mild", Impact: "negative"},
			},
			Recommendation: "You're moderately recovered. A steady training session is fine, but avoid max-intensity efforts.",
		}
		if err := db.Create(&snapshot).Error; err != nil {
			return err
		}
	}

	return nil
}
