package main

import (
	"github.com/coachfit/coachfit/config"
	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/routes"
	"github.com/coachfit/coachfit/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	utils.InitRedis(cfg)

	db := config.InitDatabase(cfg,
		&models.User{},
		&models.MetricSample{},
		&models.ReadinessSnapshot{},
		&models.Goal{},
		&models.DiaryEntry{},
		&models.WorkoutPlan{},
		&models.WorkoutSession{},
		&models.ToolLog{},
	)

	if cfg.SeedDemo {
		if err := models.SeedDemoData(db); err != nil {
			utils.Sugar.Fatalf("demo seed failed: %v", err)
		}
	}

	r := routes.SetupRouter(db, cfg)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
