package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/config"
	"github.com/coachfit/coachfit/controllers"
	"github.com/coachfit/coachfit/middleware"
	"github.com/coachfit/coachfit/readiness"
	"github.com/coachfit/coachfit/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cfg config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	tokens := utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	engine := readiness.NewEngine(db)

	authController := controllers.NewAuthController(db, tokens, cfg.DemoMode)
	readinessController := controllers.NewReadinessController(db, engine)
	metricsController := controllers.NewMetricsController(db)
	goalsController := controllers.NewGoalsController(db)
	diaryController := controllers.NewDiaryController(db)
	toolsController := controllers.NewToolsController(db, engine)
	voiceController := controllers.NewVoiceController(cfg)

	sessionAuth := middleware.AuthRequired(tokens, db, cfg.DemoMode)

	if cfg.DemoMode {
		r.POST("/dev/login", authController.DevLogin)
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", sessionAuth, authController.Logout)

	protected := api.Group("")
	protected.Use(sessionAuth)
	protected.GET("/me", authController.Me)
	protected.GET("/readiness/today", readinessController.Today)
	protected.GET("/metrics/timeline", metricsController.Timeline)
	protected.POST("/metrics/import", metricsController.Import)
	protected.GET("/goals", goalsController.List)
	protected.POST("/goals", goalsController.Create)
	protected.DELETE("/goals/:id", goalsController.Delete)
	protected.GET("/diary", diaryController.List)
	protected.POST("/diary", diaryController.Create)

	api.POST("/voice/tts", voiceController.TTS)

	tools := r.Group("/tools")
	tools.Use(middleware.AgentAuthRequired(cfg.AgentToken))
	tools.POST("/getReadinessScore", toolsController.GetReadinessScore)
	tools.POST("/getCurrentMetrics", toolsController.GetCurrentMetrics)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
