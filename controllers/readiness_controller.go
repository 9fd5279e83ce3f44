package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/readiness"
	"github.com/coachfit/coachfit/utils"
)

// ReadinessController serves the compact frontend readiness shape.
type ReadinessController struct {
	db     *gorm.DB
	engine *readiness.Engine
}

func NewReadinessController(db *gorm.DB, engine *readiness.Engine) *ReadinessController {
	return &ReadinessController{db: db, engine: engine}
}

// Today returns today's readiness for the current user, cached-or-computed.
func (r *ReadinessController) Today(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	today := time.Now().Format("2006-01-02")
	res, err := r.engine.ComputeOrCached(userID, today, readiness.StrategyMean)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to compute readiness")
		return
	}

	utils.Success(ctx, gin.H{
		"sleep_score":    res.SleepScore,
		"hr_rest":        res.HRRest,
		"hrv":            res.HRV,
		"fatigue":        res.Fatigue,
		"recommendation": res.Recommendation,
	})
}
