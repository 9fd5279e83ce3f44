package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/middleware"
	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/readiness"
	"github.com/coachfit/coachfit/utils"
)

// ToolsController implements the agent-facing tool endpoints. Tool calls
// never 404 on unknown users; they answer with a degraded envelope so the
// calling agent can keep the conversation going.
type ToolsController struct {
	db     *gorm.DB
	engine *readiness.Engine
}

func NewToolsController(db *gorm.DB, engine *readiness.Engine) *ToolsController {
	return &ToolsController{db: db, engine: engine}
}

type readinessScoreRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	SessionID string `json:"session_id"`
}

type readinessFactor struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Unit   string `json:"unit,omitempty"`
	Impact string `json:"impact"`
}

type readinessScore struct {
	Score          int               `json:"score"`
	Status         string            `json:"status"`
	Recommendation string            `json:"recommendation"`
	Factors        []readinessFactor `json:"factors"`
}

type readinessScoreResponse struct {
	UserID         string         `json:"user_id"`
	Date           string         `json:"date"`
	ReadinessScore readinessScore `json:"readiness_score"`
	Notes          string         `json:"notes,omitempty"`
}

// GetReadinessScore resolves the user by email, then by numeric id, and
// answers with the cached-or-computed readiness for the requested date.
func (t *ToolsController) GetReadinessScore(ctx *gin.Context) {
	var req readinessScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42240, "invalid request body")
		return
	}

	day := req.Date
	if _, err := time.Parse("2006-01-02", day); err != nil {
		day = time.Now().Format("2006-01-02")
	}

	user, found := t.lookupUser(req.UserID)
	if !found {
		resp := readinessScoreResponse{
			UserID: req.UserID,
			Date:   day,
			ReadinessScore: readinessScore{
				Score:          50,
				Status:         readiness.StatusUnknown,
				Recommendation: "User not found. Please check the user ID.",
				Factors:        []readinessFactor{},
			},
			Notes: "User not found in system",
		}
		t.logCall("getReadinessScore", nil, &req.SessionID, models.JSONMap{"user_id": req.UserID, "date": day})
		ctx.JSON(http.StatusOK, resp)
		return
	}

	res, err := t.engine.ComputeOrCached(user.ID, day, readiness.StrategyMajority)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to compute readiness")
		return
	}

	factors := make([]readinessFactor, 0, len(res.Factors))
	for _, f := range res.Factors {
		factors = append(factors, readinessFactor{Name: f.Name, Value: f.Value, Unit: f.Unit, Impact: string(f.Impact)})
	}

	resp := readinessScoreResponse{
		UserID: req.UserID,
		Date:   day,
		ReadinessScore: readinessScore{
			Score:          res.Score,
			Status:         res.Status,
			Recommendation: res.Recommendation,
			Factors:        factors,
		},
	}
	if !res.Cached {
		if res.Status == readiness.StatusUnknown {
			resp.Notes = "No metrics available"
		} else {
			resp.Notes = "Calculated from recent metrics"
		}
	}

	t.logCall("getReadinessScore", &user.ID, &req.SessionID, models.JSONMap{"user_id": req.UserID, "date": day})
	ctx.JSON(http.StatusOK, resp)
}

type currentMetricsRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type metricFactor struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Unit        string `json:"unit"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

type currentMetricsResponse struct {
	UserID         string         `json:"userId"`
	Date           string         `json:"date"`
	CurrentMetrics map[string]any `json:"currentMetrics"`
	ReadinessScore int            `json:"readinessScore"`
	Status         string         `json:"readinessStatus"`
	Recommendation string         `json:"recommendation"`
	Factors        []metricFactor `json:"factors"`
	Notes          string         `json:"notes"`
}

// GetCurrentMetrics answers with the demo user's latest metric bundle and
// a readiness summary derived from it. Users without samples get a fixed
// default bundle instead of an error.
func (t *ToolsController) GetCurrentMetrics(ctx *gin.Context) {
	var req currentMetricsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42241, "invalid request body")
		return
	}

	user, err := middleware.ResolveDemoUser(t.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to resolve user")
		return
	}

	since := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	var samples []models.MetricSample
	if err := t.db.Where("user_id = ? AND date >= ?", user.ID, since).
		Order("date DESC, id DESC").
		Find(&samples).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load metrics")
		return
	}

	t.logCall("getCurrentMetrics", &user.ID, &req.SessionID, models.JSONMap{"user_id": req.UserID})

	if len(samples) == 0 {
		metrics, factors := readiness.DefaultMetricsBundle()
		ctx.JSON(http.StatusOK, currentMetricsResponse{
			UserID:         strconv.FormatUint(uint64(user.ID), 10),
			Date:           time.Now().Format("2006-01-02"),
			CurrentMetrics: metrics,
			ReadinessScore: 75,
			Status:         readiness.StatusModerate,
			Recommendation: readiness.NoDataMetricsBundle,
			Factors:        toMetricFactors(factors),
			Notes:          "Using default metrics as no recent data is available.",
		})
		return
	}

	latest := &samples[0]
	res := readiness.Compute(latest, readiness.StrategyMean)

	ctx.JSON(http.StatusOK, currentMetricsResponse{
		UserID:         strconv.FormatUint(uint64(user.ID), 10),
		Date:           latest.Date,
		CurrentMetrics: readiness.CurrentMetrics(latest),
		ReadinessScore: res.Score,
		Status:         res.Status,
		Recommendation: readiness.StatusRecommendation(res.Status),
		Factors:        toMetricFactors(res.Factors),
		Notes:          readiness.SampleNotes(latest),
	})
}

func toMetricFactors(factors []readiness.Factor) []metricFactor {
	out := make([]metricFactor, 0, len(factors))
	for _, f := range factors {
		out = append(out, metricFactor{
			Name:        f.Name,
			Value:       f.Value,
			Unit:        f.Unit,
			Impact:      string(f.Impact),
			Description: f.Description,
		})
	}
	return out
}

// lookupUser tries the identifier as an email first, then as a numeric id.
func (t *ToolsController) lookupUser(identifier string) (*models.User, bool) {
	if identifier == "" {
		return nil, false
	}
	var user models.User
	if err := t.db.Where("email = ?", identifier).First(&user).Error; err == nil {
		return &user, true
	}
	id, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil {
		return nil, false
	}
	if err := t.db.First(&user, id).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// logCall appends an audit row for a tool invocation. Failures are logged
// and swallowed so auditing never breaks a tool response.
func (t *ToolsController) logCall(tool string, userID *uint, sessionID *string, payload models.JSONMap) {
	requestID := uuid.NewString()
	var sid *string
	if sessionID != nil && *sessionID != "" {
		sid = sessionID
	}
	row := models.ToolLog{
		Tool:      tool,
		UserID:    userID,
		SessionID: sid,
		RequestID: &requestID,
		Payload:   payload,
	}
	if err := t.db.Create(&row).Error; err != nil && utils.Sugar != nil {
		utils.Sugar.Warnw("tool log write failed", "tool", tool, "err", err)
	}
}
