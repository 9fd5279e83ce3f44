package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/utils"
)

// MetricsController serves the timeline view and the CSV bulk import.
type MetricsController struct {
	db *gorm.DB
}

func NewMetricsController(db *gorm.DB) *MetricsController {
	return &MetricsController{db: db}
}

type timelineItem struct {
	Date   string   `json:"date"`
	Sleep  *float64 `json:"sleep"`
	Stress *int     `json:"stress"`
	Steps  *int     `json:"steps"`
	Cardio *int     `json:"cardio"`
	Active *int     `json:"active"`
	Dist   *float64 `json:"dist"`
	Cal    *int     `json:"cal"`
}

// Timeline lists the user's samples for the trailing week or month,
// oldest first. Unknown periods fall back to a week.
func (m *MetricsController) Timeline(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	days := 7
	if ctx.DefaultQuery("period", "week") == "month" {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	var samples []models.MetricSample
	if err := m.db.Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&samples).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load metrics")
		return
	}

	items := make([]timelineItem, 0, len(samples))
	for _, s := range samples {
		items = append(items, timelineItem{
			Date:   s.Date,
			Sleep:  s.SleepH,
			Stress: s.Stress,
			Steps:  s.Steps,
			Cardio: s.Cardio,
			Active: s.ActiveMin,
			Dist:   s.DistanceKM,
			Cal:    s.Calories,
		})
	}
	utils.Success(ctx, items)
}

type metricsImportRequest struct {
	CSVData string `json:"csv_data" binding:"required"`
}

// Import parses delimited metric rows: a header line followed by rows of
// date,sleep,stress,steps,cardio,active,distance,calories. Empty cells
// become NULLs, malformed rows are dropped without failing the import.
func (m *MetricsController) Import(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var req metricsImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42210, "csv_data is required")
		return
	}

	lines := strings.Split(strings.TrimSpace(req.CSVData), "\n")
	if len(lines) < 2 {
		utils.Success(ctx, gin.H{"rows": 0, "period_detected": "unknown"})
		return
	}

	var rows []models.MetricSample
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample, ok := parseMetricRow(userID, strings.Split(line, ","))
		if !ok {
			continue
		}
		rows = append(rows, sample)
	}

	if len(rows) > 0 {
		if err := m.db.Create(&rows).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to store metrics")
			return
		}
	}

	period := "week"
	if len(rows) > 7 {
		period = "month"
	}
	utils.Success(ctx, gin.H{"rows": len(rows), "period_detected": period})
}

func parseMetricRow(userID uint, parts []string) (models.MetricSample, bool) {
	if len(parts) < 8 {
		return models.MetricSample{}, false
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(parts[0]))
	if err != nil {
		return models.MetricSample{}, false
	}

	sample := models.MetricSample{UserID: userID, Date: day.Format("2006-01-02")}
	ok := true

	parseF := func(cell string) *float64 {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return nil
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			ok = false
			return nil
		}
		return &v
	}
	parseI := func(cell string) *int {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return nil
		}
		v, err := strconv.Atoi(cell)
		if err != nil {
			ok = false
			return nil
		}
		return &v
	}

	sample.SleepH = parseF(parts[1])
	sample.Stress = parseI(parts[2])
	sample.Steps = parseI(parts[3])
	sample.Cardio = parseI(parts[4])
	sample.ActiveMin = parseI(parts[5])
	sample.DistanceKM = parseF(parts[6])
	sample.Calories = parseI(parts[7])

	return sample, ok
}
