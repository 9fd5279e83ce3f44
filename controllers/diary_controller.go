package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/utils"
)

type DiaryController struct {
	db *gorm.DB
}

func NewDiaryController(db *gorm.DB) *DiaryController {
	return &DiaryController{db: db}
}

type diaryEntryResponse struct {
	ID   uint   `json:"id"`
	Date string `json:"date"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// List returns diary entries, newest first. With no range given it covers
// the trailing 7 days.
func (d *DiaryController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	from := ctx.Query("from")
	to := ctx.Query("to")

	q := d.db.Where("user_id = ?", userID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	if from == "" && to == "" {
		q = q.Where("date >= ?", time.Now().AddDate(0, 0, -7).Format("2006-01-02"))
	}

	var entries []models.DiaryEntry
	if err := q.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load diary")
		return
	}

	items := make([]diaryEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, diaryEntryResponse{ID: e.ID, Date: e.Date, Type: e.Type, Text: e.Text})
	}
	utils.Success(ctx, items)
}

type diaryCreateRequest struct {
	Date string `json:"date"`
	Type string `json:"type" binding:"required"`
	Text string `json:"text" binding:"required"`
}

// Create stores a diary entry, defaulting the date to today.
func (d *DiaryController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var req diaryCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42230, "type and text are required")
		return
	}

	day := req.Date
	if day == "" {
		day = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42231, "date must be YYYY-MM-DD")
		return
	}

	entry := models.DiaryEntry{
		UserID: userID,
		Date:   day,
		Type:   utils.Sanitize(req.Type),
		Text:   utils.Sanitize(req.Text),
	}
	if err := d.db.Create(&entry).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create diary entry")
		return
	}
	utils.Success(ctx, diaryEntryResponse{ID: entry.ID, Date: entry.Date, Type: entry.Type, Text: entry.Text})
}
