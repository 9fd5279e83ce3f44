package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/utils"
)

type GoalsController struct {
	db *gorm.DB
}

func NewGoalsController(db *gorm.DB) *GoalsController {
	return &GoalsController{db: db}
}

type goalResponse struct {
	ID       uint   `json:"id"`
	Category string `json:"category"`
	Text     string `json:"text"`
	Created  string `json:"created"`
}

func toGoalResponse(g *models.Goal) goalResponse {
	return goalResponse{
		ID:       g.ID,
		Category: g.Category,
		Text:     g.Text,
		Created:  g.CreatedAt.Format(time.RFC3339),
	}
}

// List returns the user's goals, newest first.
func (g *GoalsController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var goals []models.Goal
	if err := g.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&goals).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load goals")
		return
	}

	items := make([]goalResponse, 0, len(goals))
	for i := range goals {
		items = append(items, toGoalResponse(&goals[i]))
	}
	utils.Success(ctx, items)
}

type goalCreateRequest struct {
	Category string `json:"category" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

func (g *GoalsController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var req goalCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42220, "category and text are required")
		return
	}

	goal := models.Goal{
		UserID:   userID,
		Category: utils.Sanitize(req.Category),
		Text:     utils.Sanitize(req.Text),
	}
	if err := g.db.Create(&goal).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create goal")
		return
	}
	utils.Success(ctx, toGoalResponse(&goal))
}

// Delete removes a goal owned by the caller. A goal that does not exist
// or belongs to another user yields the same 404.
func (g *GoalsController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	goalID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "goal not found")
		return
	}

	res := g.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to delete goal")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "goal not found")
		return
	}
	utils.Success(ctx, gin.H{"ok": true})
}
