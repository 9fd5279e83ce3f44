package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachfit/coachfit/middleware"
	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/utils"
)

// AuthController handles registration, login and profile endpoints.
type AuthController struct {
	db       *gorm.DB
	tokens   *utils.TokenManager
	demoMode bool
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenManager, demoMode bool) *AuthController {
	return &AuthController{db: db, tokens: tokens, demoMode: demoMode}
}

type registerRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"name" binding:"required"`
	Password string   `json:"password" binding:"required,min=8"`
	HeightCM *float64 `json:"height_cm"`
	WeightKG *float64 `json:"weight_kg"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user with a bcrypt-hashed password and issues a session
// token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42201, "invalid registration payload")
		return
	}

	var count int64
	if err := a.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check email")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42202, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		HeightCM:     req.HeightCM,
		WeightKG:     req.WeightKG,
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	a.respondWithToken(ctx, &user)
}

// Login verifies credentials and issues a session token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42203, "invalid login payload")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}
	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}

	a.respondWithToken(ctx, &user)
}

// DevLogin issues a session token for the demo user. Only wired when demo
// mode is enabled.
func (a *AuthController) DevLogin(ctx *gin.Context) {
	user, err := middleware.ResolveDemoUser(a.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to resolve demo user")
		return
	}
	a.respondWithToken(ctx, user)
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, _ := ctx.Get(middleware.ContextTokenKey)
	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		// Demo-mode requests carry no token; logout is a no-op.
		utils.Success(ctx, gin.H{"message": "logged out"})
		return
	}
	expires := time.Now().Add(time.Hour)
	if v, exists := ctx.Get(middleware.ContextTokenExpKey); exists {
		if t, ok := v.(time.Time); ok {
			expires = t
		}
	}
	utils.BlacklistToken(tokenStr, expires)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the profile plus a "category: text" goal summary.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to load user")
		return
	}

	var goals []models.Goal
	if err := a.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to load goals")
		return
	}
	summary := make([]string, 0, len(goals))
	for _, g := range goals {
		summary = append(summary, g.Category+": "+g.Text)
	}

	utils.Success(ctx, gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"height_cm":     user.HeightCM,
		"weight_kg":     user.WeightKG,
		"goals_summary": summary,
	})
}

func (a *AuthController) respondWithToken(ctx *gin.Context, user *models.User) {
	token, expires, err := a.tokens.Generate(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_at":   expires.Unix(),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}
