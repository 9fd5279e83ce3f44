package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachfit/coachfit/models"
	"github.com/coachfit/coachfit/utils"
)

const (
	// ContextUserIDKey stores the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextTokenKey stores the raw bearer token for logout revocation.
	ContextTokenKey = "session_token"
	// ContextTokenExpKey stores the token expiry for logout revocation.
	ContextTokenExpKey = "session_token_exp"
)

// AuthRequired gates a route on a valid session token. The subject must
// resolve to an existing user. In demo mode a request without any
// Authorization header resolves to the demo user instead of failing.
func AuthRequired(tm *utils.TokenManager, db *gorm.DB, demoMode bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			if demoMode {
				user, err := ResolveDemoUser(db)
				if err != nil {
					utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to resolve demo user")
					ctx.Abort()
					return
				}
				ctx.Set(ContextUserIDKey, user.ID)
				ctx.Next()
				return
			}
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := tm.Parse(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40106, "unknown token subject")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Set(ContextTokenKey, token)
		if claims.ExpiresAt != nil {
			ctx.Set(ContextTokenExpKey, claims.ExpiresAt.Time)
		}
		ctx.Next()
	}
}

// ResolveDemoUser returns the first-created user, provisioning the demo
// identity when the system is empty. The unique email index plus a
// conflict-tolerant insert make concurrent first use converge on one row.
func ResolveDemoUser(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Order("id ASC").First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	height := models.DemoHeightCM
	weight := models.DemoWeightKG
	demo := models.User{
		Email:    models.DemoEmail,
		Name:     models.DemoName,
		HeightCM: &height,
		WeightKG: &weight,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&demo).Error; err != nil {
		return nil, err
	}

	// Re-read instead of trusting the insert: a concurrent request may have
	// won the race.
	if err := db.Order("id ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
