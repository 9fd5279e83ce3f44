package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachfit/coachfit/utils"
)

// AgentAuthRequired gates the tool endpoints on the shared static agent
// token. There is no expiry and no per-user scoping; the caller either holds
// the exact secret or the request fails. An empty configured secret fails
// closed.
func AgentAuthRequired(agentToken string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40120, "agent token required")
			ctx.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40121, "invalid authorization header format")
			ctx.Abort()
			return
		}

		if agentToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(agentToken)) != 1 {
			utils.Error(ctx, http.StatusUnauthorized, 40122, "invalid agent token")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
