package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/coachfit/coachfit/middleware"
)

// getUserID extracts the authenticated user id stored by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
