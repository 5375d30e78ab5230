package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUserID returns the authenticated account's ID.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// athleteScope returns the athlete whose data this request reads: the athlete
// themself, or the linked athlete for a parent. Empty for an unlinked parent.
func athleteScope(c *gin.Context) string {
	return c.GetString(middleware.CtxAthleteIDKey)
}
