package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

// Cron routes sit outside the user-auth surface; the shared secret is the
// only credential the external scheduler carries.
func registerCronRoutes(engine *gin.Engine, handler *handlers.CronHandler, secret string) {
	group := engine.Group("/api/cron")
	group.Use(middleware.CronAuth(secret))
	{
		group.POST("/daily-suggestions", handler.DailySuggestions)
	}
}
