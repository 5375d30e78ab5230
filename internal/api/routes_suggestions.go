package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

func registerSuggestionRoutes(api *gin.RouterGroup, handler *handlers.SuggestionHandler) {
	group := api.Group("/suggestions")
	{
		group.GET("", handler.List)

		group.PATCH("/:id/dismiss", middleware.RequireMutator(), handler.Dismiss)
		group.PATCH("/:id/complete", middleware.RequireMutator(), handler.Complete)
		group.POST("/trigger-update", middleware.RequireMutator(), handler.TriggerUpdate)
		group.POST("/surface", middleware.RequireMutator(), handler.Surface)
	}
}
