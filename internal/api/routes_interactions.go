package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

func registerInteractionRoutes(api *gin.RouterGroup, handler *handlers.InteractionHandler) {
	group := api.Group("/interactions")
	{
		group.GET("", handler.List)

		group.POST("", middleware.RequireMutator(), handler.Log)
		group.DELETE("/:id", middleware.RequireMutator(), handler.Delete)
	}
}
