package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

func registerOfferRoutes(api *gin.RouterGroup, handler *handlers.OfferHandler) {
	group := api.Group("/offers")
	{
		group.GET("", handler.List)

		group.POST("", middleware.RequireMutator(), handler.Create)
		group.PATCH("/:id/status", middleware.RequireMutator(), handler.UpdateStatus)
	}
}
