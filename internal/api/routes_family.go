package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

func registerFamilyRoutes(api *gin.RouterGroup, handler *handlers.FamilyHandler) {
	group := api.Group("/family")
	{
		// Only athletes mint codes; parents redeem them.
		group.POST("/code", middleware.RequireMutator(), handler.GenerateCode)
		group.POST("/redeem", handler.Redeem)
	}
}
