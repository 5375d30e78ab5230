package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

func registerSchoolRoutes(api *gin.RouterGroup, handler *handlers.SchoolHandler) {
	group := api.Group("/schools")
	{
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)

		group.POST("", middleware.RequireMutator(), handler.Create)
		group.PATCH("/:id", middleware.RequireMutator(), handler.Update)
		group.DELETE("/:id", middleware.RequireMutator(), handler.Delete)
		group.POST("/:id/coaches", middleware.RequireMutator(), handler.AddCoach)
	}

	api.DELETE("/coaches/:coachId", middleware.RequireMutator(), handler.RemoveCoach)
}
