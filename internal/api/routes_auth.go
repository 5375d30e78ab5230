package api

import (
	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/handlers"
	"github.com/tylerquinn/scoutline/internal/middleware"
)

func registerAuthRoutes(engine *gin.Engine, api *gin.RouterGroup, handler *handlers.AuthHandler) {
	auth := engine.Group("/api/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
	}

	api.GET("/auth/me", handler.Me)
	api.PATCH("/auth/profile", middleware.RequireMutator(), handler.UpdateProfile)
}
