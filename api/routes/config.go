package routes

import (
	"cybersentinel/internal/handlers"

	"github.com/gin-gonic/gin"
)

func InitConfigRoutes(router *gin.RouterGroup, handlers *handlers.ConfigHandler) {
	configRoutes := router.Group("/config")
	{
		configRoutes.GET("", handlers.GetSettings)
	}
}
