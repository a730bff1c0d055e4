package routes

import (
	"cybersentinel/internal/handlers"
	"cybersentinel/internal/services"

	"github.com/gin-gonic/gin"
)

func InitAnalysisRoutes(router *gin.RouterGroup, analysisService services.AnalysisServiceMethods, limiter gin.HandlerFunc) {
	handlers := handlers.NewAnalysisHandler(analysisService)

	router.POST("/analyze", limiter, handlers.Analyze)

	historyRoutes := router.Group("/history")
	{
		historyRoutes.GET("", handlers.ListHistory)
		historyRoutes.GET("/:id", handlers.GetHistory)
	}
}
