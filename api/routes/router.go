package routes

import (
	"time"

	"cybersentinel/internal/dashboard"
	"cybersentinel/internal/handlers"
	"cybersentinel/internal/handlers/web"
	"cybersentinel/internal/metrics"
	"cybersentinel/internal/middleware"
	"cybersentinel/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	AnalysisService services.AnalysisServiceMethods
	ConfigService   services.ConfigServiceMethods
	Metrics         *metrics.Metrics
	SessionTTL      time.Duration
	MaxSessions     int
	SubmitRate      float64
	SubmitBurst     int
}

func InitRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	submitBudget := middleware.NewPerClient(deps.SubmitRate, deps.SubmitBurst)
	limiter := middleware.RateLimit(submitBudget)
	configHandlers := handlers.NewConfigHandler(deps.ConfigService)

	// REST APIs
	api := router.Group("/api")
	{
		InitAnalysisRoutes(api, deps.AnalysisService, limiter)
		InitConfigRoutes(api, configHandlers)
	}

	sessions := dashboard.NewSessions(deps.AnalysisService, deps.MaxSessions, deps.SessionTTL)
	dashboardWebHandlers := web.NewDashboardWebHandler(sessions, deps.SessionTTL, deps.AnalysisService.HistoryEnabled())
	historyWebHandlers := web.NewHistoryWebHandler(deps.AnalysisService)

	// web pages
	pages := router.Group("/")
	{
		pages.GET("/", dashboardWebHandlers.HomePage)
		pages.POST("/analyze", middleware.RateLimitWith(submitBudget, dashboardWebHandlers.Throttled), dashboardWebHandlers.Analyze)
		pages.GET("/tab/:name", dashboardWebHandlers.SelectTab)
		pages.GET("/raw", dashboardWebHandlers.Raw)
		pages.GET("/history", historyWebHandlers.HistoryPage)
	}

	router.GET("/healthz", configHandlers.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return router
}
