package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/stride-backend/internal/handlers"
	"github.com/yungbote/stride-backend/internal/middleware"
	"github.com/yungbote/stride-backend/internal/observability"
)

type RouterConfig struct {
	SchedulerAuth    *middleware.SchedulerAuth
	ReadinessHandler *handlers.ReadinessHandler
	BriefingHandler  *handlers.BriefingHandler
	Metrics          *observability.Metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("stride-backend"))
	router.Use(middleware.Metrics(cfg.Metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	protected := router.Group("/")
	protected.Use(cfg.SchedulerAuth.RequireAuth())
	protected.POST("/checkin/:athleteID", cfg.ReadinessHandler.DailyCheckIn)
	protected.POST("/briefing/:athleteID", cfg.BriefingHandler.GenerateAudioBriefing)

	return router
}
