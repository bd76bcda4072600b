package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/stride-backend/internal/db"
	"github.com/yungbote/stride-backend/internal/handlers"
	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/middleware"
	"github.com/yungbote/stride-backend/internal/observability"
	"github.com/yungbote/stride-backend/internal/repos"
	"github.com/yungbote/stride-backend/internal/server"
	"github.com/yungbote/stride-backend/internal/services"
	"github.com/yungbote/stride-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	schedulerToken := utils.GetEnv("SCHEDULER_TOKEN", "", log)
	port := utils.GetEnv("PORT", "8080", log)
	metricsAddr := utils.GetEnv("METRICS_ADDR", "", log)

	// Observability
	ctx := context.Background()
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "stride-backend",
		Environment: logMode,
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}
	metrics := observability.Init(log)
	metrics.StartServer(ctx, log, metricsAddr)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	athleteRepo := repos.NewAthleteRepo(thePG, log)
	dailyMetricRepo := repos.NewDailyMetricRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)
	assessmentRepo := repos.NewReadinessAssessmentRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	weatherService := services.NewWeatherService(log)
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		// Scoring degrades to the fixed fallback assessment without a client.
		log.Warn("Could not init OpenAIClient, readiness scoring will use fallback", "error", err)
	}
	speechService, err := services.NewSpeechProviderService(log)
	if err != nil {
		log.Warn("Could not init SpeechProviderService, audio briefings disabled", "error", err)
		speechService = nil
	}
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, audio briefings disabled", "error", err)
		bucketService = nil
	}

	readinessService := services.NewReadinessService(
		log,
		athleteRepo,
		dailyMetricRepo,
		activityRepo,
		assessmentRepo,
		weatherService,
		openaiClient,
	)
	briefingService := services.NewBriefingService(
		log,
		readinessService,
		assessmentRepo,
		openaiClient,
		speechService,
		bucketService,
	)

	// Handlers
	readinessHandler := handlers.NewReadinessHandler(readinessService)
	briefingHandler := handlers.NewBriefingHandler(briefingService)
	schedulerAuth := middleware.NewSchedulerAuth(log, schedulerToken)

	// Router
	router := server.NewRouter(server.RouterConfig{
		SchedulerAuth:    schedulerAuth,
		ReadinessHandler: readinessHandler,
		BriefingHandler:  briefingHandler,
		Metrics:          metrics,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
