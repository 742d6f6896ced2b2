package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/app/echo-server/router"
	"fitcoach/business/coaching"
	profileService "fitcoach/business/profile"
	"fitcoach/internal/middleware"
	"fitcoach/internal/repository/llm"
	psqlRepo "fitcoach/internal/repository/postgres"
	redisRepo "fitcoach/internal/repository/redis"
	"fitcoach/internal/rest"
	"fitcoach/pkg/config"
	"fitcoach/pkg/database"
	redisdb "fitcoach/pkg/database/redis"
	"fitcoach/pkg/logger"
	"fitcoach/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting FitCoach", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	metrics.Init()

	// Summary cache is optional; the engine rebuilds from postgres when
	// redis is down.
	var summaryCache coaching.SummaryCache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without summary cache", "error", err)
	} else {
		summaryCache = redisRepo.NewSummaryCache(redisClient)
	}

	// LLM proxy is optional; insights stay rule-based without it.
	var completionClient coaching.CompletionClient
	if cfg.LLM.BaseURL != "" {
		completionClient = llm.NewCompletionRepository(llm.CompletionConfig{
			BaseURL:           cfg.LLM.BaseURL,
			APIKey:            cfg.LLM.APIKey,
			Model:             cfg.LLM.Model,
			BasicAuthUsername: cfg.LLM.BasicAuthUsername,
			BasicAuthPassword: cfg.LLM.BasicAuthPassword,
			Timeout:           time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		})
	}

	// Init repo
	eventRepo := psqlRepo.NewBehaviorEventRepository(db)
	tendencyRepo := psqlRepo.NewTendencyRepository(db)
	historyRepo := psqlRepo.NewInsightHistoryRepository(db)
	factsRepo := psqlRepo.NewWorkoutFactsRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	policyRepo := psqlRepo.NewCoachingPolicyRepository(db)

	// Init service
	coachingService := coaching.NewCoachingService(
		eventRepo,
		tendencyRepo,
		historyRepo,
		factsRepo,
		profileRepo,
		policyRepo,
		summaryCache,
		completionClient,
		coaching.DefaultPersonalityConfig(),
		coaching.DefaultPolicy(),
	)
	profileSvc := profileService.NewService(profileRepo)

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	go coachingService.StartJanitor(janitorCtx)

	// Init handler
	coachingHandler := rest.NewCoachingHandler(coachingService)
	profileHandler := rest.NewProfileHandler(profileSvc)
	adminHandler := rest.NewCoachingAdminHandler(policyRepo)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetCoachingRoutes(api, coachingHandler)
	router.SetProfileRoutes(api, profileHandler)
	router.SetCoachingAdminRoutes(api, adminHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis close error", "error", err)
		}
	}

	logger.Info("Server stopped")
}
