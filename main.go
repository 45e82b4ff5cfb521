package main

import (
	"log"
	"os"

	controller "github.com/Saatvik07/legallens/controller"
	"github.com/Saatvik07/legallens/initializers"
	middleware "github.com/Saatvik07/legallens/middleware"
	"github.com/Saatvik07/legallens/pkg/logger"
	service "github.com/Saatvik07/legallens/service"
	"github.com/Saatvik07/legallens/store"
	"github.com/Saatvik07/legallens/transport"

	"github.com/gin-gonic/gin"
)

var cfg *initializers.Config

func init() {
	if err := initializers.LoadEnv(); err != nil {
		log.Fatalf("[CRITICAL] Failed to load env: %s", err)
	}

	var err error
	cfg, err = initializers.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("[CRITICAL] Failed to load config: %s", err)
	}
}

func main() {
	logOpts := []logger.Option{
		logger.WithLevel(cfg.Log.Level),
		logger.WithEncoding(cfg.Log.Encoding),
	}
	if cfg.Log.File != "" {
		logOpts = append(logOpts, logger.WithOutputPaths([]string{"stdout", cfg.Log.File}))
	}
	appLogger, err := logger.NewLogger(logOpts...)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %s", err)
	}
	defer appLogger.Sync()

	mode := service.Mode(cfg.Backend.Mode)
	var client *transport.Client
	if mode == service.ModeLive {
		client = transport.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil, appLogger)
	}
	analysisService := service.NewAnalysisService(mode, client, appLogger)

	appLogger.Info("starting console",
		logger.String("mode", string(mode)),
		logger.String("backend_url", cfg.Backend.BaseURL),
		logger.String("addr", cfg.Addr()),
	)

	documentStore := store.New()
	orchestrator := store.NewOrchestrator(documentStore, analysisService, appLogger,
		store.WithPollInterval(cfg.Poll.Interval),
		store.WithPollMaxAttempts(cfg.Poll.MaxAttempts),
	)

	docController := controller.NewDocumentController(orchestrator, appLogger)
	analysisController := controller.NewAnalysisController(orchestrator, appLogger)

	globalLimiter := middleware.NewRateLimiter(cfg.RateLimit.Global, cfg.RateLimit.Window)
	strictLimiter := middleware.NewRateLimiter(cfg.RateLimit.Strict, cfg.RateLimit.Window)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(globalLimiter.Limit())

	// Uploads hit the backend's document pipeline, keep them strict
	router.POST("/upload",
		strictLimiter.Limit(),
		docController.UploadDocuments)

	router.GET("/documents", docController.ListDocuments)
	router.GET("/documents/:id", docController.GetDocument)
	router.DELETE("/documents/:id", docController.DeleteDocument)
	router.GET("/documents/:id/status", docController.DocumentStatus)
	router.POST("/documents/:id/select", docController.SelectDocument)

	// Analysis endpoints fan out to the AI backend
	router.POST("/documents/:id/summarize",
		strictLimiter.Limit(),
		analysisController.Summarize)
	router.POST("/documents/:id/clauses",
		strictLimiter.Limit(),
		analysisController.ExtractClauses)
	router.POST("/documents/:id/ask",
		strictLimiter.Limit(),
		analysisController.AskQuestion)
	router.POST("/documents/:id/alerts",
		strictLimiter.Limit(),
		analysisController.GetAlerts)

	router.GET("/qa", analysisController.QAHistory)
	router.GET("/state", docController.State)
	router.GET("/health", analysisController.Health)

	if err := router.Run(cfg.Addr()); err != nil {
		appLogger.Fatal("server exited", logger.Error(err))
	}
}
