package main

import (
	"time"

	"github.com/ikitchen/ikitchen-backend/config"
	"github.com/ikitchen/ikitchen-backend/internal/app/controller"
	"github.com/ikitchen/ikitchen-backend/internal/app/repository"
	"github.com/ikitchen/ikitchen-backend/internal/app/service"
	"github.com/ikitchen/ikitchen-backend/internal/db"
	"github.com/ikitchen/ikitchen-backend/internal/middleware"
	"github.com/ikitchen/ikitchen-backend/internal/router"
	"github.com/ikitchen/ikitchen-backend/internal/scheduler"
	"github.com/ikitchen/ikitchen-backend/internal/spreadsheet"
	"github.com/ikitchen/ikitchen-backend/internal/storage"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"github.com/ikitchen/ikitchen-backend/pkg/mailer"
	"github.com/ikitchen/ikitchen-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting IKitchen Sales Backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	gormDB, err := db.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Report cache is optional
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, report caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Spreadsheet column validation config
	columns, err := spreadsheet.LoadColumnsConfig(cfg.Ingest.ColumnsConfig)
	if err != nil {
		logger.Fatal("Failed to load spreadsheet column config", err)
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Initialize services
	ingestService := service.NewIngestService(
		customerRepo,
		orderRepo,
		columns,
		cfg.Ingest.InsertBatchSize,
		cfg.Ingest.LookupBatchSize,
	)
	reportService := service.NewReportService()

	// Export archiving is optional
	var exportStorage *storage.S3Storage
	if cfg.S3.Bucket != "" {
		exportStorage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	reportMailer := mailer.New(cfg.SMTP)
	if !reportMailer.Configured() {
		logger.Warn("SMTP not configured, report emails disabled")
	}

	// Initialize controllers
	ingestController := controller.NewIngestController(ingestService, exportStorage)
	reportController := controller.NewReportController(
		reportService,
		reportMailer,
		exportStorage,
		time.Duration(cfg.Report.CacheTTLHours)*time.Hour,
	)

	// Initialize middleware and router
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	appRouter := router.NewRouter(ingestController, reportController, authMiddleware, cfg)

	// Daily analytics-view refresh
	analyticsScheduler := scheduler.NewAnalyticsScheduler(orderRepo, cfg.Scheduler.AnalyticsRefreshCron)
	if err := analyticsScheduler.Start(); err != nil {
		logger.Warn("Failed to start analytics scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer analyticsScheduler.Stop()

	engine := appRouter.Setup()
	logger.Info("Server listening", map[string]interface{}{
		"port": cfg.Server.Port,
	})
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server stopped", err)
	}
}
