package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikitchen/ikitchen-backend/config"
	"github.com/ikitchen/ikitchen-backend/internal/app/controller"
	"github.com/ikitchen/ikitchen-backend/internal/middleware"
	"github.com/ikitchen/ikitchen-backend/pkg/redis"
)

type Router struct {
	ingestController *controller.IngestController
	reportController *controller.ReportController
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

func NewRouter(
	ingestController *controller.IngestController,
	reportController *controller.ReportController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		ingestController: ingestController,
		reportController: reportController,
		authMiddleware:   authMiddleware,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"cache":  redis.Available(),
		})
	})

	api := router.Group("/api/v1")
	api.Use(r.authMiddleware.RequireToken())
	{
		api.POST("/ingest", r.ingestController.IngestPOSExport)
		api.POST("/reports/daily", r.reportController.GenerateDailyReport)
		api.GET("/reports/daily/:date", r.reportController.DownloadDailyReport)
	}

	return router
}
