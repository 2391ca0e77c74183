package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/complianceops/case-management-api/api/swagger"
	"github.com/complianceops/case-management-api/internal/handler"
	"github.com/complianceops/case-management-api/internal/middleware"
	"github.com/complianceops/case-management-api/internal/repository"
	"github.com/complianceops/case-management-api/internal/service"
	"github.com/complianceops/case-management-api/pkg/cache"
	"github.com/complianceops/case-management-api/pkg/config"
	"github.com/complianceops/case-management-api/pkg/database"
	"github.com/complianceops/case-management-api/pkg/logger"
	corsmiddleware "github.com/complianceops/case-management-api/pkg/middleware/cors"
	reqidmiddleware "github.com/complianceops/case-management-api/pkg/middleware/requestid"
	"github.com/complianceops/case-management-api/pkg/storage"
)

// @title Case Management API
// @version 1.0.0
// @description Compliance case-management REST backend
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, case list cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	evidenceStore, err := storage.NewLocalStorage(cfg.Uploads.EvidenceDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init evidence storage", "error", err)
	}

	caseRepo := repository.NewCaseRepository(db)
	caseSvc := service.NewCaseService(caseRepo, evidenceStore, cacheSvc, nil, logr, service.CaseServiceConfig{
		EmailDelay:        cfg.Email.SimulatedDelay,
		AlertAllowedMIMEs: cfg.Uploads.AlertAllowedMIMEs,
	})

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		exportSvc = service.NewExportService(caseRepo, exportStore, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	var caseHandler *handler.CaseHandler
	if exportSvc != nil {
		caseHandler = handler.NewCaseHandler(caseSvc, exportSvc)
	} else {
		caseHandler = handler.NewCaseHandler(caseSvc, nil)
	}
	caseHandler.Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
