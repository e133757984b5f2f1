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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/rosterhq/workforce-api/api/swagger"
	"github.com/rosterhq/workforce-api/internal/handler"
	"github.com/rosterhq/workforce-api/internal/middleware"
	"github.com/rosterhq/workforce-api/internal/models"
	"github.com/rosterhq/workforce-api/internal/repository"
	"github.com/rosterhq/workforce-api/internal/service"
	"github.com/rosterhq/workforce-api/pkg/cache"
	"github.com/rosterhq/workforce-api/pkg/config"
	"github.com/rosterhq/workforce-api/pkg/database"
	"github.com/rosterhq/workforce-api/pkg/logger"
	corsmiddleware "github.com/rosterhq/workforce-api/pkg/middleware/cors"
	reqidmiddleware "github.com/rosterhq/workforce-api/pkg/middleware/requestid"
)

// @title Workforce Scheduling API
// @version 1.0.0
// @description Shift scheduling, auto-assignment and attendance tracking
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	clockEventRepo := repository.NewClockEventRepository(db)

	var cacheSvc *service.CacheService
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
			cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Reports.CacheTTL, logr, false)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, true)
		}
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Reports.CacheTTL, logr, false)
	}

	exportSvc, err := service.NewExportService(cfg.Exports, logr)
	if err != nil {
		logr.Fatal("failed to init export service", zap.Error(err))
	}
	rootCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	exportSvc.Start(rootCtx)
	defer exportSvc.Stop()

	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT)
	assignmentSvc := service.NewAssignmentService(scheduleRepo, shiftRepo, userRepo, nil, validate, logr, metricsSvc, cacheSvc)
	attendanceSvc := service.NewAttendanceService(shiftRepo, clockEventRepo, userRepo, logr, metricsSvc)
	reportSvc := service.NewReportService(scheduleRepo, shiftRepo, userRepo, cacheSvc, logr)

	scheduleHandler := handler.NewScheduleHandler(assignmentSvc, reportSvc, exportSvc)
	staffHandler := handler.NewStaffHandler(reportSvc, attendanceSvc)
	authHandler := handler.NewAuthHandler(authSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/login", authHandler.Login)
	// Signed token in the URL is the access control here.
	r.GET("/exports/download", scheduleHandler.DownloadExport)

	admin := r.Group("/")
	staff := r.Group("/")
	if cfg.Auth.Enabled {
		admin.Use(middleware.JWT(authSvc), middleware.RequireRole(models.RoleAdmin))
		staff.Use(middleware.JWT(authSvc), middleware.RequireRole(models.RoleStaff))
	}

	admin.POST("/createSchedule", scheduleHandler.CreateSchedule)
	admin.POST("/addShift", scheduleHandler.AddShift)
	admin.POST("/autoPopulateSchedule", scheduleHandler.AutoPopulate)
	admin.GET("/scheduleReport", scheduleHandler.ScheduleReport)
	admin.POST("/scheduleReport/export", scheduleHandler.ExportReport)

	staff.GET("/allshifts", staffHandler.AllShifts)
	staff.GET("/staffshift", staffHandler.StaffShift)
	staff.POST("/staff/clockIn", staffHandler.ClockIn)
	staff.POST("/staff/clockOut", staffHandler.ClockOut)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}
