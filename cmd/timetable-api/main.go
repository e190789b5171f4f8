package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/raqeeb-edu/timetable-api/internal/handler"
	"github.com/raqeeb-edu/timetable-api/internal/middleware"
	"github.com/raqeeb-edu/timetable-api/internal/repository"
	"github.com/raqeeb-edu/timetable-api/internal/service"
	"github.com/raqeeb-edu/timetable-api/internal/timetable"
	"github.com/raqeeb-edu/timetable-api/migrations"
	"github.com/raqeeb-edu/timetable-api/pkg/cache"
	"github.com/raqeeb-edu/timetable-api/pkg/config"
	"github.com/raqeeb-edu/timetable-api/pkg/database"
	"github.com/raqeeb-edu/timetable-api/pkg/logger"
	corsmiddleware "github.com/raqeeb-edu/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/raqeeb-edu/timetable-api/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if err := migrations.Up(db.DB); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, view caching disabled", "error", err)
		redisClient = nil
	}

	directory := service.NewDirectory()
	engine := timetable.NewEngine(directory, directory, timetable.DutyConfig{
		MinGrade:        cfg.Duty.MinGrade,
		MaxGrade:        cfg.Duty.MaxGrade,
		FallbackSubject: cfg.Duty.FallbackSubject,
		LoadRule:        cfg.Duty.LoadRule,
	})

	entryRepo := repository.NewEntryRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	subRepo := repository.NewSubstitutionRepository(db)
	dirRepo := repository.NewDirectoryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	boot := service.NewBootstrap(engine, directory, entryRepo, blockRepo, subRepo, dirRepo, logr)
	if err := boot.Load(bootCtx); err != nil {
		logr.Sugar().Fatalw("failed to load schedule state", "error", err)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	notifier := service.NewLogNotifier(logr)

	scheduleSvc := service.NewScheduleService(engine, entryRepo, cacheRepo, validate, logr)
	blockSvc := service.NewBlockService(engine, blockRepo, cacheRepo, validate, logr)
	subSvc := service.NewSubstitutionService(engine, subRepo, entryRepo, notifier, cacheRepo, validate, logr)
	viewSvc := service.NewTimetableService(engine, directory, cacheRepo, metricsSvc, cfg.Views.SlotsPerDay, cfg.Views.CacheTTL, logr)
	exportSvc := service.NewExportService(viewSvc, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	blockHandler := handler.NewBlockHandler(blockSvc)
	subHandler := handler.NewSubstitutionHandler(subSvc)
	viewHandler := handler.NewTimetableHandler(viewSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	directoryHandler := handler.NewDirectoryHandler(directory)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)

	api.GET("/timetable/resolve", viewHandler.Resolve)
	api.GET("/timetable/class/:id/week", viewHandler.ClassWeek)
	api.GET("/timetable/teacher/:id/week", viewHandler.TeacherWeek)
	api.GET("/timetable/room/:id/week", viewHandler.RoomWeek)
	api.GET("/timetable/master", viewHandler.Master)

	api.GET("/entries", scheduleHandler.List)
	api.GET("/entries/:id", scheduleHandler.Get)
	api.POST("/entries/check", scheduleHandler.Check)

	api.GET("/blocks", blockHandler.List)
	api.GET("/blocks/:id", blockHandler.Get)

	api.GET("/substitutions", subHandler.List)

	api.GET("/directory/wings", directoryHandler.Wings)
	api.GET("/directory/sections", directoryHandler.Sections)
	api.GET("/directory/teachers", directoryHandler.Teachers)

	guarded := api.Group("", middleware.AuthGuard(cfg.Auth))
	guarded.PUT("/entries", scheduleHandler.Upsert)
	guarded.DELETE("/entries/:id", scheduleHandler.Remove)
	guarded.POST("/blocks", blockHandler.Define)
	guarded.DELETE("/blocks/:id", blockHandler.Remove)
	guarded.POST("/substitutions", subHandler.Assign)
	guarded.POST("/substitutions/:id/archive", subHandler.Archive)

	if cfg.Exports.Enabled {
		api.GET("/exports/class/:id/week", exportHandler.ClassWeek)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
