package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/horario-api/api/swagger"
	"github.com/campushq/horario-api/internal/handler"
	"github.com/campushq/horario-api/internal/middleware"
	"github.com/campushq/horario-api/internal/repository"
	"github.com/campushq/horario-api/internal/service"
	"github.com/campushq/horario-api/pkg/cache"
	"github.com/campushq/horario-api/pkg/config"
	"github.com/campushq/horario-api/pkg/database"
	"github.com/campushq/horario-api/pkg/export"
	"github.com/campushq/horario-api/pkg/logger"
	corsmiddleware "github.com/campushq/horario-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/horario-api/pkg/middleware/requestid"
)

// @title Horario API
// @version 1.0.0
// @description Academic scheduling and registration backend
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Search.CacheTTL, logr, cfg.Search.CacheEnabled)
	} else {
		cacheService = service.NewCacheService(nil, metricsService, cfg.Search.CacheTTL, logr, false)
	}

	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "horario-api",
	})
	userService := service.NewUserService(userRepo, nil, logr)
	programService := service.NewProgramService(programRepo, userRepo, nil, logr)
	courseService := service.NewCourseService(courseRepo, userRepo, programRepo, cacheService, cfg.Search.CacheTTL, nil, logr)
	roomService := service.NewRoomService(roomRepo, nil, logr)
	scheduleService := service.NewScheduleService(scheduleRepo, courseRepo, roomRepo, userRepo, nil, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, nil, logr)
	notificationService := service.NewNotificationService(notificationRepo, enrollmentRepo, courseRepo, nil, logr)
	preferenceService := service.NewPreferenceService(preferenceRepo, logr)
	studentScheduleService := service.NewStudentScheduleService(scheduleRepo, logr)
	exportService := service.NewExportService(scheduleRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	handlers := handler.Handlers{
		Auth:            handler.NewAuthHandler(authService),
		User:            handler.NewUserHandler(userService),
		Program:         handler.NewProgramHandler(programService),
		Course:          handler.NewCourseHandler(courseService),
		Room:            handler.NewRoomHandler(roomService),
		Schedule:        handler.NewScheduleHandler(scheduleService),
		Enrollment:      handler.NewEnrollmentHandler(enrollmentService),
		Notification:    handler.NewNotificationHandler(notificationService),
		Preference:      handler.NewPreferenceHandler(preferenceService),
		StudentSchedule: handler.NewStudentScheduleHandler(studentScheduleService, exportService),
		Metrics:         handler.NewMetricsHandler(metricsService),
		Discovery:       handler.NewDiscoveryHandler(cfg.APIPrefix),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, authService, handlers)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
