package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/opencampus/timetable-api/api/swagger"
	"github.com/opencampus/timetable-api/internal/handler"
	appMiddleware "github.com/opencampus/timetable-api/internal/middleware"
	"github.com/opencampus/timetable-api/internal/repository"
	"github.com/opencampus/timetable-api/internal/service"
	"github.com/opencampus/timetable-api/pkg/cache"
	"github.com/opencampus/timetable-api/pkg/config"
	"github.com/opencampus/timetable-api/pkg/database"
	"github.com/opencampus/timetable-api/pkg/logger"
	corsmiddleware "github.com/opencampus/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/opencampus/timetable-api/pkg/middleware/requestid"
)

// @title OpenCampus Timetable API
// @version 1.0.0
// @description Constraint-based timetable construction, conflict repair, and disruption analysis
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, timetable reads stay uncached", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	facultyRepo := repository.NewFacultyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	timeslotRepo := repository.NewTimeSlotRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	conflictRepo := repository.NewConflictRepository(db)

	metricsSvc := service.NewMetricsService()
	scopeLock := service.NewScopeLock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	timetableSvc := service.NewTimetableService(
		timetableRepo,
		facultyRepo, courseRepo, roomRepo, sectionRepo, timeslotRepo, availabilityRepo,
		cacheRepo, metricsSvc, scopeLock,
		cfg.Scheduler, cfg.Timetable.CacheTTL, rng, logr,
	)
	conflictSvc := service.NewConflictService(timetableRepo, conflictRepo, courseRepo, metricsSvc, logr)
	resolverSvc := service.NewResolverService(
		timetableRepo, conflictSvc,
		facultyRepo, courseRepo, roomRepo, sectionRepo, timeslotRepo, availabilityRepo,
		cacheRepo, metricsSvc, scopeLock, logr,
	)
	disruptionSvc := service.NewDisruptionService(
		timetableRepo,
		facultyRepo, courseRepo, roomRepo, sectionRepo, timeslotRepo, availabilityRepo,
		cfg.Scheduler, logr,
	)
	simulationSvc := service.NewSimulationService(
		timetableRepo,
		facultyRepo, courseRepo, roomRepo, sectionRepo, timeslotRepo, availabilityRepo,
		cfg.Simulation.HistorySize, logr,
	)

	facultySvc := service.NewFacultyService(facultyRepo, logr)
	courseSvc := service.NewCourseService(courseRepo, logr)
	roomSvc := service.NewRoomService(roomRepo, logr)
	sectionSvc := service.NewSectionService(sectionRepo, logr)
	timeslotSvc := service.NewTimeSlotService(timeslotRepo, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, logr)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc, resolverSvc)
	reschedulingHandler := handler.NewReschedulingHandler(disruptionSvc)
	simulationHandler := handler.NewSimulationHandler(simulationSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	timeslotHandler := handler.NewTimeSlotHandler(timeslotSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appMiddleware.Metrics(metricsSvc))

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
	{
		api.POST("/timetable/generate", timetableHandler.Generate)
		api.GET("/timetable", timetableHandler.Get)
		api.DELETE("/timetable", timetableHandler.DeleteAll)
		api.GET("/timetable/proposals", timetableHandler.ListProposals)
		api.POST("/timetable/apply-changes", timetableHandler.ApplyChanges)
		api.GET("/timetable/export", timetableHandler.Export)

		api.GET("/conflicts", conflictHandler.List)
		api.POST("/conflicts/detect", conflictHandler.Detect)
		api.POST("/conflicts/resolve", conflictHandler.Resolve)

		api.GET("/rescheduling/faculty-leave/:id", reschedulingHandler.FacultyLeave)
		api.GET("/rescheduling/room-outage/:id", reschedulingHandler.RoomOutage)
		api.GET("/rescheduling/holiday", reschedulingHandler.Holiday)

		api.POST("/simulation/faculty-unavailable/:id", simulationHandler.FacultyUnavailable)
		api.POST("/simulation/room-shortage/:id", simulationHandler.RoomShortage)
		api.GET("/simulation/history", simulationHandler.History)
		api.DELETE("/simulation/history", simulationHandler.ClearHistory)
		api.GET("/simulation/compare", simulationHandler.Compare)

		api.GET("/faculty", facultyHandler.List)
		api.POST("/faculty", facultyHandler.Create)
		api.GET("/faculty/:id", facultyHandler.Get)
		api.PUT("/faculty/:id", facultyHandler.Update)
		api.DELETE("/faculty/:id", facultyHandler.Delete)
		api.GET("/faculty/:id/availability", availabilityHandler.ListByFaculty)

		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:id", courseHandler.Get)
		api.PUT("/courses/:id", courseHandler.Update)
		api.DELETE("/courses/:id", courseHandler.Delete)

		api.GET("/rooms", roomHandler.List)
		api.POST("/rooms", roomHandler.Create)
		api.GET("/rooms/:id", roomHandler.Get)
		api.PUT("/rooms/:id", roomHandler.Update)
		api.DELETE("/rooms/:id", roomHandler.Delete)

		api.GET("/sections", sectionHandler.List)
		api.POST("/sections", sectionHandler.Create)
		api.GET("/sections/:id", sectionHandler.Get)
		api.PUT("/sections/:id", sectionHandler.Update)
		api.DELETE("/sections/:id", sectionHandler.Delete)

		api.GET("/timeslots", timeslotHandler.List)
		api.POST("/timeslots", timeslotHandler.Create)
		api.GET("/timeslots/:id", timeslotHandler.Get)
		api.PUT("/timeslots/:id", timeslotHandler.Update)
		api.DELETE("/timeslots/:id", timeslotHandler.Delete)

		api.GET("/availability", availabilityHandler.List)
		api.POST("/availability", availabilityHandler.Set)
		api.DELETE("/availability/:id", availabilityHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
