package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-event-reservation/config"
	"go-event-reservation/internal/cache"
	"go-event-reservation/internal/calendar"
	"go-event-reservation/internal/database"
	"go-event-reservation/internal/handler"
	"go-event-reservation/internal/middleware"
	"go-event-reservation/internal/queue"
	"go-event-reservation/internal/repository"
	"go-event-reservation/internal/service"
	"go-event-reservation/internal/worker"
	"go-event-reservation/pkg/logger"
	"go-event-reservation/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	log := logger.WithComponent("main")

	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, cfg.Server.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	eventRepo := repository.NewEventRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Infrastructure
	availability := cache.NewRedisAvailabilityCache(rdb)
	calendarQueue, err := queue.NewRedisStreamCalendarQueue(rdb, "", nil)
	if err != nil {
		log.Fatal("Failed to initialize calendar queue", zap.Error(err))
	}

	m := metrics.New()

	// Services
	eventService := service.NewEventService(eventRepo, availability)
	reservationService := service.NewReservationService(pool, reservationRepo, eventRepo, availability, calendarQueue, m)
	userService := service.NewUserService(userRepo)

	// Worker：消化行事曆同步訊息，與請求生命週期脫鉤
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	calendarClient := calendar.NewClient(cfg.Calendar.BaseURL)
	calendarWorker := worker.NewCalendarWorker(calendarClient, calendarQueue)
	if err := calendarWorker.Start(workerCtx); err != nil {
		log.Fatal("Failed to start calendar worker", zap.Error(err))
	}

	// HTTP
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(m))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.Auth(cfg.Auth.JWTSecret)
	handler.NewEventHandler(eventService).RegisterRoutes(router, auth)
	handler.NewReservationHandler(reservationService).RegisterRoutes(router, auth)
	handler.NewUserHandler(userService).RegisterRoutes(router, auth)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("port", cfg.Server.Port))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	stopWorker()
	log.Info("Server exited")
}
