package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickpoll/core/cache"
	"quickpoll/core/config"
	"quickpoll/core/constants"
	"quickpoll/core/database"
	"quickpoll/core/logger"
	"quickpoll/core/middleware"
	"quickpoll/modules/availability"
	"quickpoll/modules/booking"
	"quickpoll/modules/calendar"
	"quickpoll/modules/notification"
	"quickpoll/modules/poll"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run wires config, storage, the task queue and every module, then serves
// until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	redisCache := cache.NewCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisCache.Ping(context.Background()); err != nil {
		logger.Warn("Redis unreachable, caching and background jobs degraded", "error", err)
	}

	asynqOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(asynqOpt)
	defer asynqClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware(cfg.Auth.JWTSecret)

	// Modules. Order matters only where one service feeds another.
	availService := availability.Init(e, db, mw)
	notifService := notification.Init(e, db, mw, asynqClient)
	poll.Init(e, db, mw, redisCache, notifService)
	calService := calendar.Init(e, db, mw, cfg)
	booking.Init(e, availService, calService)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Background worker shares the process; notification volume does not
	// justify a separate deployment.
	worker := asynq.NewServer(asynqOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskPollNotify, notifService.HandlePollNotifyTask)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("asynq worker stopped", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
