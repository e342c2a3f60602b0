package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/events"
	"github.com/shelfwatch/shelfwatch/internal/handler"
	"github.com/shelfwatch/shelfwatch/internal/health"
	"github.com/shelfwatch/shelfwatch/internal/infra/dispatcher"
	"github.com/shelfwatch/shelfwatch/internal/infra/repository"
	"github.com/shelfwatch/shelfwatch/internal/observability"
	"github.com/shelfwatch/shelfwatch/internal/observability/logging"
	"github.com/shelfwatch/shelfwatch/internal/observability/metrics"
	"github.com/shelfwatch/shelfwatch/internal/observability/middleware"
	"github.com/shelfwatch/shelfwatch/internal/plan"
	"github.com/shelfwatch/shelfwatch/internal/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	env := logging.EnvDev
	if cfg.Environment == "prod" || cfg.Environment == "production" {
		env = logging.EnvProd
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    "shelfwatch",
			Version: Version,
		},
		Environment:  env,
		LogLevel:     cfg.LogLevel,
		SamplingRate: cfg.SamplingRate,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	scheduleMetrics, err := metrics.NewScheduleMetrics()
	if err != nil {
		slog.Error("failed to initialize schedule metrics", slog.String("error", err.Error()))
		return 1
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	productRepo := repository.NewProductRepository(redisClient)
	settingsRepo := repository.NewSettingsRepository(redisClient)

	dispatchClient := dispatcher.NewClient(cfg.DispatcherURL, cfg.Dispatcher.MaxRetries)

	plannerCfg := plan.DefaultConfig()
	plannerCfg.DailyHour = cfg.Notify.DailyReminderHour
	plannerCfg.GroupHour = cfg.Notify.GroupDigestHour
	plannerCfg.Location = cfg.Notify.Location
	planner := plan.NewPlanner(plannerCfg)

	scheduler := schedule.NewService(productRepo, settingsRepo, dispatchClient, planner, scheduleMetrics)
	scheduler.SetPacing(cfg.Schedule.PauseEvery, cfg.Schedule.Pause)

	bus := events.NewBus(redisClient)
	subscriber := events.NewSubscriber(redisClient, productRepo, scheduler)
	go func() {
		if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("event subscriber stopped", slog.String("error", err.Error()))
		}
	}()

	productHandler := handler.NewProductHandler(productRepo, bus)
	settingsHandler := handler.NewSettingsHandler(settingsRepo, bus)
	scheduleHandler := handler.NewScheduleHandler(scheduler)
	summaryHandler := handler.NewSummaryHandler(productRepo, cfg.Notify)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths: []string{"/health", "/health/live", "/health/ready"},
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, dispatchClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/products", productHandler.HandleList)
		v1.POST("/products", productHandler.HandleCreate)
		v1.GET("/products/:code", productHandler.HandleGet)
		v1.PUT("/products/:code", productHandler.HandleUpdate)
		v1.DELETE("/products/:code", productHandler.HandleDelete)
		v1.POST("/products/:code/rename", productHandler.HandleRename)
		v1.POST("/products/:code/sold", productHandler.HandleMarkSold)

		v1.GET("/settings", settingsHandler.HandleGet)
		v1.PATCH("/settings", settingsHandler.HandleMerge)
		v1.POST("/settings/reset", settingsHandler.HandleReset)

		v1.POST("/schedule/run", scheduleHandler.HandleRun)

		v1.GET("/summary", summaryHandler.HandleSummary)
		v1.GET("/summary/months", summaryHandler.HandleMonths)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("expiring_window_days", cfg.Notify.ExpiringWindowDays),
			slog.Int("daily_reminder_hour", cfg.Notify.DailyReminderHour),
			slog.String("dispatcher_url", cfg.DispatcherURL),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
