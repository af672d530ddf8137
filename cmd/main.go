package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/mindleaf/notification-scheduling/internal/config"
	"github.com/mindleaf/notification-scheduling/internal/domain"
	"github.com/mindleaf/notification-scheduling/internal/handler"
	"github.com/mindleaf/notification-scheduling/internal/health"
	"github.com/mindleaf/notification-scheduling/internal/infra/repository"
	"github.com/mindleaf/notification-scheduling/internal/infra/sink"
	"github.com/mindleaf/notification-scheduling/internal/observability"
	"github.com/mindleaf/notification-scheduling/internal/observability/logging"
	"github.com/mindleaf/notification-scheduling/internal/observability/metrics"
	"github.com/mindleaf/notification-scheduling/internal/observability/middleware"
	"github.com/mindleaf/notification-scheduling/internal/service/nag"
	"github.com/mindleaf/notification-scheduling/internal/service/schedule"
	"github.com/mindleaf/notification-scheduling/internal/service/selector"
	"github.com/mindleaf/notification-scheduling/internal/service/window"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
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

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	scheduleMetrics, err := metrics.NewScheduleMetrics()
	if err != nil {
		slog.Error("failed to initialize schedule metrics", slog.String("error", err.Error()))
		return 1
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

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

	messageRepo := repository.NewMessageRepository(redisClient)

	notificationSink := initNotificationSink(cfg)

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	scheduleService := schedule.NewService(
		messageRepo,
		messageRepo,
		notificationSink,
		selector.New(rng),
		window.NewSampler(rng, cfg.Schedule.SampleMaxAttempts),
		nag.NewPlanner(cfg.Schedule.NagHorizon),
		scheduleMetrics,
		cfg.Schedule.Title,
		cfg.Schedule.Channel,
	)

	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	messageHandler := handler.NewMessageHandler(messageRepo, scheduleService)
	settingsHandler := handler.NewSettingsHandler(messageRepo, scheduleService)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, notificationSink, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/schedule/refresh", scheduleHandler.HandleReschedule)

		v1.POST("/messages", messageHandler.HandleCreateMessage)
		v1.GET("/messages", messageHandler.HandleListMessages)
		v1.GET("/messages/:id", messageHandler.HandleGetMessage)
		v1.PUT("/messages/:id", messageHandler.HandleUpdateMessage)
		v1.DELETE("/messages/:id", messageHandler.HandleDeleteMessage)

		v1.GET("/settings", settingsHandler.HandleGetSettings)
		v1.PUT("/settings", settingsHandler.HandleUpdateSettings)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Duration("nag_horizon", cfg.Schedule.NagHorizon),
			slog.Int("sample_max_attempts", cfg.Schedule.SampleMaxAttempts),
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

// initNotificationSink selects the delivery backend. Without a bridge URL the
// schedule is held in process memory, which is enough for local development
// but lost on restart.
func initNotificationSink(cfg *config.Config) domain.NotificationSink {
	if cfg.BridgeURL == "" {
		slog.Warn("NOTIFICATION_BRIDGE_URL not set, using in-memory notification sink")
		return sink.NewMemorySink()
	}

	slog.Info("notification bridge configured",
		slog.String("url", cfg.BridgeURL),
	)
	return sink.NewBridgeClient(cfg.BridgeURL, 3)
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "notification-scheduling"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		LogLevel:      config.ParseLogLevel(os.Getenv("LOG_LEVEL")),
		SamplingRate:  1.0,
		DefaultModule: logging.Module("notification-scheduling"),
	})
}
