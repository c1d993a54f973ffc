package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/benedikt-weyer/streamline-scheduler/internal/auth"
	"github.com/benedikt-weyer/streamline-scheduler/internal/config"
	"github.com/benedikt-weyer/streamline-scheduler/internal/database"
	"github.com/benedikt-weyer/streamline-scheduler/internal/logging"
	"github.com/benedikt-weyer/streamline-scheduler/internal/metrics"
	"github.com/benedikt-weyer/streamline-scheduler/internal/realtime"
	"github.com/benedikt-weyer/streamline-scheduler/internal/redis"
	"github.com/benedikt-weyer/streamline-scheduler/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create Redis client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, cancelRelay context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if cancelRelay != nil {
			cancelRelay()
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	wsMetrics := metrics.NewWebSocketMetrics(prometheus.DefaultRegisterer)

	registry := realtime.NewRegistry(wsMetrics)

	// The Redis relay is optional; without it the instance runs standalone.
	var (
		relay       *redis.Relay
		redisPing   func(context.Context) error
		cancelRelay context.CancelFunc
	)
	if cfg.RedisURL != "" {
		redisClient := setupRedis(cfg)
		defer func() { _ = redisClient.Close() }()
		redisPing = redisClient.Ping

		relay = redis.NewRelay(redisClient, registry)

		var relayCtx context.Context
		relayCtx, cancelRelay = context.WithCancel(context.Background())
		go func() {
			if err := relay.Run(relayCtx); err != nil {
				slog.Error("Change event relay stopped", "error", err)
			}
		}()
	}

	var relayPublisher realtime.RelayPublisher
	if relay != nil {
		relayPublisher = relay
	}
	router := realtime.NewRouter(registry, relayPublisher)

	userRepo := database.NewUserRepo(pool)
	authSvc := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours, clock)

	srv := server.NewServer(cfg, server.Dependencies{
		Auth: authSvc,
		Repos: server.Repositories{
			Projects:       database.NewProjectRepo(pool),
			CanDo:          database.NewCanDoRepo(pool),
			Calendars:      database.NewCalendarRepo(pool),
			CalendarEvents: database.NewCalendarEventRepo(pool),
			Settings:       database.NewSettingsRepo(pool),
		},
		Registry:     registry,
		Router:       router,
		WSMetrics:    wsMetrics,
		Clock:        clock,
		PostgresPing: pool.Ping,
		RedisPing:    redisPing,
	})

	done := runGracefulShutdown(srv, cancelRelay)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
