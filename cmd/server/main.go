package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/adverra/backoffice/internal/analytics"
	"github.com/adverra/backoffice/internal/api"
	"github.com/adverra/backoffice/internal/auth"
	"github.com/adverra/backoffice/internal/client"
	"github.com/adverra/backoffice/internal/config"
	"github.com/adverra/backoffice/internal/database"
	"github.com/adverra/backoffice/internal/lead"
	"github.com/adverra/backoffice/internal/payment"
	"github.com/adverra/backoffice/internal/production"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(ctx)
	cancel()
	if err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	userRepo := auth.NewRepository(db.Pool())
	authService := auth.NewService(userRepo, cfg.BcryptCost)

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	_, err = authService.BootstrapAdmin(ctx)
	cancel()
	if err != nil {
		slog.Error("failed to bootstrap admin", "error", err)
		os.Exit(1)
	}

	var analyticsRepo analytics.Repository = analytics.NewRepository(db.Pool())
	var cachePinger *redis.Client
	if cfg.RedisURL != "" {
		rdb, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable; analytics summaries will not be cached", "error", err)
		} else {
			analyticsRepo = analytics.NewCachedRepository(analyticsRepo, rdb, time.Duration(cfg.SummaryCacheTTL)*time.Second)
			cachePinger = rdb
			defer rdb.Close()
		}
	}

	deps := api.RouterDeps{
		AuthService:    authService,
		UserRepo:       userRepo,
		LeadRepo:       lead.NewRepository(db.Pool()),
		NoteRepo:       lead.NewNoteRepository(db.Pool()),
		ClientRepo:     client.NewRepository(db.Pool()),
		ProductionRepo: production.NewRepository(db.Pool()),
		PaymentRepo:    payment.NewRepository(db.Pool()),
		AnalyticsRepo:  analyticsRepo,
		DBPinger:       db,
		Version:        cfg.Version,
	}
	if cachePinger != nil {
		deps.CachePinger = redisPinger{cachePinger}
	}

	router := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting back-office server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return rdb, nil
}

// redisPinger adapts *redis.Client to the health handler's CachePinger.
type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
