package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/parceldesk/courier-client/internal/api/http"
	"github.com/parceldesk/courier-client/internal/api/http/handlers"
	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/config"
	"github.com/parceldesk/courier-client/internal/events"
	"github.com/parceldesk/courier-client/internal/observability"
	"github.com/parceldesk/courier-client/internal/session"
	"github.com/parceldesk/courier-client/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, logger)

	persistence, err := newSessionPersistence(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init session persistence", zap.Error(err))
	}

	store, err := session.NewStore(ctx, persistence, dispatcher)
	if err != nil {
		logger.Fatal("failed to restore session", zap.Error(err))
	}
	if store.IsAuthenticated() {
		logger.Info("session restored from disk")
	}

	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout(), store.Token)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, store, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:     handlers.NewAuthHandler(api, store),
		Bookings: handlers.NewBookingHandler(api, cfg.Policy, dispatcher),
		Tracking: handlers.NewTrackingHandler(api, dispatcher),
		Store:    store,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newSessionPersistence(cfg *config.Config, logger *zap.Logger) (session.Persistence, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warn("unable to reach redis", zap.Error(err))
		} else {
			logger.Info("connected to redis")
		}
		return session.NewRedisStore(client, cfg.Session.RedisKey), nil
	default:
		return session.NewFileStore(cfg.Session.FilePath)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
