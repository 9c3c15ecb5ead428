package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/parceldesk/courier-client/internal/config"
	"github.com/parceldesk/courier-client/internal/observability"
	"github.com/parceldesk/courier-client/internal/stubapi"
)

// stubapi runs a development stand-in for the booking backend so the
// client can be exercised end to end without the real service.
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

	server := stubapi.NewServer(
		getEnv("STUB_JWT_SECRET", "dev-secret"),
		60,
		10,
		cfg.Policy,
		logger,
	)

	app := fiber.New()
	server.Register(app)

	addr := getEnv("STUB_ADDR", "0.0.0.0:8080")
	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("stub backend listening", zap.String("addr", addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = app.Shutdown()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
