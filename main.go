package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"webhook-gate/internal/common/logging"
	"webhook-gate/internal/config"
	"webhook-gate/internal/handlers"
	"webhook-gate/internal/hmacauth"
	"webhook-gate/internal/middleware"
	"webhook-gate/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.NewZapLogger(logging.LogConfig{
		Level: logging.ParseLevel(cfg.LogLevel),
		Name:  "webhook-gate",
	})
	if err != nil {
		panic(err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", err)
		os.Exit(1)
	}

	gateCfg, err := cfg.GateConfig()
	if err != nil {
		logger.Error("failed to build gate configuration", err)
		os.Exit(1)
	}

	h := handlers.New(logger)

	router := mux.NewRouter()
	router.HandleFunc("/webhooks/{endpoint}", h.ReceiveWebhook).Methods("POST", "PUT", "PATCH")
	router.HandleFunc("/webhooks", h.ReceiveWebhook).Methods("POST", "PUT", "PATCH")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	gate, err := hmacauth.NewGate(gateCfg, router, logger)
	if err != nil {
		logger.Error("failed to build verification gate", err)
		os.Exit(1)
	}

	srv := server.New(middleware.Logging(logger, gate), cfg.Port, logger)
	errCh := srv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		logger.Error("forced shutdown", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
