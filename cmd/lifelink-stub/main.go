// Command lifelink-stub serves an in-memory stand-in for the LifeLink REST
// API for local development.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/lifelink/internal/config"
	"github.com/hongminglow/lifelink/internal/registry"
	"github.com/hongminglow/lifelink/internal/server"
)

func main() {
	loadLocalEnv()

	cfg, err := config.LoadStub()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	srv, err := server.New(cfg, registry.New(), logger)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	go func() {
		logger.Info("LifeLink stub listening",
			zap.String("addr", cfg.HTTPAddress()),
			zap.String("base_path", server.BasePath))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
