package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agamariel/catering/internal/config"
	"github.com/agamariel/catering/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		File:        cfg.LogFile,
	})
	defer logger.Sync(log)

	// Денежные суммы отдаём числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	app, err := NewApp(rootCtx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}

	go func() {
		if err := app.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
}
