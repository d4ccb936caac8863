package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/23A91A0565/polystreamx/internal/config"
	"github.com/23A91A0565/polystreamx/internal/dbpool"
	"github.com/23A91A0565/polystreamx/internal/httpapi"
	"github.com/23A91A0565/polystreamx/internal/logging"
	"github.com/23A91A0565/polystreamx/internal/registry"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := dbpool.OpenWithRetry(ctx, dbpool.Options{
		DatabaseURL:        cfg.DatabaseURL,
		MaxConns:           cfg.PoolMaxConns,
		MinConns:           cfg.PoolMinConns,
		IdleTimeoutSecs:    cfg.PoolIdleTimeoutSecs,
		ConnectTimeoutSecs: cfg.PoolConnectTimeoutSecs,
	}, 2*time.Second)
	if err != nil {
		log.Fatal("failed to open database pool", zap.Error(err))
	}
	defer pool.Close()

	reg := registry.New()
	mux := httpapi.New(pool, reg, log, cfg.ExportRowLimit, cfg.BenchmarkRowLimit)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // downloads stream for as long as the export runs
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down, draining in-flight exports")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
	}
}
