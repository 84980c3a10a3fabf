package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-pos/internal/config"
	"github.com/diewo77/go-pos/internal/repository"
	"github.com/diewo77/go-pos/internal/server"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var seedFlag = flag.Bool("seed", false, "Seed demo data and exit")

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StorageDriver {
	case "sqlite", "postgres":
		return store.OpenDocument(cfg.StorageDriver, cfg.DatabaseDSN)
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.OpenBolt(cfg.StoragePath)
	}
}

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal("store open failed", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer st.Close()

	repos, err := repository.New(st)
	if err != nil {
		logger.Fatal("repository init failed", zap.Error(err))
	}

	if *seedFlag || cfg.SeedDemo {
		if err := services.SeedDemo(context.Background(), repos); err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("demo data seeded")
		if *seedFlag {
			return
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(repos, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
