package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/handler"
	"github.com/growthlog/internal/logger"
	"github.com/growthlog/internal/router"
	"github.com/growthlog/internal/store"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	tracker, err := config.LoadTracker(cfg.TrackerConfigPath)
	if err != nil {
		log.Fatal("failed to load tracker config", "path", cfg.TrackerConfigPath, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open table store", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore()

	hash, err := handler.HashAccessCode(cfg.ViewAccessCode)
	if err != nil {
		log.Fatal("failed to hash view access code", "error", err)
	}
	if len(hash) == 0 {
		log.Warn("VIEW_ACCESS_CODE not set, read-only view disabled")
	}

	gin.SetMode(cfg.GinMode)
	api := handler.NewAPI(handler.Options{
		Store:          tables,
		Worksheets:     cfg.Worksheets,
		Tracker:        tracker,
		AccessCodeHash: hash,
		Location:       cfg.Location,
		Logger:         log,
	})
	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        log,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.ListenAddr, "store", cfg.StoreDriver, "habits", len(tracker.Habits))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return
	}
	log.Info("server stopped")
}
