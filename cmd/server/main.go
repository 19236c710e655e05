package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/lens-console/auth"
	"github.com/diewo77/lens-console/internal/config"
	"github.com/diewo77/lens-console/internal/db"
	"github.com/diewo77/lens-console/internal/logger"
	"github.com/diewo77/lens-console/internal/mailer"
	"github.com/diewo77/lens-console/internal/metrics"
	"github.com/diewo77/lens-console/internal/pdf"
	"github.com/diewo77/lens-console/internal/repository"
	"github.com/diewo77/lens-console/internal/services"
	"github.com/diewo77/lens-console/internal/spreadsheet"
	"github.com/diewo77/lens-console/internal/store"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// .env is optional; the environment wins.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	conn, err := db.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(conn, cfg.Database); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed successfully")
		return
	}

	auth.SetSecret(cfg.Session.Secret)
	if auth.IsDevSecret() && !cfg.App.Dev {
		log.Warn("SESSION_SECRET not set, using the development signing key")
	}

	st := store.New(conn, log)
	registry := repository.NewRegistry(st, log)
	defer registry.Close()

	var reg *metrics.Registry
	if cfg.App.MetricsEnabled {
		reg = metrics.New()
	}

	app := NewApp(Deps{
		Store:     st,
		Registry:  registry,
		Clock:     services.SystemClock(cfg.App.Location()),
		Mailer:    mailer.New(cfg.Mail, log),
		Renderer:  pdf.NewRenderer(nil),
		Parser:    spreadsheet.NewParser(),
		Metrics:   reg,
		MaxUpload: cfg.App.MaxUploadBytes,
		Log:       log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev), zap.String("timezone", cfg.App.Timezone))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
}
