package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/campus-events-api/internal/auth"
	"github.com/gravadigital/campus-events-api/internal/certificate"
	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/metrics"
	"github.com/gravadigital/campus-events-api/internal/server"
	"github.com/gravadigital/campus-events-api/internal/services"
	"github.com/gravadigital/campus-events-api/internal/storage"
	"github.com/gravadigital/campus-events-api/internal/storage/objectstore"
)

func main() {
	cfg := config.Load()

	logger.InitializeWith(os.Stderr, cfg.Log.Level, cfg.IsProduction())
	log := logger.Get()

	if err := run(cfg); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}

func run(cfg *config.Config) error {
	log := logger.Get()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}

	metrics.Register()

	storageType, err := storage.ValidateStorageType(cfg.Storage.Type)
	if err != nil {
		return err
	}
	store, err := storage.NewFactory(storageType).CreateStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close store", "error", err)
		}
	}()
	log.Info("Storage ready", "type", storageType)

	opts := services.Options{
		Renderer:  certificate.NewRenderer(""),
		PublicURL: cfg.App.PublicURL,
	}
	if cfg.ObjectStoreEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		banners, err := objectstore.New(ctx, cfg)
		cancel()
		if err != nil {
			return err
		}
		opts.Banners = banners
	} else {
		log.Warn("MINIO_ENDPOINT not set, banner uploads are disabled")
	}

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	srv := server.New(cfg, store, services.New(store, opts), verifier)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}
