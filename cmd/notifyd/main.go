package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/franco18min/tecnomundo-notify/internal/config"
	"github.com/franco18min/tecnomundo-notify/internal/database"
	"github.com/franco18min/tecnomundo-notify/internal/dispatch"
	"github.com/franco18min/tecnomundo-notify/internal/identity"
	"github.com/franco18min/tecnomundo-notify/internal/registry"
	"github.com/franco18min/tecnomundo-notify/internal/server"
	"github.com/franco18min/tecnomundo-notify/internal/store"
	"github.com/franco18min/tecnomundo-notify/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/notifyd.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting notifyd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"http_port", cfg.HTTP.Port,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.InitSchema(ctx, pool); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	// Assemble the core: store, registry, dispatcher, resolver, HTTP surface.
	notificationStore := store.NewPGStore(pool)
	connectionRegistry := registry.New(logger.With("component", "registry"))
	dispatcher := dispatch.New(notificationStore, connectionRegistry, logger.With("component", "dispatch"))
	resolver := identity.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	srv := server.New(cfg, notificationStore, connectionRegistry, dispatcher, resolver, logger.With("component", "server"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}

	logger.Info("notifyd stopped")
}
