// main is the entry point for the Anvaya API server.
//
// It loads configuration, opens the SQLite database, seeds the default wings,
// registers all HTTP routes, and serves until SIGINT or SIGTERM.
//
// This file is the composition root: the one place where the independent
// packages (config, db, store, storage, auth, handlers, middleware) are wired
// together. Every other package stays testable on its own.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anvaya-club/anvaya/internal/auth"
	"github.com/anvaya-club/anvaya/internal/config"
	"github.com/anvaya-club/anvaya/internal/db"
	"github.com/anvaya-club/anvaya/internal/handlers"
	"github.com/anvaya-club/anvaya/internal/logging"
	"github.com/anvaya-club/anvaya/internal/middleware"
	"github.com/anvaya-club/anvaya/internal/storage"
	"github.com/anvaya-club/anvaya/internal/store"
)

func main() {
	showEnv := flag.Bool("env", false, "print the supported environment variables and exit")
	flag.Parse()
	if *showEnv {
		fmt.Println(config.Usage())
		return
	}

	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	// db.Open creates the file if needed and runs the CREATE TABLE IF NOT
	// EXISTS migrations.
	database, err := db.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	st := store.New(database)
	if cfg.Database.Seed {
		added, err := handlers.SeedWings(ctx, st, logger)
		if err != nil {
			return err
		}
		logger.Info("default wings checked", slog.Int("added", added))
	}

	media, err := storage.NewLocal(cfg.Storage.Dir, cfg.Storage.PublicURL, logger)
	if err != nil {
		return err
	}

	admin, err := auth.NewAdminVerifier(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		return fmt.Errorf("admin account: %w", err)
	}

	api := &handlers.Server{
		Store:          st,
		Media:          media,
		Admin:          admin,
		Secret:         cfg.Auth.JWTSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	}

	// Outermost first.
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(api.Routes())

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Anvaya API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
