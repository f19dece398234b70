package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sahankit/chatkaro-app/internal/chat"
	"github.com/sahankit/chatkaro-app/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run owns the whole lifecycle so that deferred cleanup executes before the
// process exits and main stays a thin wrapper.
func run() error {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	catalog := chat.DefaultCatalog()
	if cfg.RoomCatalogPath != "" {
		if catalog, err = chat.LoadCatalog(cfg.RoomCatalogPath); err != nil {
			return err
		}
	}

	coordinator := chat.NewCoordinator(logger, catalog, chat.Options{
		HistoryLimit:     cfg.RoomHistoryLimit,
		MaxMessageLength: cfg.MaxMessageLength,
		SessionGrace:     cfg.SessionGrace,
	})

	hub := server.NewHub(logger, coordinator, cfg)
	go hub.Run()

	router := server.SetupRoutes(hub, cfg, logger)
	srv := server.NewHTTPServer(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "rooms", len(catalog.Rooms()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownErr := server.ShutdownServer(srv, 10*time.Second)
	if err := hub.Shutdown(5 * time.Second); err != nil {
		logger.Warn("hub shutdown incomplete", "err", err)
	}
	return shutdownErr
}
