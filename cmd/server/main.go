package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/duet/adapter/api"
	"github.com/felixgeelhaar/duet/internal/app"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := app.NewContainer(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to initialize: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer container.Close()
	logger := container.Logger

	handler := api.NewHandler(
		container.UserID,
		container.Pairing,
		container.Billing,
		container.Progress,
		container.Stream,
		logger,
	)

	cfg := api.DefaultServerConfig()
	if addr := os.Getenv("DUET_API_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	server := api.NewServer(cfg, handler, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		cancel()
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
