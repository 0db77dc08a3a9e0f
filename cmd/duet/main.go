package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/duet/adapter/cli"
	"github.com/felixgeelhaar/duet/internal/app"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	container, err := app.NewContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetLogger(container.Logger)
	cli.SetApp(&cli.App{
		Pairing:       container.Pairing,
		Billing:       container.Billing,
		Progress:      container.Progress,
		Stream:        container.Stream,
		Onboarding:    container.Onboarding,
		Waiter:        container.Waiter,
		CurrentUserID: container.UserID,
	})

	cli.Execute()
}
