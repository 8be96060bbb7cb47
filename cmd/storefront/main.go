package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/app"
)

func main() {
	// Create a root context with the possibility of cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create a channel for signal handling
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	server, err := app.NewServer(ctx)
	if err != nil {
		log.Fatalln(err)
	}

	go func() {
		// Wait for a signal
		sig := <-signalCh
		server.Log.Info(fmt.Sprintf("Received signal: %+v", sig))

		// Cancel the context; Serve stops the console and the HTTP API
		cancel()
	}()

	// Start the server
	if err := server.Serve(); err != nil {
		server.Log.Error("storefront stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
