package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		slog.Error("portal assistant wiring failed", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("portal assistant stopped", "error", err)
		return 1
	}
	return 0
}
