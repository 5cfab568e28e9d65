// Command simulator validates game configurations and measures their
// return to player by Monte Carlo simulation or exact enumeration.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		slog.Error("simulator failed", "error", err)
		os.Exit(1)
	}
}
