package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gallerycat/gallerycat/internal/cli"
)

func main() {
	// Cancel the root context on interrupt so in-flight scrapes and the
	// HTTP server shut down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.ExecuteContext(ctx)
}
