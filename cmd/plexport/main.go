// cmd/plexport/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/plexport/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	// Cancelling the context tears down the browser and aborts the run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx)
	if ctx.Err() != nil {
		log.Warn().Msg("Interrupt received, shut down gracefully")
	}
	stop()

	if err != nil {
		os.Exit(1)
	}
}
