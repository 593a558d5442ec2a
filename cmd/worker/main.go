package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fittrack/config"
	"fittrack/services"
	"fittrack/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	config.InitLogger()
	config.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The worker applies events only; it never publishes or broadcasts.
	activities := services.NewActivityService(config.DB, nil, nil)

	if err := worker.RunLedgerWorker(ctx, activities); err != nil {
		log.Fatal().Err(err).Msg("ledger worker stopped")
	}
}
