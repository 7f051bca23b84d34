package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hushhush/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Execute(ctx); err != nil {
		log.WithError(err).Error("Command failed")
		cancel()
		os.Exit(1)
	}
}
