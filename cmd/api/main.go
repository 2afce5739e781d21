package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"p2p-lending-backend/internal/app"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/infrastructure/logging"
)

// api runs only the server; the root binary adds migrate and rank commands.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("startup")
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
