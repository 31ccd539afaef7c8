package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskmint/internal/app"
	"taskmint/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskmint: load config: %v\n", err)
		os.Exit(1)
	}

	log := app.NewLogger(cfg.Env)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")
}
