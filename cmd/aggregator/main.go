package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tenderwatch/tender-aggregator/internal/bootstrap"
	"github.com/tenderwatch/tender-aggregator/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("aggregator_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	worker, err := bootstrap.NewAggregator(cfg)
	if err != nil {
		return err
	}
	defer worker.Close()

	worker.Logger.Info("aggregator_started",
		"refresh_subject", cfg.NATSRefreshSubject,
		"refreshed_subject", cfg.NATSRefreshedSubject,
	)
	return worker.Run(ctx)
}
