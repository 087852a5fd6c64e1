package main

import (
	"context"
	"os/signal"
	"syscall"

	"turfbook/config"
	"turfbook/di"
	"turfbook/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := di.InitializeSweeper()
	go sweeper.Start(ctx)

	worker := di.InitializeWorker()
	worker.Run(ctx)
}
