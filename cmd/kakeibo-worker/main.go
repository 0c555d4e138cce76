package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"kakeibo/internal/amqp"
	"kakeibo/internal/backend"
	"kakeibo/internal/cli"
	applog "kakeibo/internal/log"
	"kakeibo/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)

	logger.Info("Starting kakeibo-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	if backendCfg.Type == backend.MemoryBackend {
		logger.Warn("Memory backend is per process, the worker mirrors an empty ledger")
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	persister, closePersister, err := factory.OpenPersister(backendCfg)
	if err != nil {
		logger.Error("Failed to open ledger storage", "error", err)
		os.Exit(1)
	}
	defer closePersister()

	mirror, err := factory.CreateMirror(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize ledger mirror", "error", err)
		os.Exit(1)
	}

	mw := worker.NewMirrorWorker(persister, mirror)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.NotificationsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			return client.ConsumeWithRetry(gctx, mw.HandleChange)
		})
	} else {
		logger.Info("AMQP disabled, relying on periodic mirroring only")
	}

	g.Go(func() error {
		return mw.Run(gctx, cfg.MirrorInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
