// Command tx-saver stores the transactions of enriched blocks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/app"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/config"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/metrics"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/service/pipeline"
	"go.uber.org/zap"
)

type options struct {
	Log      config.Log      `group:"log" namespace:"log" env-namespace:"LOG"`
	Metrics  config.Metrics  `group:"metrics" namespace:"metrics" env-namespace:"METRICS"`
	Retry    config.Retry    `group:"retry" namespace:"retry" env-namespace:"RETRY"`
	Postgres config.Postgres `group:"postgres" namespace:"postgres" env-namespace:"POSTGRES"`
	Redis    config.Redis    `group:"redis" namespace:"redis" env-namespace:"REDIS"`
	Queue    config.Queue    `group:"queue" namespace:"queue" env-namespace:"QUEUE"`
}

func main() {
	opts := options{}
	ok, err := app.ParseFlags(&opts, os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	if !ok {
		return
	}

	logger, err := app.NewLogger(opts.Log)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger.Named("tx_saver")); err != nil && ctx.Err() == nil {
		logger.Fatal("tx saver failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	app.StartMetricsServer(ctx, opts.Metrics.Addr, logger)
	retrier := app.NewRetrier(opts.Retry, metrics.NewRetry(), logger)

	repo, err := app.NewPostgresRepository(ctx, opts.Postgres, retrier)
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repo.Close()

	redisClient, err := app.NewRedisClient(ctx, opts.Redis, retrier)
	if err != nil {
		return err
	}
	defer func() {
		_ = redisClient.Close()
	}()
	broker, err := app.NewBroker(redisClient, opts.Redis, logger)
	if err != nil {
		return fmt.Errorf("init broker: %w", err)
	}

	handler, err := pipeline.NewTxSaver(repo, retrier, logger)
	if err != nil {
		return err
	}
	consumer, err := pipeline.NewConsumer(broker, queue.NewNames(opts.Queue.Prefix).BlocksToSave, handler, retrier, opts.Redis.ClaimIdle/3, metrics.NewStage("tx_saver"), logger)
	if err != nil {
		return err
	}
	return consumer.Run(ctx)
}
