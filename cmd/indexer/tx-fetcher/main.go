// Command tx-fetcher loads and normalizes the transactions of fetched blocks.
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
	Log     config.Log     `group:"log" namespace:"log" env-namespace:"LOG"`
	Metrics config.Metrics `group:"metrics" namespace:"metrics" env-namespace:"METRICS"`
	Retry   config.Retry   `group:"retry" namespace:"retry" env-namespace:"RETRY"`
	Redis   config.Redis   `group:"redis" namespace:"redis" env-namespace:"REDIS"`
	Queue   config.Queue   `group:"queue" namespace:"queue" env-namespace:"QUEUE"`
	RPC     config.RPC     `group:"rpc" namespace:"rpc" env-namespace:"RPC"`
	Chain   config.Chain   `group:"chain" namespace:"chain" env-namespace:"CHAIN"`

	TxConcurrency int `long:"tx-concurrency" env:"TX_FETCHER_CONCURRENCY" default:"1" description:"transactions of one block fetched in parallel"`
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

	if err := run(ctx, opts, logger.Named("tx_fetcher")); err != nil && ctx.Err() == nil {
		logger.Fatal("tx fetcher failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	app.StartMetricsServer(ctx, opts.Metrics.Addr, logger)
	retrier := app.NewRetrier(opts.Retry, metrics.NewRetry(), logger)

	genesisHash, err := app.GenesisHash(opts.Chain)
	if err != nil {
		return err
	}

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

	rpcClient, err := app.NewRPCClient(opts.RPC)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	gateway, err := app.NewGateway(rpcClient, opts.RPC, opts.Chain, logger)
	if err != nil {
		return err
	}

	names := queue.NewNames(opts.Queue.Prefix)

	handler, err := pipeline.NewTxFetcher(gateway, broker, retrier, names.BlocksToSave, genesisHash, opts.TxConcurrency, logger)
	if err != nil {
		return err
	}
	consumer, err := pipeline.NewConsumer(broker, names.BlocksToFetchTxs, handler, retrier, opts.Redis.ClaimIdle/3, metrics.NewStage("tx_fetcher"), logger)
	if err != nil {
		return err
	}
	return consumer.Run(ctx)
}
