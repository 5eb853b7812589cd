// Command task-preparer enqueues the block heights missing from the store.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	RPC      config.RPC      `group:"rpc" namespace:"rpc" env-namespace:"RPC"`
	Chain    config.Chain    `group:"chain" namespace:"chain" env-namespace:"CHAIN"`

	PollInterval time.Duration `long:"poll-interval" env:"TASK_PREPARER_POLL_INTERVAL" default:"1s" description:"pause between preparation cycles"`
	BatchSize    int           `long:"batch-size" env:"TASK_PREPARER_BATCH_SIZE" default:"100" description:"maximum heights enqueued per cycle"`
	DrainWait    time.Duration `long:"drain-wait" env:"TASK_PREPARER_DRAIN_WAIT" default:"30s" description:"time an abandoned queue gets to drain before it is purged"`
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

	if err := run(ctx, opts, logger.Named("task_preparer")); err != nil && ctx.Err() == nil {
		logger.Fatal("task preparer failed", zap.Error(err))
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

	svc, err := pipeline.NewTaskPreparer(
		gateway,
		repo,
		broker,
		retrier,
		metrics.NewPoller("task_preparer"),
		queue.NewNames(opts.Queue.Prefix),
		pipeline.TaskPreparerConfig{
			PollInterval: opts.PollInterval,
			BatchSize:    opts.BatchSize,
			DrainWait:    opts.DrainWait,
		},
		logger,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
