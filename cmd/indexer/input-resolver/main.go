// Command input-resolver fills stored transaction inputs from the outputs they spend.
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
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/service/ledger"
	"go.uber.org/zap"
)

type options struct {
	Log      config.Log      `group:"log" namespace:"log" env-namespace:"LOG"`
	Metrics  config.Metrics  `group:"metrics" namespace:"metrics" env-namespace:"METRICS"`
	Retry    config.Retry    `group:"retry" namespace:"retry" env-namespace:"RETRY"`
	Postgres config.Postgres `group:"postgres" namespace:"postgres" env-namespace:"POSTGRES"`

	PollInterval time.Duration `long:"poll-interval" env:"INPUT_RESOLVER_POLL_INTERVAL" default:"1s" description:"pause between resolution cycles"`
	BatchSize    int           `long:"batch-size" env:"INPUT_RESOLVER_BATCH_SIZE" default:"1000" description:"transactions loaded per cycle"`
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

	if err := run(ctx, opts, logger.Named("input_resolver")); err != nil && ctx.Err() == nil {
		logger.Fatal("input resolver failed", zap.Error(err))
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

	svc, err := ledger.NewInputResolver(
		repo,
		retrier,
		metrics.NewPoller("input_resolver"),
		ledger.PollerConfig{PollInterval: opts.PollInterval, BatchSize: opts.BatchSize},
		logger,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
