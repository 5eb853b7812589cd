// Command balance-aggregator applies resolved transactions to address balances.
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
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/repository/clickhouse"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/service/ledger"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/batcher"
	"go.uber.org/zap"
)

type options struct {
	Log        config.Log        `group:"log" namespace:"log" env-namespace:"LOG"`
	Metrics    config.Metrics    `group:"metrics" namespace:"metrics" env-namespace:"METRICS"`
	Retry      config.Retry      `group:"retry" namespace:"retry" env-namespace:"RETRY"`
	Postgres   config.Postgres   `group:"postgres" namespace:"postgres" env-namespace:"POSTGRES"`
	ClickHouse config.ClickHouse `group:"clickhouse" namespace:"clickhouse" env-namespace:"CLICKHOUSE"`

	PollInterval time.Duration `long:"poll-interval" env:"BALANCE_AGGREGATOR_POLL_INTERVAL" default:"1s" description:"pause between aggregation cycles"`
	BatchSize    int           `long:"batch-size" env:"BALANCE_AGGREGATOR_BATCH_SIZE" default:"1000" description:"transactions aggregated per cycle"`
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

	if err := run(ctx, opts, logger.Named("balance_aggregator")); err != nil && ctx.Err() == nil {
		logger.Fatal("balance aggregator failed", zap.Error(err))
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


	var journal ledger.Journal
	if opts.ClickHouse.DSN != "" {
		chRepo, err := app.NewClickhouseRepository(ctx, opts.ClickHouse, retrier)
		if err != nil {
			return fmt.Errorf("init journal repository: %w", err)
		}
		defer func() {
			_ = chRepo.Close()
		}()

		j := clickhouse.NewJournal(chRepo, retrier, logger, batcher.Config{
			FlushSize:     opts.ClickHouse.FlushSize,
			FlushInterval: opts.ClickHouse.FlushInterval,
			RPS:           opts.ClickHouse.RPS,
		})
		j.Start(ctx)
		// runs before chRepo.Close
		defer j.Stop()
		journal = j
	} else {
		logger.Info("movement journal disabled")
	}

	svc, err := ledger.NewBalanceAggregator(
		repo,
		journal,
		retrier,
		metrics.NewPoller("balance_aggregator"),
		ledger.PollerConfig{PollInterval: opts.PollInterval, BatchSize: opts.BatchSize},
		logger,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
