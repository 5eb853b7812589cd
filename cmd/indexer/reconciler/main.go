// Command reconciler compares stored address totals with the movement journal.
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
	Log        config.Log        `group:"log" namespace:"log" env-namespace:"LOG"`
	Metrics    config.Metrics    `group:"metrics" namespace:"metrics" env-namespace:"METRICS"`
	Retry      config.Retry      `group:"retry" namespace:"retry" env-namespace:"RETRY"`
	Postgres   config.Postgres   `group:"postgres" namespace:"postgres" env-namespace:"POSTGRES"`
	ClickHouse config.ClickHouse `group:"clickhouse" namespace:"clickhouse" env-namespace:"CLICKHOUSE"`

	Interval   time.Duration `long:"interval" env:"RECONCILER_INTERVAL" default:"1m" description:"pause between reconciliation runs"`
	SampleSize int           `long:"sample-size" env:"RECONCILER_SAMPLE_SIZE" default:"100" description:"addresses checked per run"`
	Settle     time.Duration `long:"settle" env:"RECONCILER_SETTLE" default:"1m" description:"minimum age of an address's last balance change; keep above the journal flush interval"`
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

	if opts.ClickHouse.DSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger.Named("reconciler")); err != nil && ctx.Err() == nil {
		logger.Fatal("reconciler failed", zap.Error(err))
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

	chRepo, err := app.NewClickhouseRepository(ctx, opts.ClickHouse, retrier)
	if err != nil {
		return fmt.Errorf("init journal repository: %w", err)
	}
	defer func() {
		_ = chRepo.Close()
	}()

	svc, err := ledger.NewReconciler(
		repo,
		chRepo,
		retrier,
		metrics.NewReconciler(),
		ledger.ReconcilerConfig{Interval: opts.Interval, SampleSize: opts.SampleSize, Settle: opts.Settle},
		logger,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
