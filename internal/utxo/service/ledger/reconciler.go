package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/clock"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

const (
	defaultReconcileInterval = time.Minute
	defaultSampleSize        = 100
	defaultSettle            = time.Minute
)

// ReconcilerConfig tunes the Reconciler.
type ReconcilerConfig struct {
	Interval   time.Duration
	SampleSize int
	// Settle skips addresses changed more recently than this; it must exceed
	// the journal flush interval.
	Settle time.Duration
}

// Reconciler compares stored address totals with the movement journal. It
// only reports differences.
type Reconciler struct {
	store   AddressSampler
	journal JournalTotals
	retrier *retry.Retrier
	metrics ReconcilerMetrics
	cfg     ReconcilerConfig
	logger  *zap.Logger
	sleep   func(context.Context, time.Duration) error
}

// NewReconciler builds a Reconciler.
func NewReconciler(
	store AddressSampler,
	journal JournalTotals,
	retrier *retry.Retrier,
	metrics ReconcilerMetrics,
	cfg ReconcilerConfig,
	logger *zap.Logger,
) (*Reconciler, error) {
	if store == nil {
		return nil, errors.New("reconciler store is required")
	}
	if journal == nil {
		return nil, errors.New("reconciler journal is required")
	}
	if retrier == nil {
		return nil, errors.New("reconciler retrier is required")
	}
	if metrics == nil {
		return nil, errors.New("reconciler metrics is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultReconcileInterval
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = defaultSampleSize
	}
	if cfg.Settle <= 0 {
		cfg.Settle = defaultSettle
	}

	return &Reconciler{
		store:   store,
		journal: journal,
		retrier: retrier,
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
		sleep:   clock.SleepWithContext,
	}, nil
}

// Run reconciles a fresh sample every interval until the context is canceled.
func (r *Reconciler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := r.Reconcile(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("reconciliation failed", zap.Error(err))
		}
		if err := r.sleep(ctx, r.cfg.Interval); err != nil {
			return err
		}
	}
}

// Reconcile checks one random sample of settled addresses and returns the
// mismatches.
func (r *Reconciler) Reconcile(ctx context.Context) ([]model.Address, error) {
	sample, err := retry.Value(ctx, r.retrier, "sample_addresses", func(ctx context.Context) ([]model.Address, error) {
		return r.store.SampleAddresses(ctx, r.cfg.SampleSize, r.cfg.Settle)
	})
	if err != nil {
		return nil, err
	}
	if len(sample) == 0 {
		r.metrics.ObserveRun(0, 0)
		return nil, nil
	}

	addresses := make([]string, len(sample))
	for i, a := range sample {
		addresses[i] = a.Address
	}
	totals, err := retry.Value(ctx, r.retrier, "address_totals", func(ctx context.Context) (map[string]model.AddressTotals, error) {
		return r.journal.AddressTotals(ctx, addresses)
	})
	if err != nil {
		return nil, err
	}

	var mismatched []model.Address
	for _, a := range sample {
		t := totals[a.Address]
		if t.Sent == a.Sent && t.Received == a.Received {
			continue
		}
		mismatched = append(mismatched, a)
		r.logger.Warn("address totals differ from journal",
			zap.String("address", a.Address),
			zap.Int64("sent", a.Sent),
			zap.Int64("journal_sent", t.Sent),
			zap.Int64("received", a.Received),
			zap.Int64("journal_received", t.Received),
		)
	}

	r.metrics.ObserveRun(len(sample), len(mismatched))
	r.logger.Info("reconciliation finished", zap.Int("checked", len(sample)), zap.Int("mismatched", len(mismatched)))
	return mismatched, nil
}
