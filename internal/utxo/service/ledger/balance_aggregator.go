package ledger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// BalanceAggregator folds fully resolved transactions into address balances.
type BalanceAggregator struct {
	store   BalanceStore
	journal Journal
	retrier *retry.Retrier
	cfg     PollerConfig
	logger  *zap.Logger
	poller  poller
	now     func() time.Time
}

// NewBalanceAggregator builds a BalanceAggregator. journal may be nil.
func NewBalanceAggregator(
	store BalanceStore,
	journal Journal,
	retrier *retry.Retrier,
	metrics PollerMetrics,
	cfg PollerConfig,
	logger *zap.Logger,
) (*BalanceAggregator, error) {
	if store == nil {
		return nil, errors.New("balance aggregator store is required")
	}
	if retrier == nil {
		return nil, errors.New("balance aggregator retrier is required")
	}
	if metrics == nil {
		return nil, errors.New("balance aggregator metrics is required")
	}
	cfg = cfg.withDefaults()

	return &BalanceAggregator{
		store:   store,
		journal: journal,
		retrier: retrier,
		cfg:     cfg,
		logger:  logger,
		poller:  newPoller(cfg.PollInterval, metrics, logger),
		now:     time.Now,
	}, nil
}

// Run aggregates every poll interval until the context is canceled.
func (a *BalanceAggregator) Run(ctx context.Context) error {
	a.logger.Info("balance aggregator started",
		zap.Int("batch_size", a.cfg.BatchSize),
		zap.Bool("journal", a.journal != nil),
	)
	return a.poller.run(ctx, a.Aggregate)
}

// Aggregate runs one cycle and returns the number of transactions applied.
// A batch claimed concurrently by another aggregator is left to it.
func (a *BalanceAggregator) Aggregate(ctx context.Context) (int, error) {
	txs, err := retry.Value(ctx, a.retrier, "pending_aggregation", func(ctx context.Context) ([]model.Transaction, error) {
		return a.store.PendingAggregation(ctx, a.cfg.BatchSize)
	})
	if err != nil || len(txs) == 0 {
		return 0, err
	}

	deltas, movements := accumulate(txs, a.now().UTC())
	if a.journal != nil {
		if err := a.journal.Record(ctx, movements); err != nil {
			a.logger.Warn("failed to journal movements", zap.Error(err), zap.Int("movements", len(movements)))
		}
	}

	txids := make([]string, len(txs))
	for i, tx := range txs {
		txids[i] = tx.TxID
	}

	conflict := false
	if err := a.retrier.Do(ctx, "apply_balances", func(ctx context.Context) error {
		err := a.store.ApplyBalances(ctx, txids, deltas)
		if errors.Is(err, model.ErrConcurrentAggregation) {
			conflict = true
			return nil
		}
		return err
	}); err != nil {
		return 0, err
	}
	if conflict {
		a.logger.Info("batch aggregated concurrently, rolled back", zap.Int("txs", len(txs)))
		return 0, nil
	}

	a.logger.Info("aggregated balances",
		zap.Int("txs", len(txs)),
		zap.Int("addresses", len(deltas)),
	)
	return len(txs), nil
}

// accumulate sums the balance changes of txs per address. Inputs debit their
// source address and outputs credit theirs. Deltas are sorted by address.
func accumulate(txs []model.Transaction, recordedAt time.Time) ([]model.AddressDelta, []model.Movement) {
	byAddress := make(map[string]*model.AddressDelta)
	delta := func(address string) *model.AddressDelta {
		d, ok := byAddress[address]
		if !ok {
			d = &model.AddressDelta{Address: address}
			byAddress[address] = d
		}
		return d
	}

	var movements []model.Movement
	for _, tx := range txs {
		for i, in := range tx.Vin {
			delta(in.Address).Debit(in.Amount)
			movements = append(movements, model.Movement{
				TxID:       tx.TxID,
				Address:    in.Address,
				Direction:  model.DirectionOut,
				N:          uint32(i),
				Amount:     in.Amount,
				BlockIndex: tx.BlockIndex,
				RecordedAt: recordedAt,
			})
		}
		for _, out := range tx.Vout {
			delta(out.Address).Credit(out.Amount)
			movements = append(movements, model.Movement{
				TxID:       tx.TxID,
				Address:    out.Address,
				Direction:  model.DirectionIn,
				N:          out.N,
				Amount:     out.Amount,
				BlockIndex: tx.BlockIndex,
				RecordedAt: recordedAt,
			})
		}
	}

	deltas := make([]model.AddressDelta, 0, len(byAddress))
	for _, d := range byAddress {
		deltas = append(deltas, *d)
	}
	slices.SortFunc(deltas, func(a, b model.AddressDelta) int {
		return strings.Compare(a.Address, b.Address)
	})
	return deltas, movements
}
