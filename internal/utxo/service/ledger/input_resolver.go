package ledger

import (
	"context"
	"errors"
	"slices"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/chain"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// InputResolver fills the source address and amount of stored transaction
// inputs from the outputs they spend.
type InputResolver struct {
	store   InputStore
	retrier *retry.Retrier
	cfg     PollerConfig
	logger  *zap.Logger
	poller  poller
}

// NewInputResolver builds an InputResolver.
func NewInputResolver(store InputStore, retrier *retry.Retrier, metrics PollerMetrics, cfg PollerConfig, logger *zap.Logger) (*InputResolver, error) {
	if store == nil {
		return nil, errors.New("input resolver store is required")
	}
	if retrier == nil {
		return nil, errors.New("input resolver retrier is required")
	}
	if metrics == nil {
		return nil, errors.New("input resolver metrics is required")
	}
	cfg = cfg.withDefaults()

	return &InputResolver{
		store:   store,
		retrier: retrier,
		cfg:     cfg,
		logger:  logger,
		poller:  newPoller(cfg.PollInterval, metrics, logger),
	}, nil
}

// Run resolves inputs every poll interval until the context is canceled.
func (r *InputResolver) Run(ctx context.Context) error {
	r.logger.Info("input resolver started", zap.Int("batch_size", r.cfg.BatchSize))
	return r.poller.run(ctx, r.Resolve)
}

// Resolve runs one cycle over the oldest transactions with unresolved inputs.
// It returns the number of transactions written back.
func (r *InputResolver) Resolve(ctx context.Context) (int, error) {
	txs, err := retry.Value(ctx, r.retrier, "pending_inputs", func(ctx context.Context) ([]model.Transaction, error) {
		return r.store.PendingInputs(ctx, r.cfg.BatchSize)
	})
	if err != nil || len(txs) == 0 {
		return 0, err
	}

	outputs := chain.NewOutputResolver(retryingOutputs{store: r.store, retrier: r.retrier})
	outputs.Seed(txs)
	if err := outputs.Load(ctx, referencedTxIDs(txs)); err != nil {
		return 0, err
	}

	updated := make([]model.Transaction, 0, len(txs))
	pending := 0
	for _, tx := range txs {
		progress := resolveInputs(&tx, outputs)
		tx.FullVin = tx.AllInputsResolved()
		if !tx.FullVin {
			pending++
		}
		if progress || tx.FullVin {
			updated = append(updated, tx)
		}
	}
	if len(updated) == 0 {
		r.logger.Debug("no inputs resolvable yet", zap.Int("pending", pending))
		return 0, nil
	}

	if err := r.retrier.Do(ctx, "update_inputs", func(ctx context.Context) error {
		return r.store.UpdateInputs(ctx, updated)
	}); err != nil {
		return 0, err
	}

	r.logger.Info("resolved transaction inputs",
		zap.Int("loaded", len(txs)),
		zap.Int("updated", len(updated)),
		zap.Int("still_pending", pending),
	)
	return len(updated), nil
}

// referencedTxIDs lists the transactions spent by unresolved inputs.
func referencedTxIDs(txs []model.Transaction) []string {
	var txids []string
	for _, tx := range txs {
		for _, in := range tx.Vin {
			if in.Coinbase || in.Resolved() {
				continue
			}
			txids = append(txids, in.TxID)
		}
	}
	return txids
}

// resolveInputs fills every input of tx that can be resolved and reports
// whether any input changed. Coinbase inputs take the amount of the output at
// the same position of tx itself, or zero when there is none.
func resolveInputs(tx *model.Transaction, outputs *chain.OutputResolver) bool {
	vin := slices.Clone(tx.Vin)
	progress := false
	for i, in := range vin {
		if in.Resolved() {
			continue
		}
		if in.Coinbase {
			in.Address = model.CoinbaseAddress
			in.Amount = 0
			if i < len(tx.Vout) {
				in.Amount = tx.Vout[i].Amount
			}
		} else {
			out, ok := outputs.Output(in.TxID, in.Vout)
			if !ok {
				continue
			}
			in.Address = out.Address
			in.Amount = out.Amount
		}
		vin[i] = in
		progress = true
	}
	tx.Vin = vin
	return progress
}

type retryingOutputs struct {
	store   InputStore
	retrier *retry.Retrier
}

func (o retryingOutputs) OutputsByTxIDs(ctx context.Context, txids []string) (map[string][]model.Vout, error) {
	return retry.Value(ctx, o.retrier, "outputs_by_txids", func(ctx context.Context) (map[string][]model.Vout, error) {
		return o.store.OutputsByTxIDs(ctx, txids)
	})
}
