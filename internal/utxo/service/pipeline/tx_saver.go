package pipeline

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// TxSaver stores the transactions of enriched blocks.
type TxSaver struct {
	store   TransactionWriter
	retrier *retry.Retrier
	logger  *zap.Logger
}

// NewTxSaver builds a TxSaver.
func NewTxSaver(store TransactionWriter, retrier *retry.Retrier, logger *zap.Logger) (*TxSaver, error) {
	if store == nil {
		return nil, errors.New("tx saver store is required")
	}
	if retrier == nil {
		return nil, errors.New("tx saver retrier is required")
	}
	return &TxSaver{store: store, retrier: retrier, logger: logger}, nil
}

// Handle writes every transaction of one block in a single bulk insert.
// Already stored transactions are skipped.
func (s *TxSaver) Handle(ctx context.Context, d queue.Delivery) error {
	block, err := queue.DecodeEnrichedBlock(d.Payload)
	if err != nil {
		return err
	}

	logger := s.logger.With(zap.Uint64("height", block.Height), zap.String("hash", block.Hash))
	if len(block.Transactions) == 0 {
		logger.Info("block has no transactions, nothing to save")
		return nil
	}

	res, err := retry.Value(ctx, s.retrier, "insert_transactions", func(ctx context.Context) (model.InsertResult, error) {
		return s.store.InsertTransactions(ctx, block.Transactions)
	})
	if err != nil {
		return err
	}

	if res.Skipped > 0 {
		logger.Info("block already stored, duplicates skipped",
			zap.Int("inserted", res.Inserted),
			zap.Int("skipped", res.Skipped),
		)
		return nil
	}
	logger.Debug("block saved", zap.Int("inserted", res.Inserted))
	return nil
}
