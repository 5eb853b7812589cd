package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/chain"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// BlockFetcher turns a block height into a block reference with its txids.
type BlockFetcher struct {
	gateway Gateway
	broker  Broker
	retrier *retry.Retrier
	out     string
	logger  *zap.Logger
}

// NewBlockFetcher builds a BlockFetcher that publishes to out.
func NewBlockFetcher(gateway Gateway, broker Broker, retrier *retry.Retrier, out string, logger *zap.Logger) (*BlockFetcher, error) {
	if gateway == nil {
		return nil, errors.New("block fetcher gateway is required")
	}
	if broker == nil {
		return nil, errors.New("block fetcher broker is required")
	}
	if retrier == nil {
		return nil, errors.New("block fetcher retrier is required")
	}
	return &BlockFetcher{
		gateway: gateway,
		broker:  broker,
		retrier: retrier,
		out:     out,
		logger:  logger,
	}, nil
}

// Handle fetches the block of one height task and forwards it.
func (f *BlockFetcher) Handle(ctx context.Context, d queue.Delivery) error {
	height, err := queue.DecodeHeight(d.Payload)
	if err != nil {
		return err
	}

	hash, err := retry.Value(ctx, f.retrier, "block_hash", func(ctx context.Context) (string, error) {
		return f.gateway.BlockHash(ctx, height)
	})
	if err != nil {
		return err
	}
	block, err := retry.Value(ctx, f.retrier, "block", func(ctx context.Context) (chain.Block, error) {
		return f.gateway.Block(ctx, hash)
	})
	if err != nil {
		return err
	}

	payload, err := queue.Encode(queue.BlockRef{
		Height: block.Height,
		Hash:   block.Hash,
		TxIDs:  block.TxIDs,
	})
	if err != nil {
		return fmt.Errorf("encode block %d: %w", height, err)
	}
	if err := f.retrier.Do(ctx, "publish", func(ctx context.Context) error {
		return f.broker.Publish(ctx, f.out, payload)
	}); err != nil {
		return err
	}

	f.logger.Debug("block fetched",
		zap.Uint64("height", block.Height),
		zap.String("hash", block.Hash),
		zap.Int("txs", len(block.TxIDs)),
	)
	return nil
}
