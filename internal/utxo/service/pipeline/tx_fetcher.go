package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/chain"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/workerpool"
	"go.uber.org/zap"
)

// TxFetcher loads and normalizes every transaction of a block.
type TxFetcher struct {
	gateway     Gateway
	broker      Broker
	retrier     *retry.Retrier
	out         string
	genesisHash string
	concurrency int
	logger      *zap.Logger
}

// NewTxFetcher builds a TxFetcher publishing to out. The genesis block is
// forwarded without transactions because the node does not serve them.
func NewTxFetcher(
	gateway Gateway,
	broker Broker,
	retrier *retry.Retrier,
	out string,
	genesisHash string,
	concurrency int,
	logger *zap.Logger,
) (*TxFetcher, error) {
	if gateway == nil {
		return nil, errors.New("tx fetcher gateway is required")
	}
	if broker == nil {
		return nil, errors.New("tx fetcher broker is required")
	}
	if retrier == nil {
		return nil, errors.New("tx fetcher retrier is required")
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &TxFetcher{
		gateway:     gateway,
		broker:      broker,
		retrier:     retrier,
		out:         out,
		genesisHash: strings.ToLower(genesisHash),
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Handle enriches one block reference with its normalized transactions.
func (f *TxFetcher) Handle(ctx context.Context, d queue.Delivery) error {
	ref, err := queue.DecodeBlockRef(d.Payload)
	if err != nil {
		return err
	}

	block := queue.EnrichedBlock{BlockRef: ref, Transactions: []model.Transaction{}}
	if strings.ToLower(ref.Hash) == f.genesisHash {
		f.logger.Info("genesis block has no fetchable transactions", zap.String("hash", ref.Hash))
	} else {
		txs, err := workerpool.Map(ctx, f.concurrency, ref.TxIDs, func(ctx context.Context, txid string) (model.Transaction, error) {
			return f.fetch(ctx, ref, txid)
		})
		if err != nil {
			return err
		}
		block.Transactions = txs
	}

	payload, err := queue.Encode(block)
	if err != nil {
		return fmt.Errorf("encode block %s: %w", ref.Hash, err)
	}
	if err := f.retrier.Do(ctx, "publish", func(ctx context.Context) error {
		return f.broker.Publish(ctx, f.out, payload)
	}); err != nil {
		return err
	}

	f.logger.Debug("block transactions fetched",
		zap.Uint64("height", ref.Height),
		zap.String("hash", ref.Hash),
		zap.Int("txs", len(block.Transactions)),
	)
	return nil
}

func (f *TxFetcher) fetch(ctx context.Context, ref queue.BlockRef, txid string) (model.Transaction, error) {
	var invalid error
	tx, err := retry.Value(ctx, f.retrier, "transaction", func(ctx context.Context) (model.Transaction, error) {
		tx, err := f.gateway.Transaction(ctx, txid)
		if errors.Is(err, chain.ErrInvalidData) {
			invalid = err
			return model.Transaction{}, nil
		}
		return tx, err
	})
	if err != nil {
		return model.Transaction{}, err
	}
	if invalid != nil {
		return model.Transaction{}, fmt.Errorf("%w: block %s: %v", queue.ErrMalformedPayload, ref.Hash, invalid)
	}

	if tx.Raw == "" {
		raw, err := retry.Value(ctx, f.retrier, "raw_transaction", func(ctx context.Context) (string, error) {
			return f.gateway.RawTransaction(ctx, txid)
		})
		if err != nil {
			return model.Transaction{}, err
		}
		tx.Raw = raw
	}

	tx.BlockHash = ref.Hash
	tx.BlockIndex = ref.Height
	return tx, nil
}
