package pipeline

import (
	"context"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/chain"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Handler processes one delivery. Errors wrapping queue.ErrMalformedPayload
	// dead-letter the message; any other error leaves it pending for redelivery.
	Handler interface {
		Handle(ctx context.Context, d queue.Delivery) error
	}

	Broker interface {
		Publish(ctx context.Context, name string, payload []byte) error
		Receive(ctx context.Context, name string) (*queue.Delivery, error)
		Ack(ctx context.Context, d queue.Delivery) error
		DeadLetter(ctx context.Context, d queue.Delivery, reason string) error
		// Extend keeps an in-flight delivery from being claimed by another consumer.
		Extend(ctx context.Context, d queue.Delivery) error
		Depth(ctx context.Context, name string) (int64, error)
		ActiveConsumers(ctx context.Context, name string) (int, error)
		Purge(ctx context.Context, name string) error
	}

	Gateway interface {
		BlockCount(ctx context.Context) (uint64, error)
		BlockHash(ctx context.Context, height uint64) (string, error)
		Block(ctx context.Context, hash string) (chain.Block, error)
		Transaction(ctx context.Context, txid string) (model.Transaction, error)
		RawTransaction(ctx context.Context, txid string) (string, error)
	}

	HeightStore interface {
		SyncedHeights(ctx context.Context) ([]uint64, error)
	}

	TransactionWriter interface {
		InsertTransactions(ctx context.Context, txs []model.Transaction) (model.InsertResult, error)
	}

	StageMetrics interface {
		ObserveMessage(outcome string, started time.Time)
	}

	PollerMetrics interface {
		ObserveCycle(err error, items int, started time.Time)
	}
)
