// Package chain defines the contracts between the pipeline and the chain node.
package chain

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// ErrInvalidData marks node responses that can never be normalized, such as a
// negative output amount. Retrying the call does not help.
var ErrInvalidData = errors.New("invalid chain data")

// Block is a block header with the ids of its transactions.
type Block struct {
	Hash   string
	Height uint64
	TxIDs  []string
}

// Gateway is the node RPC surface the pipeline relies on.
type Gateway interface {
	// BlockCount returns the height of the chain tip.
	BlockCount(ctx context.Context) (uint64, error)
	BlockHash(ctx context.Context, height uint64) (string, error)
	Block(ctx context.Context, hash string) (Block, error)
	// Transaction returns the normalized transaction. Raw is filled when the
	// node includes the serialized form in its decoded response.
	Transaction(ctx context.Context, txid string) (model.Transaction, error)
	// RawTransaction returns the serialized transaction as hex.
	RawTransaction(ctx context.Context, txid string) (string, error)
}
