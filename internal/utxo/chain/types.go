package chain

import (
	"context"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// OutputStore looks up stored outputs of transactions.
type OutputStore interface {
	OutputsByTxIDs(ctx context.Context, txids []string) (map[string][]model.Vout, error)
}
