package chain

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// outputResolverChunkSize caps the number of txids sent in one store query.
// It is a var to allow overriding in tests.
var outputResolverChunkSize = 10_000

// OutputResolver finds referenced outputs, preferring transactions seeded from
// the batch being processed over store lookups.
type OutputResolver struct {
	store OutputStore
	local map[string][]model.Vout
}

// NewOutputResolver constructs an OutputResolver backed by store.
func NewOutputResolver(store OutputStore) *OutputResolver {
	return &OutputResolver{
		store: store,
		local: make(map[string][]model.Vout),
	}
}

// Seed makes the outputs of txs available without a store lookup.
func (r *OutputResolver) Seed(txs []model.Transaction) {
	for _, tx := range txs {
		r.local[tx.TxID] = tx.Vout
	}
}

// Load fetches the outputs of every txid that is not seeded yet. Transactions
// the store does not know are remembered as missing.
func (r *OutputResolver) Load(ctx context.Context, txids []string) error {
	missing := make([]string, 0, len(txids))
	seen := make(map[string]struct{}, len(txids))
	for _, txid := range txids {
		if _, ok := r.local[txid]; ok {
			continue
		}
		if _, dup := seen[txid]; dup {
			continue
		}
		seen[txid] = struct{}{}
		missing = append(missing, txid)
	}

	size := outputResolverChunkSize
	if size <= 0 {
		size = 10_000
	}
	for start := 0; start < len(missing); start += size {
		end := min(start+size, len(missing))

		found, err := r.store.OutputsByTxIDs(ctx, missing[start:end])
		if err != nil {
			return fmt.Errorf("query outputs for %d txids: %w", end-start, err)
		}
		for _, txid := range missing[start:end] {
			r.local[txid] = found[txid]
		}
	}
	return nil
}

// Output returns output n of txid if it is known.
func (r *OutputResolver) Output(txid string, n uint32) (model.Vout, bool) {
	for _, out := range r.local[txid] {
		if out.N == n {
			return out, true
		}
	}
	return model.Vout{}, false
}
