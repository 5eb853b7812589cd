package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// OutputsByTxIDs returns the stored outputs of the given transactions in a
// single query. Unknown txids are absent from the result.
func (r *Repository) OutputsByTxIDs(ctx context.Context, txids []string) (result map[string][]model.Vout, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("outputs_by_txids", err, start)
	}()

	result = make(map[string][]model.Vout, len(txids))
	if len(txids) == 0 {
		return result, nil
	}

	const query = `
SELECT txid, vout
FROM transactions
WHERE txid = ANY($1)`

	rows, err := r.pool.Query(ctx, query, txids)
	if err != nil {
		return nil, fmt.Errorf("query outputs by txids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			txid string
			vout []model.Vout
		)
		if err = rows.Scan(&txid, &vout); err != nil {
			return nil, fmt.Errorf("scan outputs: %w", err)
		}
		result[txid] = vout
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return result, nil
}
