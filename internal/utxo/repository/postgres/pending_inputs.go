package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// PendingInputs returns up to limit transactions whose inputs are not fully
// resolved, lowest block first.
func (r *Repository) PendingInputs(ctx context.Context, limit int) (txs []model.Transaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("pending_inputs", err, start)
	}()

	const query = `
SELECT txid, blockindex, vout, vin
FROM transactions
WHERE NOT fullvin
ORDER BY blockindex ASC, txid ASC
LIMIT $1`

	txs, err = r.queryTransactions(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending inputs: %w", err)
	}
	return txs, nil
}

// PendingAggregation returns up to limit resolved transactions that have not
// been applied to address balances yet, lowest block first.
func (r *Repository) PendingAggregation(ctx context.Context, limit int) (txs []model.Transaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("pending_aggregation", err, start)
	}()

	const query = `
SELECT txid, blockindex, vout, vin
FROM transactions
WHERE fullvin AND NOT calculated
ORDER BY blockindex ASC, txid ASC
LIMIT $1`

	txs, err = r.queryTransactions(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending aggregation: %w", err)
	}
	return txs, nil
}

func (r *Repository) queryTransactions(ctx context.Context, query string, limit int) (txs []model.Transaction, err error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tx         model.Transaction
			blockIndex int64
		)
		if err = rows.Scan(&tx.TxID, &blockIndex, &tx.Vout, &tx.Vin); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.BlockIndex = uint64(blockIndex)
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
