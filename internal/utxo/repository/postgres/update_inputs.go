package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/jackc/pgx/v5"
)

// UpdateInputs writes the resolved inputs and fullvin flag of txs in a single
// batch. Transactions already marked fullvin are left untouched.
func (r *Repository) UpdateInputs(ctx context.Context, txs []model.Transaction) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("update_inputs", err, start)
	}()

	if len(txs) == 0 {
		return nil
	}

	const query = `
UPDATE transactions
SET vin = $2, fullvin = $3
WHERE txid = $1 AND NOT fullvin`

	batch := &pgx.Batch{}
	for _, tx := range txs {
		vin, encErr := jsonList(tx.Vin)
		if encErr != nil {
			err = fmt.Errorf("encode tx %s inputs: %w", tx.TxID, encErr)
			return err
		}
		batch.Queue(query, tx.TxID, vin, tx.FullVin)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(dbTx pgx.Tx) error {
		return dbTx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("update inputs: %w", err)
	}
	return nil
}
