package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/safe"
	"github.com/jackc/pgx/v5"
)

const insertTransactionQuery = `
INSERT INTO transactions (
	txid,
	raw,
	blockhash,
	blockindex,
	timestamp,
	confirmations,
	total,
	vout,
	vin,
	fullvin,
	calculated
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, FALSE)
ON CONFLICT (txid) DO NOTHING`

// InsertTransactions stores txs in one database transaction. Transactions whose
// txid already exists are skipped and reported in the result.
func (r *Repository) InsertTransactions(ctx context.Context, txs []model.Transaction) (result model.InsertResult, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_transactions", err, start)
	}()

	if len(txs) == 0 {
		return result, nil
	}

	batch := &pgx.Batch{}
	for _, tx := range txs {
		blockIndex, convErr := safe.Int64(tx.BlockIndex)
		if convErr != nil {
			err = fmt.Errorf("tx %s block index: %w", tx.TxID, convErr)
			return result, err
		}
		vout, encErr := jsonList(tx.Vout)
		if encErr != nil {
			err = fmt.Errorf("encode tx %s outputs: %w", tx.TxID, encErr)
			return result, err
		}
		vin, encErr := jsonList(tx.Vin)
		if encErr != nil {
			err = fmt.Errorf("encode tx %s inputs: %w", tx.TxID, encErr)
			return result, err
		}
		batch.Queue(insertTransactionQuery,
			tx.TxID,
			tx.Raw,
			tx.BlockHash,
			blockIndex,
			tx.Timestamp,
			tx.Confirmations,
			model.SumOutputs(tx.Vout),
			vout,
			vin,
		)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(dbTx pgx.Tx) error {
		results := dbTx.SendBatch(ctx, batch)
		for _, tx := range txs {
			tag, execErr := results.Exec()
			if execErr != nil {
				_ = results.Close()
				return fmt.Errorf("insert transaction %s: %w", tx.TxID, execErr)
			}
			if tag.RowsAffected() == 1 {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
		return results.Close()
	})
	if isUniqueViolation(err) {
		// A duplicate txid means the block is already stored.
		err = nil
		return model.InsertResult{Skipped: len(txs)}, nil
	}
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert transactions: %w", err)
	}
	return result, nil
}
