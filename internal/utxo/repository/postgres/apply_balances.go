package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/jackc/pgx/v5"
)

// ApplyBalances marks txids as calculated and adds deltas to the address
// records in one database transaction. If any txid is no longer pending the
// whole call is rolled back and model.ErrConcurrentAggregation is returned.
func (r *Repository) ApplyBalances(ctx context.Context, txids []string, deltas []model.AddressDelta) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("apply_balances", err, start)
	}()

	if len(txids) == 0 {
		return nil
	}

	const markQuery = `
UPDATE transactions
SET calculated = TRUE
WHERE txid = ANY($1) AND fullvin AND NOT calculated`

	const upsertQuery = `
INSERT INTO addresses (address, sent, received, balance, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (address) DO UPDATE SET
	sent = addresses.sent + EXCLUDED.sent,
	received = addresses.received + EXCLUDED.received,
	balance = addresses.balance + EXCLUDED.balance,
	updated_at = EXCLUDED.updated_at`

	// Fixed lock order across workers.
	sorted := append([]model.AddressDelta(nil), deltas...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Address < sorted[j].Address
	})

	err = pgx.BeginFunc(ctx, r.pool, func(dbTx pgx.Tx) error {
		tag, execErr := dbTx.Exec(ctx, markQuery, txids)
		if execErr != nil {
			return fmt.Errorf("mark calculated: %w", execErr)
		}
		if tag.RowsAffected() != int64(len(txids)) {
			return fmt.Errorf("marked %d of %d transactions: %w", tag.RowsAffected(), len(txids), model.ErrConcurrentAggregation)
		}
		if len(sorted) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, d := range sorted {
			batch.Queue(upsertQuery, d.Address, d.Sent, d.Received, d.Balance)
		}
		if execErr := dbTx.SendBatch(ctx, batch).Close(); execErr != nil {
			return fmt.Errorf("upsert addresses: %w", execErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply balances: %w", err)
	}
	return nil
}
