package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

const insertMovementsQuery = `
INSERT INTO address_movements (
	txid,
	address,
	direction,
	n,
	amount,
	block_index,
	recorded_at
) VALUES`

// InsertMovements appends movements to the journal. Rows repeated with the same
// (txid, direction, n) collapse on merge.
func (r *Repository) InsertMovements(ctx context.Context, movements []model.Movement) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_movements", err, start)
	}()

	if len(movements) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertMovementsQuery)
	if err != nil {
		return fmt.Errorf("prepare movements batch: %w", err)
	}

	for _, m := range movements {
		if err = batch.Append(
			m.TxID,
			m.Address,
			string(m.Direction),
			m.N,
			m.Amount,
			m.BlockIndex,
			m.RecordedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append movement: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}
