package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// SampleAddresses returns up to limit random address records whose balance
// has not changed for at least settle.
func (r *Repository) SampleAddresses(ctx context.Context, limit int, settle time.Duration) (addresses []model.Address, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("sample_addresses", err, start)
	}()

	if limit <= 0 {
		return nil, nil
	}

	const query = `
SELECT address, sent, received, balance
FROM addresses
WHERE updated_at <= now() - $2::interval
ORDER BY random()
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit, settle)
	if err != nil {
		return nil, fmt.Errorf("query sample addresses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Address
		if err = rows.Scan(&a.Address, &a.Sent, &a.Received, &a.Balance); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return addresses, nil
}
