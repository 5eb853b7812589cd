package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// AddressTotals sums the journaled movements of each address. Addresses with no
// movements are absent from the result.
func (r *Repository) AddressTotals(ctx context.Context, addresses []string) (result map[string]model.AddressTotals, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("address_totals", err, start)
	}()

	result = make(map[string]model.AddressTotals, len(addresses))
	if len(addresses) == 0 {
		return result, nil
	}

	const query = `
SELECT
	address,
	sumIf(amount, direction = 'out') AS sent,
	sumIf(amount, direction = 'in') AS received
FROM address_movements FINAL
WHERE address IN ?
GROUP BY address`

	rows, err := r.conn.Query(ctx, query, addresses)
	if err != nil {
		return nil, fmt.Errorf("query address totals: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var totals model.AddressTotals
		if err = rows.Scan(&totals.Address, &totals.Sent, &totals.Received); err != nil {
			return nil, fmt.Errorf("scan address totals: %w", err)
		}
		result[totals.Address] = totals
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address totals: %w", err)
	}

	return result, nil
}
