package postgres

import (
	"context"
	"fmt"
	"time"
)

// SyncedHeights returns the distinct block heights present in the store, ascending.
func (r *Repository) SyncedHeights(ctx context.Context) (heights []uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("synced_heights", err, start)
	}()

	const query = `
SELECT DISTINCT blockindex
FROM transactions
ORDER BY blockindex ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query synced heights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var height int64
		if err = rows.Scan(&height); err != nil {
			return nil, fmt.Errorf("scan synced height: %w", err)
		}
		heights = append(heights, uint64(height))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate synced heights: %w", err)
	}
	return heights, nil
}
