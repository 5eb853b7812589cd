package app

import (
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/config"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// RetryMetrics counts failed attempts.
type RetryMetrics interface {
	ObserveFailure(operation string)
}

// NewRetrier builds the retrier shared by a process. Every failed attempt is
// logged with the delay before the next one.
func NewRetrier(cfg config.Retry, metrics RetryMetrics, logger *zap.Logger) *retry.Retrier {
	return retry.New(cfg.Policy(), retry.WithOnFailure(func(operation string, attempt int, delay time.Duration, err error) {
		metrics.ObserveFailure(operation)
		logger.Warn("operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("next_delay", delay),
			zap.Error(err),
		)
	}))
}
