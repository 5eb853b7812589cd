// Package ledger derives spendable state from stored transactions: it resolves
// transaction inputs and folds resolved transactions into address balances.
package ledger

import (
	"context"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/clock"
	"go.uber.org/zap"
)

const (
	backoffDuration     = 5 * time.Second
	defaultPollInterval = time.Second
	defaultBatchSize    = 1000
)

// PollerConfig tunes a polling loop.
type PollerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	return c
}

type poller struct {
	interval time.Duration
	metrics  PollerMetrics
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
}

func newPoller(interval time.Duration, metrics PollerMetrics, logger *zap.Logger) poller {
	return poller{
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		sleep:    clock.SleepWithContext,
	}
}

// run calls cycle every interval until ctx is canceled. A failed cycle is
// logged and followed by a longer pause.
func (p poller) run(ctx context.Context, cycle func(context.Context) (int, error)) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		started := time.Now()
		n, err := cycle(ctx)
		p.metrics.ObserveCycle(err, n, started)

		wait := p.interval
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait = backoffDuration
			p.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", wait))
		}
		if err := p.sleep(ctx, wait); err != nil {
			return err
		}
	}
}
