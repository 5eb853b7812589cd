package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/clock"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// TaskPreparerConfig tunes the preparation loop.
type TaskPreparerConfig struct {
	// PollInterval is the pause between preparation cycles.
	PollInterval time.Duration
	// BatchSize caps the number of heights enqueued per cycle.
	BatchSize int
	// DrainWait bounds how long a stale queue may drain before it is purged.
	DrainWait time.Duration
}

func (c TaskPreparerConfig) withDefaults() TaskPreparerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.DrainWait <= 0 {
		c.DrainWait = defaultDrainWait
	}
	return c
}

// TaskPreparer enqueues block heights that are not in the store yet.
// It owns the set of heights known to be synced or already enqueued.
type TaskPreparer struct {
	gateway Gateway
	store   HeightStore
	broker  Broker
	retrier *retry.Retrier
	metrics PollerMetrics
	queues  queue.Names
	cfg     TaskPreparerConfig
	logger  *zap.Logger
	sleep   func(context.Context, time.Duration) error

	synced map[uint64]struct{}
	// every height below lowest is in synced
	lowest uint64
}

// NewTaskPreparer builds a TaskPreparer.
func NewTaskPreparer(
	gateway Gateway,
	store HeightStore,
	broker Broker,
	retrier *retry.Retrier,
	metrics PollerMetrics,
	queues queue.Names,
	cfg TaskPreparerConfig,
	logger *zap.Logger,
) (*TaskPreparer, error) {
	if gateway == nil {
		return nil, errors.New("task preparer gateway is required")
	}
	if store == nil {
		return nil, errors.New("task preparer store is required")
	}
	if broker == nil {
		return nil, errors.New("task preparer broker is required")
	}
	if retrier == nil {
		return nil, errors.New("task preparer retrier is required")
	}
	if metrics == nil {
		return nil, errors.New("task preparer metrics is required")
	}

	return &TaskPreparer{
		gateway: gateway,
		store:   store,
		broker:  broker,
		retrier: retrier,
		metrics: metrics,
		queues:  queues,
		cfg:     cfg.withDefaults(),
		logger:  logger,
		sleep:   clock.SleepWithContext,
		synced:  make(map[uint64]struct{}),
	}, nil
}

// Run purges abandoned queues, loads the synced heights and then prepares
// tasks every poll interval until the context is canceled.
func (p *TaskPreparer) Run(ctx context.Context) error {
	if err := p.purgeStaleQueues(ctx); err != nil {
		return err
	}
	if err := p.seed(ctx); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		started := time.Now()
		n, err := p.Prepare(ctx)
		p.metrics.ObserveCycle(err, n, started)
		if err != nil {
			return err
		}
		if n > 0 {
			p.logger.Info("enqueued block heights", zap.Int("count", n))
		}
		if err := p.sleep(ctx, p.cfg.PollInterval); err != nil {
			return err
		}
	}
}

func (p *TaskPreparer) seed(ctx context.Context) error {
	heights, err := retry.Value(ctx, p.retrier, "synced_heights", p.store.SyncedHeights)
	if err != nil {
		return err
	}
	for _, h := range heights {
		p.synced[h] = struct{}{}
	}
	p.advanceLowest()
	p.logger.Info("loaded synced heights", zap.Int("count", len(heights)), zap.Uint64("lowest_missing", p.lowest))
	return nil
}

// Prepare runs one cycle. Nothing is enqueued while the fetch queue still has
// messages. It returns the number of enqueued heights.
func (p *TaskPreparer) Prepare(ctx context.Context) (int, error) {
	depth, err := retry.Value(ctx, p.retrier, "queue_depth", func(ctx context.Context) (int64, error) {
		return p.broker.Depth(ctx, p.queues.FetchBlocks)
	})
	if err != nil {
		return 0, err
	}
	if depth > 0 {
		p.logger.Debug("fetch queue not drained yet", zap.Int64("depth", depth))
		return 0, nil
	}

	tip, err := retry.Value(ctx, p.retrier, "block_count", p.gateway.BlockCount)
	if err != nil {
		return 0, err
	}

	heights := p.missing(tip)
	for _, h := range heights {
		if err := p.retrier.Do(ctx, "publish", func(ctx context.Context) error {
			return p.broker.Publish(ctx, p.queues.FetchBlocks, queue.EncodeHeight(h))
		}); err != nil {
			return 0, err
		}
		p.synced[h] = struct{}{}
	}
	p.advanceLowest()
	return len(heights), nil
}

// missing returns up to BatchSize heights in [0, tip] that are not synced, ascending.
func (p *TaskPreparer) missing(tip uint64) []uint64 {
	var heights []uint64
	for h := p.lowest; h <= tip && len(heights) < p.cfg.BatchSize; h++ {
		if _, ok := p.synced[h]; ok {
			continue
		}
		heights = append(heights, h)
		if h == ^uint64(0) {
			break
		}
	}
	return heights
}

func (p *TaskPreparer) advanceLowest() {
	for {
		if _, ok := p.synced[p.lowest]; !ok {
			return
		}
		delete(p.synced, p.lowest)
		p.lowest++
	}
}

// purgeStaleQueues removes messages left in queues nobody consumes anymore.
// Queues get DrainWait to drain or regain a consumer first.
func (p *TaskPreparer) purgeStaleQueues(ctx context.Context) error {
	for _, name := range p.queues.All() {
		logger := p.logger.With(zap.String("queue", name))

		stale, err := p.stale(ctx, name)
		if err != nil {
			return err
		}
		if !stale {
			continue
		}

		logger.Warn("queue has messages but no consumers, waiting for it to drain", zap.Duration("wait", p.cfg.DrainWait))
		recovered, err := clock.Poll(ctx, p.cfg.PollInterval, p.cfg.DrainWait, func(ctx context.Context) (bool, error) {
			stale, err := p.stale(ctx, name)
			return !stale, err
		})
		if err != nil {
			return err
		}
		if recovered {
			logger.Info("queue recovered")
			continue
		}

		if err := p.retrier.Do(ctx, "purge", func(ctx context.Context) error {
			return p.broker.Purge(ctx, name)
		}); err != nil {
			return err
		}
		logger.Warn("purged stale queue")
	}
	return nil
}

func (p *TaskPreparer) stale(ctx context.Context, name string) (bool, error) {
	depth, err := retry.Value(ctx, p.retrier, "queue_depth", func(ctx context.Context) (int64, error) {
		return p.broker.Depth(ctx, name)
	})
	if err != nil || depth == 0 {
		return false, err
	}
	consumers, err := retry.Value(ctx, p.retrier, "active_consumers", func(ctx context.Context) (int, error) {
		return p.broker.ActiveConsumers(ctx, name)
	})
	if err != nil {
		return false, err
	}
	return consumers == 0, nil
}
