package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/clock"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// Consumer takes messages from one queue, one at a time, and acknowledges each
// only after its handler succeeded. While a handler runs, the claim on its
// message is renewed every claimRenewal.
type Consumer struct {
	broker        Broker
	queue         string
	handler       Handler
	retrier       *retry.Retrier
	metrics       StageMetrics
	logger        *zap.Logger
	sleep         func(context.Context, time.Duration) error
	sleepDuration time.Duration
	claimRenewal  time.Duration
}

// NewConsumer builds a Consumer of queueName. A non-positive claimRenewal uses
// the default.
func NewConsumer(
	broker Broker,
	queueName string,
	handler Handler,
	retrier *retry.Retrier,
	claimRenewal time.Duration,
	metrics StageMetrics,
	logger *zap.Logger,
) (*Consumer, error) {
	if broker == nil {
		return nil, errors.New("consumer broker is required")
	}
	if queueName == "" {
		return nil, errors.New("consumer queue is required")
	}
	if handler == nil {
		return nil, errors.New("consumer handler is required")
	}
	if retrier == nil {
		return nil, errors.New("consumer retrier is required")
	}
	if metrics == nil {
		return nil, errors.New("consumer metrics is required")
	}
	if claimRenewal <= 0 {
		claimRenewal = defaultClaimRenewal
	}

	return &Consumer{
		broker:        broker,
		queue:         queueName,
		handler:       handler,
		retrier:       retrier,
		metrics:       metrics,
		logger:        logger.With(zap.String("queue", queueName)),
		sleep:         clock.SleepWithContext,
		sleepDuration: backoffDuration,
		claimRenewal:  claimRenewal,
	}, nil
}

// Run consumes messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", c.sleepDuration))
			if sleepErr := c.sleep(ctx, c.sleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (c *Consumer) run(ctx context.Context) error {
	d, err := retry.Value(ctx, c.retrier, "receive", func(ctx context.Context) (*queue.Delivery, error) {
		return c.broker.Receive(ctx, c.queue)
	})
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}

	started := time.Now()
	logger := c.logger.With(zap.String("message_id", d.ID))
	if d.Redelivered {
		logger.Info("handling redelivered message")
	}

	renewCtx, stopRenewal := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.renewClaim(renewCtx, *d, logger)
	}()
	handleErr := c.handler.Handle(ctx, *d)
	stopRenewal()
	wg.Wait()

	switch {
	case errors.Is(handleErr, queue.ErrMalformedPayload):
		logger.Warn("dead-lettering malformed message", zap.Error(handleErr))
		if err := c.retrier.Do(ctx, "dead_letter", func(ctx context.Context) error {
			return c.broker.DeadLetter(ctx, *d, handleErr.Error())
		}); err != nil {
			return err
		}
		c.metrics.ObserveMessage(outcomeDeadLettered, started)
		return nil
	case handleErr != nil:
		c.metrics.ObserveMessage(outcomeFailed, started)
		return fmt.Errorf("handle message %s: %w", d.ID, handleErr)
	}

	if err := c.retrier.Do(ctx, "ack", func(ctx context.Context) error {
		return c.broker.Ack(ctx, *d)
	}); err != nil {
		return err
	}
	c.metrics.ObserveMessage(outcomeAcked, started)
	return nil
}

// renewClaim extends the claim on d until ctx is done. A failed renewal is
// retried on the next tick.
func (c *Consumer) renewClaim(ctx context.Context, d queue.Delivery, logger *zap.Logger) {
	ticker := time.NewTicker(c.claimRenewal)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.broker.Extend(ctx, d); err != nil && ctx.Err() == nil {
				logger.Warn("failed to renew message claim", zap.Error(err))
			}
		}
	}
}
