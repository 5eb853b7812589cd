// Package redisstream implements the pipeline queues on top of Redis Streams.
//
// Every queue is one stream read through a shared consumer group. Acknowledged
// entries are deleted, so the stream length equals ready plus in-flight messages.
// Entries left unacknowledged for longer than ClaimIdle are claimed again by
// any consumer of the group.
package redisstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	payloadField = "payload"
	reasonField  = "reason"
	sourceField  = "source_id"

	defaultBlock = 5 * time.Second
)

// Config controls consumer group behaviour.
type Config struct {
	Group         string
	Consumer      string
	Block         time.Duration
	ClaimIdle     time.Duration
	ConsumerStale time.Duration
}

// Broker publishes to and consumes from Redis streams.
type Broker struct {
	client  redis.UniversalClient
	cfg     Config
	metrics Metrics
	logger  *zap.Logger

	mu     sync.Mutex
	groups map[string]struct{}
}

// NewBroker constructs a Broker.
func NewBroker(client redis.UniversalClient, cfg Config, metrics Metrics, logger *zap.Logger) (*Broker, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.Group == "" {
		return nil, errors.New("consumer group is required")
	}
	if cfg.Consumer == "" {
		return nil, errors.New("consumer name is required")
	}
	if metrics == nil {
		return nil, errors.New("broker metrics is required")
	}
	if cfg.Block <= 0 {
		// zero would make XREADGROUP block forever
		cfg.Block = defaultBlock
	}
	if cfg.ClaimIdle < 0 {
		cfg.ClaimIdle = 0
	}
	return &Broker{
		client:  client,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With(zap.String("group", cfg.Group), zap.String("consumer", cfg.Consumer)),
		groups:  make(map[string]struct{}),
	}, nil
}

// Publish appends payload to the queue.
func (b *Broker) Publish(ctx context.Context, name string, payload []byte) (err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("publish", name, err, started)
	}()

	if err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: name,
		Values: map[string]any{payloadField: payload},
	}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", name, err)
	}
	return nil
}

// Receive returns the next message of the queue, preferring abandoned
// deliveries of other consumers. It returns nil when nothing arrived within
// the configured block time.
func (b *Broker) Receive(ctx context.Context, name string) (d *queue.Delivery, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("receive", name, err, started)
	}()

	if err = b.ensureGroup(ctx, name); err != nil {
		return nil, err
	}

	d, err = b.claim(ctx, name)
	if err != nil || d != nil {
		return d, err
	}

	streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    b.cfg.Group,
		Consumer: b.cfg.Consumer,
		Streams:  []string{name, ">"},
		Count:    1,
		Block:    b.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		if isNoGroup(err) {
			b.forgetGroup(name)
		}
		return nil, fmt.Errorf("xreadgroup %s: %w", name, err)
	}
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			return toDelivery(name, msg, false), nil
		}
	}
	return nil, nil
}

func (b *Broker) claim(ctx context.Context, name string) (*queue.Delivery, error) {
	msgs, _, err := b.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   name,
		Group:    b.cfg.Group,
		Consumer: b.cfg.Consumer,
		MinIdle:  b.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if err != nil {
		if isNoGroup(err) {
			b.forgetGroup(name)
		}
		return nil, fmt.Errorf("xautoclaim %s: %w", name, err)
	}
	for _, msg := range msgs {
		if msg.Values == nil {
			continue
		}
		b.logger.Info("claimed abandoned message", zap.String("queue", name), zap.String("id", msg.ID))
		return toDelivery(name, msg, true), nil
	}
	return nil, nil
}

// Ack removes a handled message from the queue.
func (b *Broker) Ack(ctx context.Context, d queue.Delivery) (err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("ack", d.Queue, err, started)
	}()

	if _, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAck(ctx, d.Queue, b.cfg.Group, d.ID)
		pipe.XDel(ctx, d.Queue, d.ID)
		return nil
	}); err != nil {
		return fmt.Errorf("ack %s %s: %w", d.Queue, d.ID, err)
	}
	return nil
}

// Extend resets the idle time of an in-flight message, so it is not claimed
// by another consumer while still being handled.
func (b *Broker) Extend(ctx context.Context, d queue.Delivery) (err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("extend", d.Queue, err, started)
	}()

	ids, err := b.client.XClaimJustID(ctx, &redis.XClaimArgs{
		Stream:   d.Queue,
		Group:    b.cfg.Group,
		Consumer: b.cfg.Consumer,
		MinIdle:  0,
		Messages: []string{d.ID},
	}).Result()
	if err != nil {
		return fmt.Errorf("xclaim %s %s: %w", d.Queue, d.ID, err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("extend %s %s: message is no longer pending", d.Queue, d.ID)
	}
	return nil
}

// DeadLetter moves a message to the dead-letter queue of its source and
// acknowledges it there.
func (b *Broker) DeadLetter(ctx context.Context, d queue.Delivery, reason string) (err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("dead_letter", d.Queue, err, started)
	}()

	if _, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: queue.DeadLetter(d.Queue),
			Values: map[string]any{
				payloadField: d.Payload,
				reasonField:  reason,
				sourceField:  d.ID,
			},
		})
		pipe.XAck(ctx, d.Queue, b.cfg.Group, d.ID)
		pipe.XDel(ctx, d.Queue, d.ID)
		return nil
	}); err != nil {
		return fmt.Errorf("dead-letter %s %s: %w", d.Queue, d.ID, err)
	}
	return nil
}

// Depth returns the number of ready and in-flight messages.
func (b *Broker) Depth(ctx context.Context, name string) (n int64, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("depth", name, err, started)
	}()

	n, err = b.client.XLen(ctx, name).Result()
	if err != nil {
		return 0, fmt.Errorf("xlen %s: %w", name, err)
	}
	return n, nil
}

// ActiveConsumers counts group consumers seen within ConsumerStale.
func (b *Broker) ActiveConsumers(ctx context.Context, name string) (n int, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("active_consumers", name, err, started)
	}()

	consumers, err := b.client.XInfoConsumers(ctx, name, b.cfg.Group).Result()
	if err != nil {
		if isNoGroup(err) || isNoStream(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("xinfo consumers %s: %w", name, err)
	}
	for _, c := range consumers {
		if c.Idle < b.cfg.ConsumerStale {
			n++
		}
	}
	return n, nil
}

// Purge drops every message of the queue, including unacknowledged ones.
func (b *Broker) Purge(ctx context.Context, name string) (err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("purge", name, err, started)
	}()

	if err = b.client.Del(ctx, name).Err(); err != nil {
		return fmt.Errorf("del %s: %w", name, err)
	}
	b.forgetGroup(name)
	return nil
}

func (b *Broker) ensureGroup(ctx context.Context, name string) error {
	b.mu.Lock()
	_, ok := b.groups[name]
	b.mu.Unlock()
	if ok {
		return nil
	}

	err := b.client.XGroupCreateMkStream(ctx, name, b.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group %s on %s: %w", b.cfg.Group, name, err)
	}

	b.mu.Lock()
	b.groups[name] = struct{}{}
	b.mu.Unlock()
	return nil
}

func (b *Broker) forgetGroup(name string) {
	b.mu.Lock()
	delete(b.groups, name)
	b.mu.Unlock()
}

func toDelivery(name string, msg redis.XMessage, redelivered bool) *queue.Delivery {
	var payload []byte
	switch v := msg.Values[payloadField].(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	}
	return &queue.Delivery{
		ID:          msg.ID,
		Queue:       name,
		Payload:     payload,
		Redelivered: redelivered,
	}
}

func isNoGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "NOGROUP")
}

func isNoStream(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such key")
}
