package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/config"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/metrics"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/queue/redisstream"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/repository/clickhouse"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/repository/postgres"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis. The first ping is retried until the
// server answers or ctx is done.
func NewRedisClient(ctx context.Context, cfg config.Redis, retrier *retry.Retrier) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	err = retrier.Do(ctx, "connect_redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewPostgresRepository opens the primary store and waits until it accepts
// connections.
func NewPostgresRepository(ctx context.Context, cfg config.Postgres, retrier *retry.Retrier) (*postgres.Repository, error) {
	repo, err := postgres.NewRepository(ctx, cfg.DSN, cfg.MaxConns, metrics.NewPostgresRepository())
	if err != nil {
		return nil, err
	}
	if err := retrier.Do(ctx, "connect_postgres", repo.Ping); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// NewClickhouseRepository opens the movement journal store and waits until it
// answers.
func NewClickhouseRepository(ctx context.Context, cfg config.ClickHouse, retrier *retry.Retrier) (*clickhouse.Repository, error) {
	repo, err := clickhouse.NewRepository(cfg.DSN, metrics.NewClickhouseRepository())
	if err != nil {
		return nil, err
	}
	if err := retrier.Do(ctx, "connect_clickhouse", repo.Ping); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

// NewBroker builds the queue broker of one worker.
func NewBroker(client redis.UniversalClient, cfg config.Redis, logger *zap.Logger) (*redisstream.Broker, error) {
	return redisstream.NewBroker(client, redisstream.Config{
		Group:         cfg.Group,
		Consumer:      ConsumerName(cfg.Consumer),
		Block:         cfg.Block,
		ClaimIdle:     cfg.ClaimIdle,
		ConsumerStale: cfg.ConsumerStale,
	}, metrics.NewBroker(), logger.Named("broker"))
}

// NewRPCClient creates a node client in HTTP POST mode.
func NewRPCClient(cfg config.RPC) (*rpcclient.Client, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         cfg.User,
		Pass:         cfg.Password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

// NewGateway builds the instrumented and rate limited chain gateway on top of
// client.
func NewGateway(client *rpcclient.Client, rpc config.RPC, chain config.Chain, logger *zap.Logger) (*bitcoin.Gateway, error) {
	normalizer, err := bitcoin.NewNormalizer(chain.Network, logger.Named("normalizer"))
	if err != nil {
		return nil, fmt.Errorf("init normalizer: %w", err)
	}
	observed := bitcoin.NewRPCClient(client, metrics.NewRPCClient(chain.Network))

	var limiter ratelimit.Limiter
	if rpc.RPS > 0 {
		limiter = ratelimit.New(rpc.RPS)
	}
	return bitcoin.NewGateway(observed, limiter, normalizer), nil
}

// GenesisHash returns the configured genesis hash or the network default.
func GenesisHash(chain config.Chain) (string, error) {
	if chain.GenesisHash != "" {
		return chain.GenesisHash, nil
	}
	return bitcoin.GenesisHash(chain.Network)
}
