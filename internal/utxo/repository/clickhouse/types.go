package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// MovementWriter persists a batch of movements.
	MovementWriter interface {
		InsertMovements(ctx context.Context, movements []model.Movement) error
	}
)
