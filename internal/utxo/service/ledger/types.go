package ledger

import (
	"context"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	InputStore interface {
		PendingInputs(ctx context.Context, limit int) ([]model.Transaction, error)
		OutputsByTxIDs(ctx context.Context, txids []string) (map[string][]model.Vout, error)
		UpdateInputs(ctx context.Context, txs []model.Transaction) error
	}

	BalanceStore interface {
		PendingAggregation(ctx context.Context, limit int) ([]model.Transaction, error)
		ApplyBalances(ctx context.Context, txids []string, deltas []model.AddressDelta) error
	}

	// Journal receives the movements of every aggregated batch. Recording the
	// same movement twice must be harmless.
	Journal interface {
		Record(ctx context.Context, movements []model.Movement) error
	}

	// AddressSampler returns random addresses whose balance has not changed
	// for at least settle.
	AddressSampler interface {
		SampleAddresses(ctx context.Context, limit int, settle time.Duration) ([]model.Address, error)
	}

	JournalTotals interface {
		AddressTotals(ctx context.Context, addresses []string) (map[string]model.AddressTotals, error)
	}

	PollerMetrics interface {
		ObserveCycle(err error, items int, started time.Time)
	}

	ReconcilerMetrics interface {
		ObserveRun(checked, mismatched int)
	}
)
