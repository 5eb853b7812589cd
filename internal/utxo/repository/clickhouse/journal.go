package clickhouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/batcher"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/retry"
	"go.uber.org/zap"
)

// Journal buffers movements and writes them to the journal in the background.
// Writes are retried until they succeed or the journal is drained on shutdown.
// Recording never waits for the writer: while the buffer is full new movements
// are dropped and the reconciler reports the affected addresses.
type Journal struct {
	batcher *batcher.Batcher[model.Movement]
}

// NewJournal constructs a Journal on top of writer.
func NewJournal(writer MovementWriter, retrier *retry.Retrier, logger *zap.Logger, cfg batcher.Config) *Journal {
	flush := func(ctx context.Context, movements []model.Movement) error {
		return retrier.Do(ctx, "journal_insert_movements", func(ctx context.Context) error {
			return writer.InsertMovements(ctx, movements)
		})
	}
	return &Journal{
		batcher: batcher.New(logger.Named("journal"), flush, cfg),
	}
}

// Start begins flushing in the background until ctx is done or Stop is called.
func (j *Journal) Start(ctx context.Context) {
	j.batcher.Start(ctx)
}

// Stop flushes buffered movements and waits for the background loop to exit.
func (j *Journal) Stop() {
	j.batcher.Stop()
}

// Record queues movements for writing. It returns batcher.ErrFull, with the
// number of dropped movements, when the buffer cannot take all of them.
func (j *Journal) Record(ctx context.Context, movements []model.Movement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dropped := 0
	for _, m := range movements {
		switch err := j.batcher.TryAdd(m); {
		case err == nil:
		case errors.Is(err, batcher.ErrFull):
			dropped++
		default:
			return err
		}
	}
	if dropped > 0 {
		return fmt.Errorf("dropped %d of %d movements: %w", dropped, len(movements), batcher.ErrFull)
	}
	return nil
}
