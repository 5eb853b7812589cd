package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

func (s *RepositorySuite) TestInsertMovementsAndAddressTotals() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	movements := []model.Movement{
		{TxID: "t0", Address: model.CoinbaseAddress, Direction: model.DirectionOut, N: 0, Amount: 1000, BlockIndex: 1, RecordedAt: now},
		{TxID: "t0", Address: "A", Direction: model.DirectionIn, N: 0, Amount: 1000, BlockIndex: 1, RecordedAt: now},
		{TxID: "t1", Address: "A", Direction: model.DirectionOut, N: 0, Amount: 1000, BlockIndex: 2, RecordedAt: now},
		{TxID: "t1", Address: "B", Direction: model.DirectionIn, N: 0, Amount: 1000, BlockIndex: 2, RecordedAt: now},
	}

	s.metrics.EXPECT().Observe("insert_movements", gomock.Nil(), gomock.Any()).Times(2)
	s.metrics.EXPECT().Observe("address_totals", gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertMovements(s.testCtx, movements))
	// replayed batch collapses on (txid, direction, n)
	s.Require().NoError(s.repo.InsertMovements(s.testCtx, movements[2:]))

	s.Equal(uint64(len(movements)), s.countRows("address_movements FINAL"))

	got, err := s.repo.AddressTotals(s.testCtx, []string{"A", "B", "missing"})
	s.Require().NoError(err)
	s.Equal(map[string]model.AddressTotals{
		"A": {Address: "A", Sent: 1000, Received: 1000},
		"B": {Address: "B", Sent: 0, Received: 1000},
	}, got)
}
