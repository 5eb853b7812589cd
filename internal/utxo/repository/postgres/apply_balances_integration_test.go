package postgres

import (
	"errors"
	"time"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

func (s *RepositorySuite) seedResolved(txs ...model.Transaction) {
	_, err := s.repo.InsertTransactions(s.testCtx, txs)
	s.Require().NoError(err)
	for i := range txs {
		txs[i].FullVin = true
	}
	s.Require().NoError(s.repo.UpdateInputs(s.testCtx, txs))
}

func (s *RepositorySuite) TestApplyBalances() {
	s.seedResolved(
		newTransaction("d1", 1, []model.Vout{{N: 0, Address: "A", Amount: 1000}}, []model.Vin{{Coinbase: true, Address: model.CoinbaseAddress, Amount: 1000}}),
		newTransaction("d2", 2, []model.Vout{{N: 0, Address: "B", Amount: 1000}}, []model.Vin{{TxID: txid("d1"), Address: "A", Amount: 1000}}),
	)

	err := s.repo.ApplyBalances(s.testCtx, []string{txid("d1"), txid("d2")}, []model.AddressDelta{
		{Address: "B", Received: 1000, Balance: 1000},
		{Address: model.CoinbaseAddress, Sent: 1000, Balance: -1000},
		{Address: "A", Sent: 1000, Received: 1000},
	})
	s.Require().NoError(err)

	s.Equal(model.Address{Address: "A", Sent: 1000, Received: 1000, Balance: 0}, s.address("A"))
	s.Equal(model.Address{Address: "B", Received: 1000, Balance: 1000}, s.address("B"))
	s.Equal(int64(2), s.countRows(`SELECT count(*) FROM transactions WHERE calculated`))

	err = s.repo.ApplyBalances(s.testCtx, []string{txid("d2")}, []model.AddressDelta{{Address: "B", Received: 1000, Balance: 1000}})
	s.Require().Error(err)
	s.True(errors.Is(err, model.ErrConcurrentAggregation))
	s.Equal(model.Address{Address: "B", Received: 1000, Balance: 1000}, s.address("B"))

	sample, err := s.repo.SampleAddresses(s.testCtx, 10, 0)
	s.Require().NoError(err)
	s.Len(sample, 3)

	sample, err = s.repo.SampleAddresses(s.testCtx, 10, time.Hour)
	s.Require().NoError(err)
	s.Empty(sample)
}

func (s *RepositorySuite) TestApplyBalances_PartialOverlapRollsBack() {
	s.seedResolved(
		newTransaction("e1", 1, []model.Vout{{N: 0, Address: "A", Amount: 10}}, []model.Vin{{Coinbase: true, Address: model.CoinbaseAddress, Amount: 10}}),
		newTransaction("e2", 1, []model.Vout{{N: 0, Address: "B", Amount: 20}}, []model.Vin{{Coinbase: true, Address: model.CoinbaseAddress, Amount: 20}}),
	)
	s.Require().NoError(s.repo.ApplyBalances(s.testCtx, []string{txid("e1")}, []model.AddressDelta{{Address: "A", Received: 10, Balance: 10}}))

	err := s.repo.ApplyBalances(s.testCtx, []string{txid("e1"), txid("e2")}, []model.AddressDelta{
		{Address: "A", Received: 10, Balance: 10},
		{Address: "B", Received: 20, Balance: 20},
	})
	s.True(errors.Is(err, model.ErrConcurrentAggregation))

	s.Equal(int64(0), s.countRows(`SELECT count(*) FROM addresses WHERE address = 'B'`))
	s.Equal(int64(0), s.countRows(`SELECT count(*) FROM transactions WHERE txid = $1 AND calculated`, txid("e2")))
	s.Equal(model.Address{Address: "A", Received: 10, Balance: 10}, s.address("A"))
}
