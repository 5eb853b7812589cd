package bitcoin

import (
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/chain"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/safe"
	"go.uber.org/zap"
)

// Normalizer maps decoded node transactions to the stored transaction shape.
type Normalizer struct {
	decoder *scriptDecoder
	logger  *zap.Logger
}

// NewNormalizer constructs a Normalizer for network.
func NewNormalizer(network model.Network, logger *zap.Logger) (*Normalizer, error) {
	decoder, err := newScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{decoder: decoder, logger: logger}, nil
}

// Normalize converts src. Inputs keep only their references; outputs without a
// spendable address are dropped.
func (n *Normalizer) Normalize(src *btcjson.TxRawResult) (model.Transaction, error) {
	if src == nil {
		return model.Transaction{}, fmt.Errorf("%w: nil transaction", chain.ErrInvalidData)
	}
	txid := strings.ToLower(src.Txid)

	confirmations, err := safe.Int64(src.Confirmations)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: tx %s confirmations: %v", chain.ErrInvalidData, txid, err)
	}

	vout, err := n.outputs(txid, src.Vout)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		TxID:          txid,
		Raw:           src.Hex,
		BlockHash:     strings.ToLower(src.BlockHash),
		Timestamp:     txTime(src),
		Confirmations: confirmations,
		Total:         model.SumOutputs(vout),
		Vout:          vout,
		Vin:           inputs(src.Vin),
	}, nil
}

func (n *Normalizer) outputs(txid string, src []btcjson.Vout) ([]model.Vout, error) {
	result := make([]model.Vout, 0, len(src))
	for _, out := range src {
		if !spendable(out) {
			continue
		}
		amount, err := ToMinorUnits(out.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: tx %s output %d: %v", chain.ErrInvalidData, txid, out.N, err)
		}
		address, err := n.decoder.firstAddress(out)
		if err != nil || address == "" {
			n.logger.Warn("dropping output without address",
				zap.String("txid", txid),
				zap.Uint32("n", out.N),
				zap.String("script_type", out.ScriptPubKey.Type),
				zap.String("value", FormatAmount(amount)),
				zap.Error(err),
			)
			continue
		}
		result = append(result, model.Vout{
			N:       out.N,
			Address: address,
			Amount:  amount,
		})
	}
	return result, nil
}

func inputs(src []btcjson.Vin) []model.Vin {
	result := make([]model.Vin, 0, len(src))
	for _, in := range src {
		if in.IsCoinBase() {
			result = append(result, model.Vin{Coinbase: true})
			continue
		}
		result = append(result, model.Vin{
			TxID: strings.ToLower(in.Txid),
			Vout: in.Vout,
		})
	}
	return result
}

func txTime(src *btcjson.TxRawResult) time.Time {
	ts := src.Blocktime
	if ts == 0 {
		ts = src.Time
	}
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
