// Package bitcoin implements the chain gateway on top of a bitcoind-compatible node.
package bitcoin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

// ToMinorUnits converts an RPC amount to satoshis. The value is formatted with
// eight decimals and the digits are read back, so no float rounding reaches the
// result.
func ToMinorUnits(value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid amount %v", value)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative amount %v", value)
	}

	formatted := strconv.FormatFloat(value, 'f', 8, 64)
	digits := strings.Replace(formatted, ".", "", 1)
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %s out of range: %w", formatted, err)
	}
	return amount, nil
}

// FormatAmount renders satoshis as a BTC string for logs.
func FormatAmount(amount int64) string {
	return btcutil.Amount(amount).String()
}

// GenesisHash returns the genesis block hash of network.
func GenesisHash(network model.Network) (string, error) {
	params, err := chainParamsForNetwork(network)
	if err != nil {
		return "", err
	}
	return params.GenesisHash.String(), nil
}
