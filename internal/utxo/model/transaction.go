package model

import "time"

// CoinbaseAddress is the source address recorded for coinbase inputs.
const CoinbaseAddress = "coinbase"

// Vout is a normalized transaction output. Amount is in minor units.
type Vout struct {
	N       uint32 `json:"n"`
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// Vin is a reference to a previous output. Address and Amount are filled by
// input resolution; an empty Address means the input is still unresolved.
type Vin struct {
	Coinbase bool   `json:"coinbase"`
	TxID     string `json:"txid,omitempty"`
	Vout     uint32 `json:"vout"`
	Address  string `json:"address,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
}

// Resolved reports whether the source address of the input is known.
func (v Vin) Resolved() bool {
	return v.Address != ""
}

// Transaction is the stored transaction record.
type Transaction struct {
	TxID          string    `json:"txid"`
	Raw           string    `json:"raw"`
	BlockHash     string    `json:"blockhash"`
	BlockIndex    uint64    `json:"blockindex"`
	Timestamp     time.Time `json:"timestamp"`
	Confirmations int64     `json:"confirmations"`
	Total         int64     `json:"total"`
	Vout          []Vout    `json:"vout"`
	Vin           []Vin     `json:"vin"`
	FullVin       bool      `json:"fullvin"`
	Calculated    bool      `json:"calculated"`
}

// Output returns the output with the given n.
func (t Transaction) Output(n uint32) (Vout, bool) {
	for _, out := range t.Vout {
		if out.N == n {
			return out, true
		}
	}
	return Vout{}, false
}

// AllInputsResolved reports whether every input carries a source address.
func (t Transaction) AllInputsResolved() bool {
	for _, in := range t.Vin {
		if !in.Resolved() {
			return false
		}
	}
	return true
}

// SumOutputs returns the sum of all output amounts.
func SumOutputs(vout []Vout) int64 {
	var total int64
	for _, out := range vout {
		total += out.Amount
	}
	return total
}

// InsertResult reports how a bulk insert was applied.
type InsertResult struct {
	Inserted int
	Skipped  int
}
