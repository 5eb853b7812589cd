// Package model defines domain models for the UTXO ledger.
package model

// Network names the chain a process indexes.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)
