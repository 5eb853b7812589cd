package model

import "errors"

// ErrConcurrentAggregation is returned when another worker marked some of the
// transactions as calculated first. Nothing is applied in that case.
var ErrConcurrentAggregation = errors.New("transactions already calculated by another worker")

// Address is the running balance of one address. Balance always equals Received - Sent.
type Address struct {
	Address  string
	Sent     int64
	Received int64
	Balance  int64
}

// AddressDelta is an increment applied to an Address record.
type AddressDelta struct {
	Address  string
	Sent     int64
	Received int64
	Balance  int64
}

// Debit records value leaving the address.
func (d *AddressDelta) Debit(amount int64) {
	d.Sent += amount
	d.Balance -= amount
}

// Credit records value arriving at the address.
func (d *AddressDelta) Credit(amount int64) {
	d.Received += amount
	d.Balance += amount
}

// AddressTotals are the sums of journaled movements for one address.
type AddressTotals struct {
	Address  string
	Sent     int64
	Received int64
}
