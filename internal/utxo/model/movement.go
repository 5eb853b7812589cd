package model

import "time"

// Direction tells whether a movement credits or debits an address.
type Direction string

var (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Movement is one journaled balance change. (TxID, Direction, N) identifies it.
type Movement struct {
	TxID       string
	Address    string
	Direction  Direction
	N          uint32
	Amount     int64
	BlockIndex uint64
	RecordedAt time.Time
}
