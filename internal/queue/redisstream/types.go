package redisstream

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records broker call outcomes.
	Metrics interface {
		Observe(operation, queue string, err error, started time.Time)
	}
)
