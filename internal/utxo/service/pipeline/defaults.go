package pipeline

import "time"

const (
	backoffDuration = 5 * time.Second
	// keep well below the broker's claim idle time
	defaultClaimRenewal = 20 * time.Second

	defaultPollInterval = time.Second
	defaultDrainWait    = 30 * time.Second
	defaultBatchSize    = 100

	outcomeAcked        = "acked"
	outcomeDeadLettered = "dead_lettered"
	outcomeFailed       = "failed"
)
