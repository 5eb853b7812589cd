// Package queue defines the queues that connect the pipeline stages and the
// payload schemas carried on them.
package queue

import "errors"

// ErrMalformedPayload marks a message whose payload violates its schema.
// Such messages can never succeed and are dead-lettered.
var ErrMalformedPayload = errors.New("malformed payload")

const (
	fetchBlocks      = "indexer.queues.fetch-blocks"
	blocksToFetchTxs = "indexer.queues.blocks-to-fetch-txs"
	blocksToSave     = "indexer.queues.blocks-to-save"

	deadLetterSuffix = ".dead-letter"
)

// Names holds the fully qualified queue names of one deployment.
type Names struct {
	FetchBlocks      string
	BlocksToFetchTxs string
	BlocksToSave     string
}

// NewNames prefixes the queue names with prefix.
func NewNames(prefix string) Names {
	return Names{
		FetchBlocks:      prefix + fetchBlocks,
		BlocksToFetchTxs: prefix + blocksToFetchTxs,
		BlocksToSave:     prefix + blocksToSave,
	}
}

// All lists every queue in pipeline order.
func (n Names) All() []string {
	return []string{n.FetchBlocks, n.BlocksToFetchTxs, n.BlocksToSave}
}

// DeadLetter returns the dead-letter queue of name.
func DeadLetter(name string) string {
	return name + deadLetterSuffix
}

// Delivery is one received message. It must be acknowledged or dead-lettered
// to be removed from its queue; otherwise it is redelivered.
type Delivery struct {
	ID          string
	Queue       string
	Payload     []byte
	Redelivered bool
}
