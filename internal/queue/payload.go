package queue

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
)

const hashLength = 64

// EncodeHeight renders a block task: the height as ASCII decimal.
func EncodeHeight(height uint64) []byte {
	return strconv.AppendUint(nil, height, 10)
}

// DecodeHeight parses a block task payload.
func DecodeHeight(payload []byte) (uint64, error) {
	s := string(payload)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: block height %q is not a decimal number", ErrMalformedPayload, truncate(s))
	}
	height, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: block height: %v", ErrMalformedPayload, err)
	}
	return height, nil
}

// BlockRef is a fetched block header with its transaction ids.
type BlockRef struct {
	Height uint64   `json:"height"`
	Hash   string   `json:"hash"`
	TxIDs  []string `json:"tx"`
}

// Validate checks the schema of a block reference.
func (b BlockRef) Validate() error {
	if !isHash(b.Hash) {
		return fmt.Errorf("%w: block hash %q", ErrMalformedPayload, truncate(b.Hash))
	}
	for i, txid := range b.TxIDs {
		if !isHash(txid) {
			return fmt.Errorf("%w: block %s txid %d %q", ErrMalformedPayload, b.Hash, i, truncate(txid))
		}
	}
	return nil
}

// EnrichedBlock is a block reference with its normalized transactions.
type EnrichedBlock struct {
	BlockRef
	Transactions []model.Transaction `json:"transactions"`
}

// Validate checks the schema of an enriched block.
func (b EnrichedBlock) Validate() error {
	if err := b.BlockRef.Validate(); err != nil {
		return err
	}
	for i, tx := range b.Transactions {
		if !isHash(tx.TxID) {
			return fmt.Errorf("%w: block %s transaction %d txid %q", ErrMalformedPayload, b.Hash, i, truncate(tx.TxID))
		}
		if tx.BlockHash != b.Hash || tx.BlockIndex != b.Height {
			return fmt.Errorf("%w: transaction %s does not belong to block %s", ErrMalformedPayload, tx.TxID, b.Hash)
		}
		for _, out := range tx.Vout {
			if out.Amount < 0 || out.Address == "" {
				return fmt.Errorf("%w: transaction %s output %d", ErrMalformedPayload, tx.TxID, out.N)
			}
		}
		for j, in := range tx.Vin {
			if !in.Coinbase && !isHash(in.TxID) {
				return fmt.Errorf("%w: transaction %s input %d", ErrMalformedPayload, tx.TxID, j)
			}
		}
	}
	return nil
}

// Encode marshals v as JSON.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeBlockRef parses and validates a blocks-to-fetch-txs payload.
func DecodeBlockRef(payload []byte) (BlockRef, error) {
	var ref BlockRef
	if err := decodeStrict(payload, &ref); err != nil {
		return BlockRef{}, err
	}
	return ref, ref.Validate()
}

// DecodeEnrichedBlock parses and validates a blocks-to-save payload.
func DecodeEnrichedBlock(payload []byte) (EnrichedBlock, error) {
	var block EnrichedBlock
	if err := decodeStrict(payload, &block); err != nil {
		return EnrichedBlock{}, err
	}
	return block, block.Validate()
}

func decodeStrict(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformedPayload)
	}
	return nil
}

func isHash(s string) bool {
	if len(s) != hashLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func truncate(s string) string {
	const limit = 80
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
