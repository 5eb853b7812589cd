package bitcoin

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/chain"
	"github.com/goodnatureofminers/utxo-ledger-indexer/internal/utxo/model"
	"github.com/goodnatureofminers/utxo-ledger-indexer/pkg/safe"
	"go.uber.org/ratelimit"
)

// Gateway implements chain.Gateway over the node JSON-RPC interface.
type Gateway struct {
	rpc        RPCClient
	limiter    ratelimit.Limiter
	normalizer *Normalizer
}

var _ chain.Gateway = (*Gateway)(nil)

// NewGateway constructs a Gateway. A nil limiter disables rate limiting.
func NewGateway(rpc RPCClient, limiter ratelimit.Limiter, normalizer *Normalizer) *Gateway {
	if limiter == nil {
		limiter = ratelimit.NewUnlimited()
	}
	return &Gateway{
		rpc:        rpc,
		limiter:    limiter,
		normalizer: normalizer,
	}
}

// wait blocks until the limiter admits a call. The rpc client has no context
// support, so cancellation is only observed between calls.
func (g *Gateway) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.limiter.Take()
	return ctx.Err()
}

func (g *Gateway) BlockCount(ctx context.Context) (uint64, error) {
	if err := g.wait(ctx); err != nil {
		return 0, err
	}
	count, err := g.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	return safe.Uint64(count)
}

func (g *Gateway) BlockHash(ctx context.Context, height uint64) (string, error) {
	h, err := safe.Int64(height)
	if err != nil {
		return "", err
	}
	if err := g.wait(ctx); err != nil {
		return "", err
	}
	hash, err := g.rpc.GetBlockHash(h)
	if err != nil {
		return "", fmt.Errorf("get block hash %d: %w", height, err)
	}
	return hash.String(), nil
}

func (g *Gateway) Block(ctx context.Context, hash string) (chain.Block, error) {
	blockHash, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return chain.Block{}, fmt.Errorf("parse block hash %q: %w", hash, err)
	}
	if err := g.wait(ctx); err != nil {
		return chain.Block{}, err
	}
	res, err := g.rpc.GetBlockVerbose(blockHash)
	if err != nil {
		return chain.Block{}, fmt.Errorf("get block %s: %w", hash, err)
	}
	height, err := safe.Uint64(res.Height)
	if err != nil {
		return chain.Block{}, fmt.Errorf("block %s height: %w", hash, err)
	}
	return chain.Block{
		Hash:   res.Hash,
		Height: height,
		TxIDs:  append([]string(nil), res.Tx...),
	}, nil
}

func (g *Gateway) Transaction(ctx context.Context, txid string) (model.Transaction, error) {
	txHash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parse txid %q: %w", txid, err)
	}
	if err := g.wait(ctx); err != nil {
		return model.Transaction{}, err
	}
	res, err := g.rpc.GetRawTransactionVerbose(txHash)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("get transaction %s: %w", txid, err)
	}
	return g.normalizer.Normalize(res)
}

func (g *Gateway) RawTransaction(ctx context.Context, txid string) (string, error) {
	txHash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return "", fmt.Errorf("parse txid %q: %w", txid, err)
	}
	if err := g.wait(ctx); err != nil {
		return "", err
	}
	tx, err := g.rpc.GetRawTransaction(txHash)
	if err != nil {
		return "", fmt.Errorf("get raw transaction %s: %w", txid, err)
	}

	var buf bytes.Buffer
	if err := tx.MsgTx().Serialize(&buf); err != nil {
		return "", fmt.Errorf("serialize transaction %s: %w", txid, err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
