// Package noderpc implements the chain lookup contract against a Bitcoin
// node's JSON-RPC interface.
package noderpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/chain"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
	"github.com/goodnatureofminers/spentutxo7000-backend/pkg/safe"
)

// Source resolves previous outputs and timestamps through a node RPC client,
// instrumented per operation.
type Source struct {
	client  RPCClient
	metrics LookupMetrics
	logger  *zap.Logger
}

// NewSource constructs a Source around an RPC client. The node must run with
// a transaction index for prevout lookups to succeed.
func NewSource(client RPCClient, metrics LookupMetrics, logger *zap.Logger) *Source {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		client:  client,
		metrics: metrics,
		logger:  logger.Named("noderpc"),
	}
}

// FetchPrevout resolves the referenced output via getrawtransaction and its
// confirming height via getblock.
func (s *Source) FetchPrevout(ctx context.Context, outpoint model.Outpoint) (prevout model.Prevout, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("fetch_prevout", err, started)
	}()

	// rpcclient calls are not context-aware; honor cancellation between them.
	if err = ctx.Err(); err != nil {
		return model.Prevout{}, err
	}

	txHash, err := chainhash.NewHashFromStr(outpoint.TxID)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("parse txid %s: %v: %w", outpoint.TxID, err, chain.ErrPrevoutNotFound)
	}

	tx, err := s.client.GetRawTransactionVerbose(txHash)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("get tx %s: %w", outpoint.TxID, wrapRPCError(err, chain.ErrPrevoutNotFound))
	}
	if int(outpoint.Vout) >= len(tx.Vout) {
		return model.Prevout{}, fmt.Errorf("tx %s has no output %d: %w", outpoint.TxID, outpoint.Vout, chain.ErrPrevoutNotFound)
	}
	if tx.BlockHash == "" {
		return model.Prevout{}, fmt.Errorf("tx %s is unconfirmed: %w", outpoint.TxID, chain.ErrPrevoutNotFound)
	}

	vout := tx.Vout[outpoint.Vout]
	value, err := btcToSatoshis(vout.Value)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("tx %s output %d value: %w", outpoint.TxID, outpoint.Vout, err)
	}

	if err = ctx.Err(); err != nil {
		return model.Prevout{}, err
	}
	blockHash, err := chainhash.NewHashFromStr(tx.BlockHash)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("parse block hash %s: %v: %w", tx.BlockHash, err, chain.ErrLookupUnavailable)
	}
	blk, err := s.client.GetBlockVerbose(blockHash)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("get block %s: %w", tx.BlockHash, wrapRPCError(err, chain.ErrPrevoutNotFound))
	}
	height, err := safe.Uint32(blk.Height)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("block %s height overflow: %w", tx.BlockHash, err)
	}

	s.logger.Debug("resolved prevout",
		zap.String("outpoint", outpoint.String()),
		zap.Uint32("height", height),
	)
	return model.Prevout{
		Out:        model.TxOut{Value: value, ScriptPubKey: vout.ScriptPubKey.Hex},
		IsCoinbase: len(tx.Vin) > 0 && tx.Vin[0].IsCoinBase(),
		Height:     height,
	}, nil
}

// FetchBlockTimestamp resolves a header timestamp via getblockhash and
// getblockheader.
func (s *Source) FetchBlockTimestamp(ctx context.Context, height uint32) (timestamp int64, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("fetch_block_timestamp", err, started)
	}()

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	hash, err := s.client.GetBlockHash(int64(height))
	if err != nil {
		return 0, fmt.Errorf("get block hash at height %d: %w", height, wrapRPCError(err, chain.ErrHeightNotFound))
	}
	header, err := s.client.GetBlockHeader(hash)
	if err != nil {
		return 0, fmt.Errorf("get block header %s: %w", hash, wrapRPCError(err, chain.ErrHeightNotFound))
	}
	return header.Timestamp.Unix(), nil
}

// wrapRPCError maps node RPC error codes onto the lookup error taxonomy.
// Anything that is not a definite not-found answer counts as transient.
func wrapRPCError(err error, notFound error) error {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case btcjson.ErrRPCNoTxInfo, btcjson.ErrRPCOutOfRange:
			return fmt.Errorf("%v: %w", err, notFound)
		}
	}
	return fmt.Errorf("%v: %w", err, chain.ErrLookupUnavailable)
}

func btcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	return safe.Uint64(int64(amt))
}

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}
