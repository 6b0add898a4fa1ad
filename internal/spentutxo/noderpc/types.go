package noderpc

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// LookupMetrics records metrics for lookup calls.
	LookupMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// RPCClient is the subset of the btcd rpcclient surface the source uses.
	RPCClient interface {
		GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
		GetBlockVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockHeader(blockHash *chainhash.Hash) (*wire.BlockHeader, error)
	}
)
