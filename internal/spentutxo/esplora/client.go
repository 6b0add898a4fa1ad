// Package esplora implements the chain lookup contract against an
// Esplora-style HTTP API (blockstream.info compatible).
package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/chain"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
)

const (
	defaultTimeout = 30 * time.Second
	// defaultRequestsPerSecond keeps the client under public API rate limits.
	defaultRequestsPerSecond = 3
)

// LookupMetrics records metrics for lookup calls.
type LookupMetrics interface {
	Observe(operation string, err error, started time.Time)
}

// Client is a rate-limited Esplora REST client implementing chain.Source.
type Client struct {
	apiURL  string
	client  *http.Client
	rl      ratelimit.Limiter
	metrics LookupMetrics
	logger  *zap.Logger
}

// NewClient constructs a Client for the given API base URL,
// e.g. https://blockstream.info/api.
func NewClient(apiURL string, timeout time.Duration, rps int, metrics LookupMetrics, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL:  strings.TrimSuffix(apiURL, "/"),
		client:  &http.Client{Timeout: timeout},
		rl:      ratelimit.New(rps),
		metrics: metrics,
		logger:  logger.Named("esplora"),
	}
}

type esploraVin struct {
	IsCoinbase bool `json:"is_coinbase"`
}

type esploraVout struct {
	ScriptPubKey string `json:"scriptpubkey"`
	Value        uint64 `json:"value"`
}

type esploraStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint32 `json:"block_height"`
}

type esploraTx struct {
	TxID   string        `json:"txid"`
	Vin    []esploraVin  `json:"vin"`
	Vout   []esploraVout `json:"vout"`
	Status esploraStatus `json:"status"`
}

type esploraBlock struct {
	Timestamp int64 `json:"timestamp"`
}

// FetchPrevout resolves the referenced output, its creation height and
// coinbase flag from GET /tx/{txid}.
func (c *Client) FetchPrevout(ctx context.Context, outpoint model.Outpoint) (prevout model.Prevout, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("fetch_prevout", err, started)
	}()

	status, body, err := c.get(ctx, "/tx/"+outpoint.TxID)
	if err != nil {
		return model.Prevout{}, fmt.Errorf("fetch tx %s: %w", outpoint.TxID, err)
	}
	if status == http.StatusNotFound {
		return model.Prevout{}, fmt.Errorf("tx %s: %w", outpoint.TxID, chain.ErrPrevoutNotFound)
	}
	if status != http.StatusOK {
		return model.Prevout{}, fmt.Errorf("fetch tx %s: status %d: %w", outpoint.TxID, status, chain.ErrLookupUnavailable)
	}

	var tx esploraTx
	if err = json.Unmarshal(body, &tx); err != nil {
		return model.Prevout{}, fmt.Errorf("decode tx %s: %v: %w", outpoint.TxID, err, chain.ErrLookupUnavailable)
	}
	if !tx.Status.Confirmed {
		return model.Prevout{}, fmt.Errorf("tx %s is unconfirmed: %w", outpoint.TxID, chain.ErrPrevoutNotFound)
	}
	if int(outpoint.Vout) >= len(tx.Vout) {
		return model.Prevout{}, fmt.Errorf("tx %s has no output %d: %w", outpoint.TxID, outpoint.Vout, chain.ErrPrevoutNotFound)
	}

	out := tx.Vout[outpoint.Vout]
	c.logger.Debug("resolved prevout",
		zap.String("outpoint", outpoint.String()),
		zap.Uint32("height", tx.Status.BlockHeight),
	)
	return model.Prevout{
		Out:        model.TxOut{Value: out.Value, ScriptPubKey: out.ScriptPubKey},
		IsCoinbase: len(tx.Vin) > 0 && tx.Vin[0].IsCoinbase,
		Height:     tx.Status.BlockHeight,
	}, nil
}

// FetchBlockTimestamp resolves a header timestamp by height using
// GET /block-height/{height} followed by GET /block/{hash}.
func (c *Client) FetchBlockTimestamp(ctx context.Context, height uint32) (timestamp int64, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("fetch_block_timestamp", err, started)
	}()

	status, body, err := c.get(ctx, fmt.Sprintf("/block-height/%d", height))
	if err != nil {
		return 0, fmt.Errorf("fetch block hash at height %d: %w", height, err)
	}
	if status == http.StatusNotFound {
		return 0, fmt.Errorf("height %d: %w", height, chain.ErrHeightNotFound)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("fetch block hash at height %d: status %d: %w", height, status, chain.ErrLookupUnavailable)
	}
	blockHash := strings.TrimSpace(string(body))

	status, body, err = c.get(ctx, "/block/"+blockHash)
	if err != nil {
		return 0, fmt.Errorf("fetch block %s: %w", blockHash, err)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("fetch block %s: status %d: %w", blockHash, status, chain.ErrLookupUnavailable)
	}

	var blk esploraBlock
	if err = json.Unmarshal(body, &blk); err != nil {
		return 0, fmt.Errorf("decode block %s: %v: %w", blockHash, err, chain.ErrLookupUnavailable)
	}
	return blk.Timestamp, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	c.rl.Take()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%v: %w", err, chain.ErrLookupUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %v: %w", err, chain.ErrLookupUnavailable)
	}
	return resp.StatusCode, body, nil
}

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}
