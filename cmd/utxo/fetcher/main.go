// Package main implements the spent-UTXO fetcher: it decodes a raw block
// file, resolves every spent output's metadata and coin time, and writes the
// spent_utxos.json artifact plus zstd-compressed copies.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/clock"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/metrics"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/block"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/builder"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/chain"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/cointime"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/compare"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/esplora"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/noderpc"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/store"
)

const (
	rawFileName        = "raw"
	spentUtxosFileName = "spent_utxos.json"
	rawZstFileName     = "raw.zst"
	spentUtxosZstName  = "spent_utxos.zst"

	buildAttempts = 3
	retryBackoff  = 5 * time.Second
)

type config struct {
	EsploraURL  string        `long:"esplora-url" env:"UTXO_FETCHER_ESPLORA_URL" description:"Esplora API base URL" default:"https://blockstream.info/api"`
	EsploraRPS  int           `long:"esplora-rps" env:"UTXO_FETCHER_ESPLORA_RPS" description:"Esplora request budget per second" default:"3"`
	RPCURL      string        `long:"rpc-url" env:"UTXO_FETCHER_RPC_URL" description:"Bitcoin node RPC URL; takes precedence over the Esplora source"`
	RPCUser     string        `long:"rpc-user" env:"UTXO_FETCHER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword string        `long:"rpc-password" env:"UTXO_FETCHER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	HTTPTimeout time.Duration `long:"http-timeout" env:"UTXO_FETCHER_HTTP_TIMEOUT" description:"HTTP timeout for lookup requests" default:"30s"`
	Workers     int           `long:"workers" env:"UTXO_FETCHER_WORKERS" description:"concurrent input resolutions" default:"8"`
	Eq          string        `long:"eq" description:"compare spent_utxos.json against another record file (.json or .zst)"`
	EqStrict    bool          `long:"eq-strict" description:"treat any comparison difference as fatal"`
	MetricsAddr string        `long:"metrics-addr" env:"UTXO_FETCHER_METRICS_ADDR" description:"optional address to expose Prometheus metrics on"`

	Args struct {
		BlockDir  string `positional-arg-name:"BLOCK_DIR" description:"directory containing the raw block file" required:"true"`
		BlockHash string `positional-arg-name:"BLOCK_HASH" description:"optional expected block hash to verify against"`
	} `positional-args:"yes"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("utxo fetcher failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	rawFile := filepath.Join(cfg.Args.BlockDir, rawFileName)
	spentUtxosFile := filepath.Join(cfg.Args.BlockDir, spentUtxosFileName)
	rawZst := filepath.Join(cfg.Args.BlockDir, rawZstFileName)
	spentUtxosZst := filepath.Join(cfg.Args.BlockDir, spentUtxosZstName)

	raw, err := os.ReadFile(rawFile)
	if err != nil {
		return fmt.Errorf("read raw block file: %w", err)
	}
	msg, err := block.Decode(raw)
	if err != nil {
		return err
	}
	if cfg.Args.BlockHash != "" {
		if err := block.VerifyHash(msg, cfg.Args.BlockHash); err != nil {
			return err
		}
		logger.Info("block hash verified", zap.String("hash", cfg.Args.BlockHash))
	}

	// With the record set already built, a comparison request is served
	// without touching the lookup source again.
	if cfg.Eq != "" && fileExists(spentUtxosFile) {
		return compareFiles(logger, spentUtxosFile, cfg.Eq, cfg.EqStrict)
	}

	for _, path := range []string{spentUtxosFile, rawZst, spentUtxosZst} {
		if fileExists(path) {
			return fmt.Errorf("output file %s already exists, refusing to overwrite", path)
		}
	}

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}

	source, closeSource, err := newLookupSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	records, err := buildRecords(ctx, cfg, source, msg, logger)
	if err != nil {
		return err
	}

	if err := store.Save(spentUtxosFile, records); err != nil {
		return err
	}
	logger.Info("spent-UTXO set written",
		zap.String("path", spentUtxosFile),
		zap.Int("records", len(records)),
	)

	if cfg.Eq != "" {
		if err := compareFiles(logger, spentUtxosFile, cfg.Eq, cfg.EqStrict); err != nil {
			return err
		}
	}

	if err := store.CompressFile(rawFile, rawZst); err != nil {
		return err
	}
	if err := store.CompressFile(spentUtxosFile, spentUtxosZst); err != nil {
		return err
	}
	logger.Info("block processed and artifacts compressed",
		zap.String("raw", rawZst),
		zap.String("spent_utxos", spentUtxosZst),
	)
	return nil
}

// buildRecords runs the all-or-nothing build, retrying transient lookup
// failures. Each attempt gets a fresh coin-time cache so a failed run never
// leaks partial state into the next one.
func buildRecords(ctx context.Context, cfg config, source chain.Source, msg *wire.MsgBlock, logger *zap.Logger) ([]model.SpentUtxoRecord, error) {
	fetcherMetrics := metrics.NewFetcher()

	var lastErr error
	for attempt := 1; attempt <= buildAttempts; attempt++ {
		resolver := cointime.NewResolver(source, fetcherMetrics, logger)
		b := builder.New(source, resolver, fetcherMetrics, logger, cfg.Workers)

		records, err := b.Build(ctx, msg)
		if err == nil {
			return records, nil
		}
		if !errors.Is(err, chain.ErrLookupUnavailable) {
			return nil, err
		}

		lastErr = err
		if attempt < buildAttempts {
			logger.Warn("lookup source unavailable, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", retryBackoff),
				zap.Error(err),
			)
			if err := clock.SleepWithContext(ctx, retryBackoff); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("build failed after %d attempts: %w", buildAttempts, lastErr)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func compareFiles(logger *zap.Logger, actualPath, referencePath string, strict bool) error {
	actual, err := store.Load(actualPath)
	if err != nil {
		return fmt.Errorf("load actual records: %w", err)
	}
	reference, err := store.Load(referencePath)
	if err != nil {
		return fmt.Errorf("load reference records: %w", err)
	}

	result := compare.Records(actual, reference)
	if result.Empty() {
		logger.Info("record sets are equal",
			zap.String("actual", actualPath),
			zap.String("reference", referencePath),
		)
		return nil
	}

	logger.Warn("record sets differ",
		zap.Int("field_diffs", len(result.Diffs)),
		zap.Int("missing_in_actual", len(result.MissingInActual)),
		zap.Int("missing_in_reference", len(result.MissingInReference)),
	)
	fmt.Println(result.String())
	if strict {
		return errors.New("record sets differ")
	}
	return nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

func newLookupSource(cfg config, logger *zap.Logger) (chain.Source, func(), error) {
	if cfg.RPCURL != "" {
		rpc, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("init node rpc client: %w", err)
		}
		source := noderpc.NewSource(rpc, metrics.NewLookupClient("noderpc"), logger)
		return source, func() {
			rpc.Shutdown()
			rpc.WaitForShutdown()
		}, nil
	}

	source := esplora.NewClient(cfg.EsploraURL, cfg.HTTPTimeout, cfg.EsploraRPS, metrics.NewLookupClient("esplora"), logger)
	return source, func() {}, nil
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	connCfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	return rpcclient.New(connCfg, nil)
}
