package devsdk

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
	"github.com/devnet-tools/sdk/devsdk/jsonrpc"
	"github.com/devnet-tools/sdk/devsdk/receiptstore"
	"github.com/devnet-tools/sdk/devsdk/tx"
)

// Chain is one dev-chain connection. It satisfies jsonrpc.DevBackend by
// delegation, so transaction handles built through it transparently get
// store-first receipt lookups. The connection carries no per-transaction
// state; all of that lives in the handles.
type Chain struct {
	jsonrpc.DevBackend

	store *receiptstore.Store
	cfg   ChainConfig
}

// Connect dials the configured node, sniffs the client variant and opens
// the receipt store when one is configured.
func Connect(ctx context.Context, cfg ChainConfig) (*Chain, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}

	cfg = cfg.withDefaults()

	transport, err := jsonrpc.Dial(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	instrumented := &instrumentedTransport{next: transport}

	var backend jsonrpc.DevBackend
	if cfg.ClientName != "" {
		backend, err = jsonrpc.BackendForClientVersion(instrumented, cfg.ClientName)
	} else {
		backend, err = jsonrpc.SelectBackend(ctx, instrumented)
	}

	if err != nil {
		if closer, ok := transport.(interface{ Close() }); ok {
			closer.Close()
		}

		return nil, err
	}

	chain := &Chain{DevBackend: backend, cfg: cfg}

	if cfg.ReceiptStoreDir != "" {
		chain.store, err = receiptstore.Open(cfg.ReceiptStoreDir)
		if err != nil {
			backend.Close()

			return nil, err
		}
	}

	log.Ctx(ctx).Info().
		Str("url", cfg.URL).
		Str("backend", backend.Name()).
		Bool("receipt_store", chain.store != nil).
		Msg("connected to dev chain")

	return chain, nil
}

// Transaction builds a handle for an already-submitted transaction,
// bound to this connection.
func (c *Chain) Transaction(
	hash common.Hash,
	params evmtypes.TxParams,
	opts tx.Options,
) *tx.Transaction {
	if opts.PollInterval <= 0 {
		opts.PollInterval = c.cfg.PollInterval
	}

	if opts.FastChecks <= 0 {
		opts.FastChecks = c.cfg.WaitFastChecks
	}

	return tx.New(c, hash, params, opts)
}

// Submit sends a transaction and returns its handle in one step.
func (c *Chain) Submit(
	ctx context.Context,
	params evmtypes.TxParams,
	opts tx.Options,
) (*tx.Transaction, error) {
	hash, err := c.SendTransaction(ctx, &params)
	if err != nil {
		return nil, err
	}

	return c.Transaction(hash, params, opts), nil
}

// GetReceipt consults the local store first; mined receipts fetched from
// the node are persisted for later sessions. Pending results are never
// stored.
func (c *Chain) GetReceipt(
	ctx context.Context,
	hash common.Hash,
) (*evmtypes.Receipt, error) {
	if c.store != nil {
		stored, err := c.store.Get(ctx, hash)
		if err != nil {
			return nil, err
		}

		if stored != nil {
			ReceiptStoreHits.Inc()

			return stored, nil
		}

		ReceiptStoreMisses.Inc()
	}

	receipt, err := c.DevBackend.GetReceipt(ctx, hash)
	if err != nil || receipt == nil {
		return receipt, err
	}

	if c.store != nil {
		if err := c.store.Put(ctx, receipt); err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Stringer("tx", hash).
				Msg("failed to persist receipt")
		}
	}

	return receipt, nil
}

// Close releases the transport and the receipt store.
func (c *Chain) Close() {
	c.DevBackend.Close()

	if c.store != nil {
		c.store.Close()
	}
}

// instrumentedTransport counts and times every JSON-RPC call.
type instrumentedTransport struct {
	next jsonrpc.Transport
}

func (t *instrumentedTransport) CallContext(
	ctx context.Context,
	result any,
	method string,
	args ...any,
) error {
	RPCCalls.WithLabelValues(method).Inc()

	start := time.Now()
	defer func() {
		RPCCallDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	return t.next.CallContext(ctx, result, method, args...)
}

// Close releases the wrapped transport so backend Close reaches the
// underlying connection through the instrumentation layer.
func (t *instrumentedTransport) Close() {
	if closer, ok := t.next.(interface{ Close() }); ok {
		closer.Close()
	}
}
