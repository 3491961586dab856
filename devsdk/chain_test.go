package devsdk

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"github.com/ledgerwatch/erigon-lib/kv"
	"github.com/ledgerwatch/erigon-lib/kv/memdb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
	"github.com/devnet-tools/sdk/devsdk/jsonrpc"
	"github.com/devnet-tools/sdk/devsdk/receiptstore"
	"github.com/devnet-tools/sdk/devsdk/tx"
)

// fakeTransport routes each method to a canned result. A nil result plays
// back as a JSON null, which the backends read as "still pending".
type fakeTransport struct {
	results map[string]any
	calls   map[string]int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		results: make(map[string]any),
		calls:   make(map[string]int),
	}
}

func (f *fakeTransport) CallContext(
	_ context.Context,
	result any,
	method string,
	_ ...any,
) error {
	f.calls[method]++

	canned, ok := f.results[method]
	if !ok || canned == nil {
		return nil
	}

	encoded, err := json.Marshal(canned)
	if err != nil {
		return err
	}

	return json.Unmarshal(encoded, result)
}

func newTestChain(t *testing.T, transport jsonrpc.Transport) *Chain {
	t.Helper()

	db := memdb.NewTestDB(t)

	err := db.Update(context.Background(), func(txn kv.RwTx) error {
		return txn.CreateBucket(receiptstore.ReceiptBucket)
	})
	require.NoError(t, err)

	return &Chain{
		DevBackend: jsonrpc.NewAnvilBackend(transport),
		store:      receiptstore.NewWithDB(db),
		cfg:        ChainConfig{URL: "http://127.0.0.1:8545"}.withDefaults(),
	}
}

var testTxHash = common.HexToHash(
	"0x0abc000000000000000000000000000000000000000000000000000000000abc",
)

func wireReceipt(status string) map[string]any {
	return map[string]any{
		"transactionHash":   testTxHash.Hex(),
		"status":            status,
		"gasUsed":           "0x5208",
		"cumulativeGasUsed": "0xa410",
		"blockHash":         common.HexToHash("0xb10c").Hex(),
		"blockNumber":       "0x10",
		"transactionIndex":  "0x0",
		"logs":              []any{},
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := ChainConfig{URL: "http://127.0.0.1:8545"}.withDefaults()

	assert.Equal(t, tx.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, tx.DefaultFastChecks, cfg.WaitFastChecks)

	custom := ChainConfig{
		URL:            "http://127.0.0.1:8545",
		PollInterval:   time.Second,
		WaitFastChecks: 3,
	}.withDefaults()

	assert.Equal(t, time.Second, custom.PollInterval)
	assert.Equal(t, 3, custom.WaitFastChecks)
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), ChainConfig{})
	require.ErrorIs(t, err, ErrMissingURL)
}

func TestGetReceiptPersistsMined(t *testing.T) {
	ctx := context.Background()

	transport := newFakeTransport()
	transport.results["eth_getTransactionReceipt"] = wireReceipt("0x1")

	chain := newTestChain(t, transport)

	receipt, err := chain.GetReceipt(ctx, testTxHash)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Succeeded())
	assert.Equal(t, 1, transport.calls["eth_getTransactionReceipt"])

	// second lookup is answered from the store, the node is not consulted
	again, err := chain.GetReceipt(ctx, testTxHash)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, receipt.TxHash, again.TxHash)
	assert.Equal(t, 1, transport.calls["eth_getTransactionReceipt"])
}

func TestGetReceiptPendingNotStored(t *testing.T) {
	ctx := context.Background()

	transport := newFakeTransport() // no canned receipt: plays back null
	chain := newTestChain(t, transport)

	receipt, err := chain.GetReceipt(ctx, testTxHash)
	require.NoError(t, err)
	assert.Nil(t, receipt)

	stored, err := chain.store.Get(ctx, testTxHash)
	require.NoError(t, err)
	assert.Nil(t, stored, "pending probes must never reach the store")

	// every probe goes back to the node until the tx is mined
	_, err = chain.GetReceipt(ctx, testTxHash)
	require.NoError(t, err)
	assert.Equal(t, 2, transport.calls["eth_getTransactionReceipt"])
}

func TestGetReceiptWithoutStore(t *testing.T) {
	ctx := context.Background()

	transport := newFakeTransport()
	transport.results["eth_getTransactionReceipt"] = wireReceipt("0x0")

	chain := &Chain{
		DevBackend: jsonrpc.NewAnvilBackend(transport),
		cfg:        ChainConfig{URL: "http://127.0.0.1:8545"}.withDefaults(),
	}

	receipt, err := chain.GetReceipt(ctx, testTxHash)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.False(t, receipt.Succeeded())
}

func TestSubmitReturnsBoundHandle(t *testing.T) {
	ctx := context.Background()

	transport := newFakeTransport()
	transport.results["eth_sendTransaction"] = testTxHash.Hex()
	transport.results["eth_getTransactionReceipt"] = wireReceipt("0x1")

	chain := newTestChain(t, transport)

	to := common.HexToAddress("0x06012c8cf97bead5deae237070f9587f8e7a266d")
	handle, err := chain.Submit(ctx, evmtypes.TxParams{To: &to}, tx.Options{})
	require.NoError(t, err)

	assert.Equal(t, testTxHash, handle.Hash())
	assert.Equal(t, &to, handle.Params().To)

	// the handle resolves through the chain, so it sees the store-first path
	require.NoError(t, handle.Wait(ctx))

	status, err := handle.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, tx.Success, status)
}

func TestTransactionHandleUsesConfigDefaults(t *testing.T) {
	transport := newFakeTransport()
	chain := newTestChain(t, transport)
	chain.cfg.PollInterval = time.Millisecond
	chain.cfg.WaitFastChecks = 2

	handle := chain.Transaction(testTxHash, evmtypes.TxParams{}, tx.Options{})
	require.NotNil(t, handle)
	assert.Same(t, chain, handle.Backend())
}

// closableTransport records whether Close reached the underlying
// connection, as it must when the chain shuts down.
type closableTransport struct {
	*fakeTransport

	closed bool
}

func (c *closableTransport) Close() {
	c.closed = true
}

func TestCloseReleasesTransport(t *testing.T) {
	transport := &closableTransport{fakeTransport: newFakeTransport()}

	// same wiring as Connect: instrumentation sits between the backend
	// and the dialed connection
	chain := &Chain{
		DevBackend: jsonrpc.NewAnvilBackend(&instrumentedTransport{next: transport}),
		cfg:        ChainConfig{URL: "http://127.0.0.1:8545"}.withDefaults(),
	}

	chain.Close()

	assert.True(t, transport.closed, "closing the chain must close the dialed connection")
}

func TestInstrumentedTransport(t *testing.T) {
	transport := newFakeTransport()
	transport.results["eth_chainId"] = "0x7a69"

	instrumented := &instrumentedTransport{next: transport}

	before := testutil.ToFloat64(RPCCalls.WithLabelValues("eth_chainId"))

	backend := jsonrpc.NewAnvilBackend(instrumented)

	chainID, err := backend.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7a69), chainID)
	assert.Equal(t, 1, transport.calls["eth_chainId"])

	after := testutil.ToFloat64(RPCCalls.WithLabelValues("eth_chainId"))
	assert.Equal(t, before+1, after)
}
