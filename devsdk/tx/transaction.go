package tx

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"

	"github.com/devnet-tools/sdk/devsdk/abicodec"
	"github.com/devnet-tools/sdk/devsdk/evmtypes"
	"github.com/devnet-tools/sdk/devsdk/jsonrpc"
)

const (
	// DefaultFastChecks is the number of immediate status re-checks Wait
	// performs before falling back to sleep-polling.
	DefaultFastChecks = 40

	// DefaultPollInterval is the sleep between slow-path status checks.
	DefaultPollInterval = 250 * time.Millisecond
)

// Options tune a transaction handle at construction time.
type Options struct {
	// Codec decodes return values, events and revert payloads against the
	// recipient contract's ABI. Optional; without it only raw forms are
	// available.
	Codec *abicodec.Codec

	// Returns is the expected-return-type descriptor for the resolved
	// return value.
	Returns abi.Arguments

	PollInterval time.Duration
	FastChecks   int
}

// Transaction is a lazily-resolved handle for one submitted transaction.
// Every cache slot is fetched at most once for the handle's lifetime;
// a pending receipt probe is never cached as final. A handle is not safe
// for concurrent use without external synchronization.
type Transaction struct {
	hash    common.Hash
	params  evmtypes.TxParams
	backend jsonrpc.Backend
	codec   *abicodec.Codec
	returns abi.Arguments

	pollInterval time.Duration
	fastChecks   int

	data       *evmtypes.TransactionData
	receipt    *evmtypes.Receipt
	callTrace  []evmtypes.CallFrame
	traced     bool
	debugTrace *evmtypes.DebugTrace
	revert     *abicodec.RevertError
	events     []abicodec.Event
	resolved   bool
}

// New creates a handle for an already-submitted transaction. The backend
// reference is explicit; there is no ambient default connection.
func New(
	backend jsonrpc.Backend,
	hash common.Hash,
	params evmtypes.TxParams,
	opts Options,
) *Transaction {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.FastChecks <= 0 {
		opts.FastChecks = DefaultFastChecks
	}

	return &Transaction{
		hash:         hash,
		params:       params,
		backend:      backend,
		codec:        opts.Codec,
		returns:      opts.Returns,
		pollInterval: opts.PollInterval,
		fastChecks:   opts.FastChecks,
	}
}

// Hash is the handle's immutable key.
func (t *Transaction) Hash() common.Hash {
	return t.hash
}

// Params are the original submission parameters.
func (t *Transaction) Params() evmtypes.TxParams {
	return t.params
}

// Backend is the connection the handle resolves against.
func (t *Transaction) Backend() jsonrpc.Backend {
	return t.backend
}

// CreatesContract reports whether the transaction had no recipient.
func (t *Transaction) CreatesContract() bool {
	return t.params.CreatesContract()
}

// Status derives the transaction state from receipt presence. A missing
// receipt means Pending and is probed again on the next call; a fetched
// receipt is cached for good, since mined transactions are immutable.
func (t *Transaction) Status(ctx context.Context) (Status, error) {
	if t.receipt == nil {
		receipt, err := t.backend.GetReceipt(ctx, t.hash)
		if err != nil {
			return Pending, fmt.Errorf("get receipt %s: %w", t.hash, err)
		}

		if receipt == nil {
			return Pending, nil
		}

		t.receipt = receipt
	}

	if t.receipt.Succeeded() {
		return Success, nil
	}

	return Failure, nil
}

// Wait blocks until the transaction reaches a terminal status: a bounded
// burst of immediate re-checks first, then a fixed-interval poll with no
// upper deadline. Callers needing bounded waits cancel the context;
// cancellation leaves the handle Pending and re-resolvable. Calling Wait
// on an already-terminal handle returns immediately.
func (t *Transaction) Wait(ctx context.Context) error {
	for range t.fastChecks {
		status, err := t.Status(ctx)
		if err != nil {
			return err
		}

		if status.Terminal() {
			return nil
		}
	}

	log.Ctx(ctx).Debug().
		Stringer("tx", t.hash).
		Dur("interval", t.pollInterval).
		Msg("transaction not mined yet, polling")

	timer := time.NewTimer(t.pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		status, err := t.Status(ctx)
		if err != nil {
			return err
		}

		if status.Terminal() {
			return nil
		}

		timer.Reset(t.pollInterval)
	}
}

// txData populates the raw-transaction cache slot on first use. One fetch
// covers every raw-data accessor.
func (t *Transaction) txData(ctx context.Context) (*evmtypes.TransactionData, error) {
	if t.data != nil {
		return t.data, nil
	}

	data, err := t.backend.GetTransaction(ctx, t.hash)
	if err != nil {
		return nil, err
	}

	t.data = data

	return data, nil
}

// receiptData populates the receipt cache slot, waiting for the
// transaction to be mined if necessary.
func (t *Transaction) receiptData(ctx context.Context) (*evmtypes.Receipt, error) {
	if t.receipt != nil {
		return t.receipt, nil
	}

	if err := t.Wait(ctx); err != nil {
		return nil, err
	}

	return t.receipt, nil
}

// Receipt exposes the full receipt, blocking until mined.
func (t *Transaction) Receipt(ctx context.Context) (*evmtypes.Receipt, error) {
	return t.receiptData(ctx)
}

// Data exposes the full raw transaction record.
func (t *Transaction) Data(ctx context.Context) (*evmtypes.TransactionData, error) {
	return t.txData(ctx)
}

// BlockHash is the hash of the containing block.
func (t *Transaction) BlockHash(ctx context.Context) (common.Hash, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	if data.BlockHash == nil {
		return common.Hash{}, fmt.Errorf("%w: block hash not assigned yet", jsonrpc.ErrDataUnavailable)
	}

	return *data.BlockHash, nil
}

// BlockNumber is the number of the containing block.
func (t *Transaction) BlockNumber(ctx context.Context) (uint64, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return 0, err
	}

	if data.BlockNumber == nil {
		return 0, fmt.Errorf("%w: block number not assigned yet", jsonrpc.ErrDataUnavailable)
	}

	return uint64(*data.BlockNumber), nil
}

// From is the sender address.
func (t *Transaction) From(ctx context.Context) (common.Address, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return common.Address{}, err
	}

	return data.From, nil
}

// To is the recipient address, nil for contract creations.
func (t *Transaction) To(ctx context.Context) (*common.Address, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return nil, err
	}

	return data.To, nil
}

// Gas is the gas limit of the submission.
func (t *Transaction) Gas(ctx context.Context) (uint64, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return 0, err
	}

	return uint64(data.Gas), nil
}

// Nonce is the sender's nonce.
func (t *Transaction) Nonce(ctx context.Context) (uint64, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return 0, err
	}

	return uint64(data.Nonce), nil
}

// Index is the transaction's position within its block.
func (t *Transaction) Index(ctx context.Context) (uint64, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return 0, err
	}

	if data.TransactionIndex == nil {
		return 0, fmt.Errorf("%w: transaction index not assigned yet", jsonrpc.ErrDataUnavailable)
	}

	return uint64(*data.TransactionIndex), nil
}

// Value is the transferred amount in wei.
func (t *Transaction) Value(ctx context.Context) (*big.Int, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return nil, err
	}

	return (*big.Int)(data.Value), nil
}

// Input is the call data.
func (t *Transaction) Input(ctx context.Context) ([]byte, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return nil, err
	}

	return data.Input, nil
}

// Type is the decoded transaction envelope type.
func (t *Transaction) Type(ctx context.Context) (evmtypes.TxType, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return 0, err
	}

	return data.TypeTag(), nil
}

// R is the signature r component.
func (t *Transaction) R(ctx context.Context) (*big.Int, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return nil, err
	}

	return sigComponent(data.R, "r")
}

// S is the signature s component.
func (t *Transaction) S(ctx context.Context) (*big.Int, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return nil, err
	}

	return sigComponent(data.S, "s")
}

func sigComponent(component *hexutil.Big, name string) (*big.Int, error) {
	if component == nil {
		return nil, fmt.Errorf("%w: signature %s", jsonrpc.ErrDataUnavailable, name)
	}

	return (*big.Int)(component), nil
}

// GasUsed is the gas consumed by the mined transaction.
func (t *Transaction) GasUsed(ctx context.Context) (uint64, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return 0, err
	}

	return uint64(receipt.GasUsed), nil
}

// CumulativeGasUsed is the block's running gas total at this transaction.
func (t *Transaction) CumulativeGasUsed(ctx context.Context) (uint64, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return 0, err
	}

	return uint64(receipt.CumulativeGasUsed), nil
}

// EffectiveGasPrice is the price actually charged per gas unit.
func (t *Transaction) EffectiveGasPrice(ctx context.Context) (*big.Int, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return nil, err
	}

	if receipt.EffectiveGasPrice == nil {
		return nil, fmt.Errorf("%w: effectiveGasPrice", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(receipt.EffectiveGasPrice), nil
}

// ContractAddress is the created contract's address, nil for calls.
func (t *Transaction) ContractAddress(ctx context.Context) (*common.Address, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return nil, err
	}

	return receipt.ContractAddress, nil
}

// callTraceData populates the full call-trace cache slot on first use.
func (t *Transaction) callTraceData(ctx context.Context) ([]evmtypes.CallFrame, error) {
	if t.traced {
		return t.callTrace, nil
	}

	frames, err := t.backend.TraceTransaction(ctx, t.hash)
	if err != nil {
		return nil, err
	}

	t.callTrace = frames
	t.traced = true

	return frames, nil
}

// debugTraceData populates the debug-trace cache slot on first use.
// Memory snapshots are enabled so the return slot can be recovered.
func (t *Transaction) debugTraceData(ctx context.Context) (*evmtypes.DebugTrace, error) {
	if t.debugTrace != nil {
		return t.debugTrace, nil
	}

	trace, err := t.backend.DebugTraceTransaction(
		ctx,
		t.hash,
		&evmtypes.DebugTraceOpts{EnableMemory: true},
	)
	if err != nil {
		return nil, err
	}

	t.debugTrace = trace

	return trace, nil
}
