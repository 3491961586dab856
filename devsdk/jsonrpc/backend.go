package jsonrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/goccy/go-json"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
)

// Capability flags what a backend variant can do. Selected once at
// connection time; callers branch on flags, never on concrete types.
type Capability uint8

const (
	// CapTraceTransaction: structured call traces via trace_transaction.
	CapTraceTransaction Capability = 1 << iota
	// CapStructuredRevert: eth_call failures carry a decodable revert payload.
	CapStructuredRevert
	// CapConsoleLogs: console.log calls are recoverable from call traces.
	CapConsoleLogs
)

func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Backend is the capability set the transaction handle resolves against.
// GetReceipt returns (nil, nil) while the transaction is pending.
type Backend interface {
	Name() string
	Capabilities() Capability
	GetTransaction(ctx context.Context, hash common.Hash) (*evmtypes.TransactionData, error)
	GetReceipt(ctx context.Context, hash common.Hash) (*evmtypes.Receipt, error)
	Call(ctx context.Context, params *evmtypes.TxParams, block string) ([]byte, error)
	TraceTransaction(ctx context.Context, hash common.Hash) ([]evmtypes.CallFrame, error)
	DebugTraceTransaction(
		ctx context.Context,
		hash common.Hash,
		opts *evmtypes.DebugTraceOpts,
	) (*evmtypes.DebugTrace, error)
	// RevertData extracts the revert payload from a Call error, at the
	// nesting depth this variant uses.
	RevertData(err error) ([]byte, error)
}

// DevBackend adds the dev-chain control surface on top of Backend.
// Operations a node does not implement return ErrUnsupportedCapability.
type DevBackend interface {
	Backend

	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	GetBalance(ctx context.Context, addr common.Address, block string) (*big.Int, error)
	GetCode(ctx context.Context, addr common.Address, block string) ([]byte, error)
	GetTransactionCount(ctx context.Context, addr common.Address, block string) (uint64, error)
	EstimateGas(ctx context.Context, params *evmtypes.TxParams) (uint64, error)
	SendTransaction(ctx context.Context, params *evmtypes.TxParams) (common.Hash, error)
	SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)

	Snapshot(ctx context.Context) (string, error)
	RevertTo(ctx context.Context, snapshotID string) (bool, error)
	Mine(ctx context.Context, timestamp *uint64) error
	GetAutomine(ctx context.Context) (bool, error)
	SetAutomine(ctx context.Context, value bool) error
	SetBalance(ctx context.Context, addr common.Address, value *big.Int) error
	SetCode(ctx context.Context, addr common.Address, code []byte) error
	SetNonce(ctx context.Context, addr common.Address, nonce uint64) error
	SetCoinbase(ctx context.Context, addr common.Address) error
	ImpersonateAccount(ctx context.Context, addr common.Address) error
	StopImpersonatingAccount(ctx context.Context, addr common.Address) error
	SetNextBlockTimestamp(ctx context.Context, timestamp uint64) error
	SetNextBlockBaseFeePerGas(ctx context.Context, value *big.Int) error
	SetMinGasPrice(ctx context.Context, value *big.Int) error

	Close()
}

// client carries the operations every variant shares. The three backend
// types embed it and add their own namespaced methods.
type client struct {
	rpc Transport
}

func (c *client) GetTransaction(
	ctx context.Context,
	hash common.Hash,
) (*evmtypes.TransactionData, error) {
	raw, err := c.rawCall(ctx, "eth_getTransactionByHash", hash)
	if err != nil {
		return nil, err
	}

	if isNull(raw) {
		return nil, fmt.Errorf("%w: transaction %s", ErrDataUnavailable, hash)
	}

	var tx evmtypes.TransactionData
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction %s: %w", hash, err)
	}

	tx.Raw = raw

	return &tx, nil
}

func (c *client) GetReceipt(
	ctx context.Context,
	hash common.Hash,
) (*evmtypes.Receipt, error) {
	raw, err := c.rawCall(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}

	if isNull(raw) {
		// still pending
		return nil, nil
	}

	var receipt evmtypes.Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decode receipt %s: %w", hash, err)
	}

	receipt.Raw = raw

	return &receipt, nil
}

func (c *client) Call(
	ctx context.Context,
	params *evmtypes.TxParams,
	block string,
) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &out, "eth_call", params.Encode(), block); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *client) DebugTraceTransaction(
	ctx context.Context,
	hash common.Hash,
	opts *evmtypes.DebugTraceOpts,
) (*evmtypes.DebugTrace, error) {
	var trace evmtypes.DebugTrace

	var err error
	if opts != nil {
		err = c.rpc.CallContext(ctx, &trace, "debug_traceTransaction", hash, opts)
	} else {
		err = c.rpc.CallContext(ctx, &trace, "debug_traceTransaction", hash)
	}

	if err != nil {
		return nil, err
	}

	return &trace, nil
}

func (c *client) ChainID(ctx context.Context) (uint64, error) {
	return c.callUint64(ctx, "eth_chainId")
}

func (c *client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.callUint64(ctx, "eth_blockNumber")
}

func (c *client) GetBalance(
	ctx context.Context,
	addr common.Address,
	block string,
) (*big.Int, error) {
	var out hexutil.Big
	if err := c.rpc.CallContext(ctx, &out, "eth_getBalance", addr, block); err != nil {
		return nil, err
	}

	return (*big.Int)(&out), nil
}

func (c *client) GetCode(
	ctx context.Context,
	addr common.Address,
	block string,
) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &out, "eth_getCode", addr, block); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *client) GetTransactionCount(
	ctx context.Context,
	addr common.Address,
	block string,
) (uint64, error) {
	return c.callUint64(ctx, "eth_getTransactionCount", addr, block)
}

func (c *client) EstimateGas(
	ctx context.Context,
	params *evmtypes.TxParams,
) (uint64, error) {
	return c.callUint64(ctx, "eth_estimateGas", params.Encode(), "pending")
}

func (c *client) SendTransaction(
	ctx context.Context,
	params *evmtypes.TxParams,
) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", params.Encode()); err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

func (c *client) SendRawTransaction(
	ctx context.Context,
	rawTx []byte,
) (common.Hash, error) {
	var hash common.Hash

	err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(rawTx))
	if err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

func (c *client) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := c.rpc.CallContext(ctx, &id, "evm_snapshot"); err != nil {
		return "", err
	}

	return id, nil
}

func (c *client) RevertTo(ctx context.Context, snapshotID string) (bool, error) {
	var ok bool
	if err := c.rpc.CallContext(ctx, &ok, "evm_revert", snapshotID); err != nil {
		return false, err
	}

	return ok, nil
}

func (c *client) Mine(ctx context.Context, timestamp *uint64) error {
	if timestamp != nil {
		return c.rpc.CallContext(ctx, nil, "evm_mine", hexutil.EncodeUint64(*timestamp))
	}

	return c.rpc.CallContext(ctx, nil, "evm_mine")
}

func (c *client) SetNextBlockTimestamp(ctx context.Context, timestamp uint64) error {
	return c.rpc.CallContext(
		ctx,
		nil,
		"evm_setNextBlockTimestamp",
		hexutil.EncodeUint64(timestamp),
	)
}

func (c *client) Close() {
	if closer, ok := c.rpc.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (c *client) callUint64(
	ctx context.Context,
	method string,
	args ...any,
) (uint64, error) {
	var out hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &out, method, args...); err != nil {
		return 0, err
	}

	return uint64(out), nil
}

// rawCall keeps the raw JSON result so wire types can expose node-specific
// fields later. A null result is returned as-is for the caller to judge.
func (c *client) rawCall(
	ctx context.Context,
	method string,
	args ...any,
) (json.RawMessage, error) {
	var raw json.RawMessage

	err := c.rpc.CallContext(ctx, &raw, method, args...)
	if errors.Is(err, gethrpc.ErrNoResult) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return raw, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// shallowRevertData reads the revert payload directly from the error's
// data member (anvil shape).
func shallowRevertData(err error) ([]byte, error) {
	var de dataError
	if !errors.As(err, &de) {
		return nil, fmt.Errorf("%w: %s", ErrNoRevertData, err)
	}

	payload, ok := de.ErrorData().(string)
	if !ok {
		return nil, fmt.Errorf("%w: data is %T, want string", ErrNoRevertData, de.ErrorData())
	}

	return evmtypes.DecodeHex(payload)
}

// nestedRevertData reads the payload one level deeper, at data.data
// (hardhat shape).
func nestedRevertData(err error) ([]byte, error) {
	var de dataError
	if !errors.As(err, &de) {
		return nil, fmt.Errorf("%w: %s", ErrNoRevertData, err)
	}

	obj, ok := de.ErrorData().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: data is %T, want object", ErrNoRevertData, de.ErrorData())
	}

	payload, ok := obj["data"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: data.data missing or not a string", ErrNoRevertData)
	}

	return evmtypes.DecodeHex(payload)
}
