package jsonrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
)

// GanacheBackend is the minimal variant: no call traces and no structured
// revert payloads. Only the opcode-level debug trace is available, so a
// return value can be recovered but not a decoded revert reason.
type GanacheBackend struct {
	client
}

func NewGanacheBackend(transport Transport) *GanacheBackend {
	return &GanacheBackend{client: client{rpc: transport}}
}

func (*GanacheBackend) Name() string {
	return "ganache"
}

func (*GanacheBackend) Capabilities() Capability {
	return 0
}

func (*GanacheBackend) TraceTransaction(
	_ context.Context,
	_ common.Hash,
) ([]evmtypes.CallFrame, error) {
	return nil, unsupported("ganache", "trace_transaction")
}

func (*GanacheBackend) RevertData(_ error) ([]byte, error) {
	return nil, unsupported("ganache", "structured revert payloads")
}

func (*GanacheBackend) GetAutomine(_ context.Context) (bool, error) {
	return false, unsupported("ganache", "automine")
}

func (*GanacheBackend) SetAutomine(_ context.Context, _ bool) error {
	return unsupported("ganache", "automine")
}

func (b *GanacheBackend) SetBalance(
	ctx context.Context,
	addr common.Address,
	value *big.Int,
) error {
	return b.rpc.CallContext(ctx, nil, "evm_setAccountBalance", addr, hexutil.EncodeBig(value))
}

func (b *GanacheBackend) SetCode(ctx context.Context, addr common.Address, code []byte) error {
	return b.rpc.CallContext(ctx, nil, "evm_setAccountCode", addr, hexutil.Encode(code))
}

func (b *GanacheBackend) SetNonce(
	ctx context.Context,
	addr common.Address,
	nonce uint64,
) error {
	return b.rpc.CallContext(ctx, nil, "evm_setAccountNonce", addr, hexutil.EncodeUint64(nonce))
}

func (*GanacheBackend) SetCoinbase(_ context.Context, _ common.Address) error {
	return unsupported("ganache", "setting coinbase")
}

func (b *GanacheBackend) ImpersonateAccount(ctx context.Context, addr common.Address) error {
	return b.rpc.CallContext(ctx, nil, "evm_addAccount", addr, "")
}

func (b *GanacheBackend) StopImpersonatingAccount(
	ctx context.Context,
	addr common.Address,
) error {
	return b.rpc.CallContext(ctx, nil, "evm_removeAccount", addr, "")
}

func (*GanacheBackend) SetNextBlockTimestamp(_ context.Context, _ uint64) error {
	return unsupported("ganache", "setting next block timestamp")
}

func (*GanacheBackend) SetNextBlockBaseFeePerGas(_ context.Context, _ *big.Int) error {
	return unsupported("ganache", "setting next block base fee")
}

func (b *GanacheBackend) SetMinGasPrice(ctx context.Context, value *big.Int) error {
	return b.rpc.CallContext(ctx, nil, "miner_setGasPrice", hexutil.EncodeBig(value))
}

var _ DevBackend = (*GanacheBackend)(nil)
