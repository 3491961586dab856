package jsonrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
)

// AnvilBackend is the full-trace variant: structured call traces via
// trace_transaction, console log recovery and revert payloads directly at
// the error's data member.
type AnvilBackend struct {
	client
}

func NewAnvilBackend(transport Transport) *AnvilBackend {
	return &AnvilBackend{client: client{rpc: transport}}
}

func (*AnvilBackend) Name() string {
	return "anvil"
}

func (*AnvilBackend) Capabilities() Capability {
	return CapTraceTransaction | CapStructuredRevert | CapConsoleLogs
}

func (b *AnvilBackend) TraceTransaction(
	ctx context.Context,
	hash common.Hash,
) ([]evmtypes.CallFrame, error) {
	var frames []evmtypes.CallFrame
	if err := b.rpc.CallContext(ctx, &frames, "trace_transaction", hash); err != nil {
		return nil, err
	}

	return frames, nil
}

func (*AnvilBackend) RevertData(err error) ([]byte, error) {
	return shallowRevertData(err)
}

func (b *AnvilBackend) GetAutomine(ctx context.Context) (bool, error) {
	var on bool
	if err := b.rpc.CallContext(ctx, &on, "anvil_getAutomine"); err != nil {
		return false, err
	}

	return on, nil
}

func (b *AnvilBackend) SetAutomine(ctx context.Context, value bool) error {
	return b.rpc.CallContext(ctx, nil, "evm_setAutomine", value)
}

func (b *AnvilBackend) SetBalance(
	ctx context.Context,
	addr common.Address,
	value *big.Int,
) error {
	return b.rpc.CallContext(ctx, nil, "anvil_setBalance", addr, hexutil.EncodeBig(value))
}

func (b *AnvilBackend) SetCode(ctx context.Context, addr common.Address, code []byte) error {
	return b.rpc.CallContext(ctx, nil, "anvil_setCode", addr, hexutil.Encode(code))
}

func (b *AnvilBackend) SetNonce(ctx context.Context, addr common.Address, nonce uint64) error {
	return b.rpc.CallContext(ctx, nil, "anvil_setNonce", addr, hexutil.EncodeUint64(nonce))
}

func (b *AnvilBackend) SetCoinbase(ctx context.Context, addr common.Address) error {
	return b.rpc.CallContext(ctx, nil, "anvil_setCoinbase", addr)
}

func (b *AnvilBackend) ImpersonateAccount(ctx context.Context, addr common.Address) error {
	return b.rpc.CallContext(ctx, nil, "anvil_impersonateAccount", addr)
}

func (b *AnvilBackend) StopImpersonatingAccount(
	ctx context.Context,
	addr common.Address,
) error {
	return b.rpc.CallContext(ctx, nil, "anvil_stopImpersonatingAccount", addr)
}

func (b *AnvilBackend) SetNextBlockBaseFeePerGas(
	ctx context.Context,
	value *big.Int,
) error {
	return b.rpc.CallContext(
		ctx,
		nil,
		"anvil_setNextBlockBaseFeePerGas",
		hexutil.EncodeBig(value),
	)
}

func (b *AnvilBackend) SetMinGasPrice(ctx context.Context, value *big.Int) error {
	return b.rpc.CallContext(ctx, nil, "anvil_setMinGasPrice", hexutil.EncodeBig(value))
}

// NodeInfo is anvil-only extra state about the node.
func (b *AnvilBackend) NodeInfo(ctx context.Context) (map[string]any, error) {
	var info map[string]any
	if err := b.rpc.CallContext(ctx, &info, "anvil_nodeInfo"); err != nil {
		return nil, err
	}

	return info, nil
}

// SendUnsignedTransaction submits a transaction without a signature, which
// anvil permits for impersonated accounts.
func (b *AnvilBackend) SendUnsignedTransaction(
	ctx context.Context,
	params *evmtypes.TxParams,
) (common.Hash, error) {
	var hash common.Hash

	err := b.rpc.CallContext(ctx, &hash, "eth_sendUnsignedTransaction", params.Encode())
	if err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

func (b *AnvilBackend) Reset(ctx context.Context, options map[string]any) error {
	if options != nil {
		return b.rpc.CallContext(ctx, nil, "anvil_reset", options)
	}

	return b.rpc.CallContext(ctx, nil, "anvil_reset")
}

var _ DevBackend = (*AnvilBackend)(nil)

func unsupported(backend, op string) error {
	return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedCapability, backend, op)
}
