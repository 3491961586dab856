package jsonrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
)

// HardhatBackend is the structured-error variant: no trace_transaction,
// revert payloads nested one level deeper at the error's data.data member.
type HardhatBackend struct {
	client
}

func NewHardhatBackend(transport Transport) *HardhatBackend {
	return &HardhatBackend{client: client{rpc: transport}}
}

func (*HardhatBackend) Name() string {
	return "hardhat"
}

func (*HardhatBackend) Capabilities() Capability {
	return CapStructuredRevert
}

func (*HardhatBackend) TraceTransaction(
	_ context.Context,
	_ common.Hash,
) ([]evmtypes.CallFrame, error) {
	return nil, unsupported("hardhat", "trace_transaction")
}

func (*HardhatBackend) RevertData(err error) ([]byte, error) {
	return nestedRevertData(err)
}

func (b *HardhatBackend) GetAutomine(ctx context.Context) (bool, error) {
	var on bool
	if err := b.rpc.CallContext(ctx, &on, "hardhat_getAutomine"); err != nil {
		return false, err
	}

	return on, nil
}

func (b *HardhatBackend) SetAutomine(ctx context.Context, value bool) error {
	return b.rpc.CallContext(ctx, nil, "evm_setAutomine", value)
}

func (b *HardhatBackend) SetBalance(
	ctx context.Context,
	addr common.Address,
	value *big.Int,
) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_setBalance", addr, hexutil.EncodeBig(value))
}

func (b *HardhatBackend) SetCode(ctx context.Context, addr common.Address, code []byte) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_setCode", addr, hexutil.Encode(code))
}

func (b *HardhatBackend) SetNonce(
	ctx context.Context,
	addr common.Address,
	nonce uint64,
) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_setNonce", addr, hexutil.EncodeUint64(nonce))
}

func (b *HardhatBackend) SetCoinbase(ctx context.Context, addr common.Address) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_setCoinbase", addr)
}

func (b *HardhatBackend) ImpersonateAccount(ctx context.Context, addr common.Address) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_impersonateAccount", addr)
}

func (b *HardhatBackend) StopImpersonatingAccount(
	ctx context.Context,
	addr common.Address,
) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_stopImpersonatingAccount", addr)
}

func (b *HardhatBackend) SetNextBlockBaseFeePerGas(
	ctx context.Context,
	value *big.Int,
) error {
	return b.rpc.CallContext(
		ctx,
		nil,
		"hardhat_setNextBlockBaseFeePerGas",
		hexutil.EncodeBig(value),
	)
}

func (b *HardhatBackend) SetMinGasPrice(ctx context.Context, value *big.Int) error {
	return b.rpc.CallContext(ctx, nil, "hardhat_setMinGasPrice", hexutil.EncodeBig(value))
}

func (b *HardhatBackend) Reset(ctx context.Context, options map[string]any) error {
	if options != nil {
		return b.rpc.CallContext(ctx, nil, "hardhat_reset", options)
	}

	return b.rpc.CallContext(ctx, nil, "hardhat_reset")
}

var _ DevBackend = (*HardhatBackend)(nil)
