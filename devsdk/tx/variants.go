package tx

import (
	"context"
	"fmt"
	"math/big"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
	"github.com/devnet-tools/sdk/devsdk/jsonrpc"
)

// The three transaction wire shapes share one handle's lazy-fetch and
// resolution machinery and differ only in which raw fields are legal to
// read. Each view asserts the raw type tag before exposing its fields;
// a mismatch is a defect in the caller, not a recoverable condition.

// typedData fetches the raw data and verifies the envelope type tag.
func (t *Transaction) typedData(
	ctx context.Context,
	want evmtypes.TxType,
) (*evmtypes.TransactionData, error) {
	data, err := t.txData(ctx)
	if err != nil {
		return nil, err
	}

	if got := data.TypeTag(); got != want {
		return nil, fmt.Errorf("%w: have %s, reading as %s", ErrTxTypeMismatch, got, want)
	}

	return data, nil
}

// LegacyView exposes the legacy (type 0) fields: a single gas price and
// the full v signature component.
type LegacyView struct {
	tx *Transaction
}

func (t *Transaction) Legacy() LegacyView {
	return LegacyView{tx: t}
}

func (v LegacyView) GasPrice(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeLegacy)
	if err != nil {
		return nil, err
	}

	if data.GasPrice == nil {
		return nil, fmt.Errorf("%w: gasPrice", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(data.GasPrice), nil
}

func (v LegacyView) V(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeLegacy)
	if err != nil {
		return nil, err
	}

	return sigComponent(data.V, "v")
}

// AccessListView exposes the EIP-2930 (type 1) fields: a single gas price
// plus an access list.
type AccessListView struct {
	tx *Transaction
}

func (t *Transaction) AccessList() AccessListView {
	return AccessListView{tx: t}
}

func (v AccessListView) GasPrice(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeAccessList)
	if err != nil {
		return nil, err
	}

	if data.GasPrice == nil {
		return nil, fmt.Errorf("%w: gasPrice", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(data.GasPrice), nil
}

func (v AccessListView) List(ctx context.Context) (gethtypes.AccessList, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeAccessList)
	if err != nil {
		return nil, err
	}

	return data.AccessList, nil
}

func (v AccessListView) ChainID(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeAccessList)
	if err != nil {
		return nil, err
	}

	if data.ChainID == nil {
		return nil, fmt.Errorf("%w: chainId", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(data.ChainID), nil
}

// DynamicFeeView exposes the EIP-1559 (type 2) fields: priority fee and
// fee cap instead of a single gas price.
type DynamicFeeView struct {
	tx *Transaction
}

func (t *Transaction) DynamicFee() DynamicFeeView {
	return DynamicFeeView{tx: t}
}

func (v DynamicFeeView) MaxFeePerGas(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeDynamicFee)
	if err != nil {
		return nil, err
	}

	if data.MaxFeePerGas == nil {
		return nil, fmt.Errorf("%w: maxFeePerGas", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(data.MaxFeePerGas), nil
}

func (v DynamicFeeView) MaxPriorityFeePerGas(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeDynamicFee)
	if err != nil {
		return nil, err
	}

	if data.MaxPriorityFeePerGas == nil {
		return nil, fmt.Errorf("%w: maxPriorityFeePerGas", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(data.MaxPriorityFeePerGas), nil
}

func (v DynamicFeeView) List(ctx context.Context) (gethtypes.AccessList, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeDynamicFee)
	if err != nil {
		return nil, err
	}

	return data.AccessList, nil
}

func (v DynamicFeeView) ChainID(ctx context.Context) (*big.Int, error) {
	data, err := v.tx.typedData(ctx, evmtypes.TxTypeDynamicFee)
	if err != nil {
		return nil, err
	}

	if data.ChainID == nil {
		return nil, fmt.Errorf("%w: chainId", jsonrpc.ErrDataUnavailable)
	}

	return (*big.Int)(data.ChainID), nil
}
