package evmtypes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxParams are the original submission parameters of a transaction.
// Nil pointer fields were not set by the submitter and are omitted from
// the JSON-RPC encoding.
type TxParams struct {
	Type                 *uint64
	From                 *common.Address
	To                   *common.Address // nil for contract creation
	Nonce                *uint64
	Gas                  *uint64
	Value                *big.Int
	Data                 []byte
	GasPrice             *big.Int
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	AccessList           types.AccessList
	ChainID              *uint64
}

// CreatesContract reports whether the params describe a contract-creation
// transaction.
func (p *TxParams) CreatesContract() bool {
	return p.To == nil
}

// Encode renders the params as the hex-string map expected by eth_call and
// eth_sendTransaction. Unset fields are left out.
func (p *TxParams) Encode() map[string]any {
	enc := make(map[string]any)

	if p.Type != nil {
		enc["type"] = hexutil.EncodeUint64(*p.Type)
	}

	if p.From != nil {
		enc["from"] = p.From.Hex()
	}

	if p.To != nil {
		enc["to"] = p.To.Hex()
	}

	if p.Nonce != nil {
		enc["nonce"] = hexutil.EncodeUint64(*p.Nonce)
	}

	if p.Gas != nil {
		enc["gas"] = hexutil.EncodeUint64(*p.Gas)
	}

	if p.Value != nil {
		enc["value"] = hexutil.EncodeBig(p.Value)
	}

	if p.Data != nil {
		enc["data"] = hexutil.Encode(p.Data)
	}

	if p.GasPrice != nil {
		enc["gasPrice"] = hexutil.EncodeBig(p.GasPrice)
	}

	if p.MaxPriorityFeePerGas != nil {
		enc["maxPriorityFeePerGas"] = hexutil.EncodeBig(p.MaxPriorityFeePerGas)
	}

	if p.MaxFeePerGas != nil {
		enc["maxFeePerGas"] = hexutil.EncodeBig(p.MaxFeePerGas)
	}

	if p.AccessList != nil {
		enc["accessList"] = p.AccessList
	}

	if p.ChainID != nil {
		enc["chainId"] = hexutil.EncodeUint64(*p.ChainID)
	}

	return enc
}
