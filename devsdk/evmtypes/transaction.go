package evmtypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goccy/go-json"
)

// TxType is the transaction envelope type, fixed at submission time.
type TxType uint8

const (
	TxTypeLegacy     TxType = 0
	TxTypeAccessList TxType = 1 // EIP-2930
	TxTypeDynamicFee TxType = 2 // EIP-1559
)

func (t TxType) String() string {
	switch t {
	case TxTypeLegacy:
		return "Legacy"
	case TxTypeAccessList:
		return "AccessList"
	case TxTypeDynamicFee:
		return "DynamicFee"
	default:
		return "Unknown"
	}
}

// TransactionData is the eth_getTransactionByHash result. Numeric fields
// arrive as 0x-prefixed hex strings and are decoded through hexutil types.
type TransactionData struct {
	Hash             common.Hash      `json:"hash"`
	BlockHash        *common.Hash     `json:"blockHash"`   // nil while pending
	BlockNumber      *hexutil.Uint64  `json:"blockNumber"` // nil while pending
	From             common.Address   `json:"from"`
	To               *common.Address  `json:"to"` // nil for contract creation
	Gas              hexutil.Uint64   `json:"gas"`
	Nonce            hexutil.Uint64   `json:"nonce"`
	Input            hexutil.Bytes    `json:"input"`
	Value            *hexutil.Big     `json:"value"`
	TransactionIndex *hexutil.Uint64  `json:"transactionIndex"`
	Type             hexutil.Uint64   `json:"type"`
	ChainID          *hexutil.Big     `json:"chainId,omitempty"`
	AccessList       types.AccessList `json:"accessList,omitempty"` // EIP-2930/1559

	GasPrice             *hexutil.Big `json:"gasPrice,omitempty"`             // legacy & EIP-2930
	MaxFeePerGas         *hexutil.Big `json:"maxFeePerGas,omitempty"`         // EIP-1559
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas,omitempty"` // EIP-1559

	V *hexutil.Big `json:"v"`
	R *hexutil.Big `json:"r"`
	S *hexutil.Big `json:"s"`

	Raw json.RawMessage `json:"-"` // Set by fetcher for GetCustomField()
}

// TypeTag returns the decoded envelope type.
func (t *TransactionData) TypeTag() TxType {
	return TxType(t.Type)
}

// GetCustomField extracts a node-specific field from raw JSON.
func (t *TransactionData) GetCustomField(fieldName string) (any, error) {
	return GetCustomFieldFromRaw(t.Raw, fieldName)
}
