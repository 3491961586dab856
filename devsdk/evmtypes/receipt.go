package evmtypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goccy/go-json"
)

// Receipt is the eth_getTransactionReceipt result. A nil receipt from the
// node means the transaction is still pending.
type Receipt struct {
	TxHash            common.Hash     `json:"transactionHash"`
	Status            hexutil.Uint64  `json:"status"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	ContractAddress   *common.Address `json:"contractAddress"` // nil for non-creation txs
	Logs              []*types.Log    `json:"logs"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	Type              hexutil.Uint64  `json:"type"`

	Raw json.RawMessage `json:"-"` // Set by fetcher for GetCustomField()
}

// Succeeded reports the receipt status flag.
func (r *Receipt) Succeeded() bool {
	return r.Status != 0
}

// GetCustomField extracts a node-specific field from raw JSON.
func (r *Receipt) GetCustomField(fieldName string) (any, error) {
	return GetCustomFieldFromRaw(r.Raw, fieldName)
}
