package evmtypes

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallFrame is one parity-style trace_transaction entry. The outermost
// call of the transaction has an empty TraceAddress.
type CallFrame struct {
	Action       CallAction  `json:"action"`
	Result       *CallResult `json:"result"` // nil when the frame errored
	TraceAddress []int       `json:"traceAddress"`
	Subtraces    int         `json:"subtraces"`
	Type         string      `json:"type"` // "call", "create", "suicide"
	Error        string      `json:"error,omitempty"`
}

// Outermost reports whether this frame is the transaction's top-level call.
func (f *CallFrame) Outermost() bool {
	return len(f.TraceAddress) == 0
}

// CallAction holds the input side of a call frame.
type CallAction struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to"` // nil for creations
	CallType string          `json:"callType,omitempty"`
	Gas      hexutil.Uint64  `json:"gas"`
	Input    hexutil.Bytes   `json:"input"`
	Value    *hexutil.Big    `json:"value"`
}

// CallResult holds the output side of a call frame.
type CallResult struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	Output  hexutil.Bytes  `json:"output"`
}

// DebugTrace is the debug_traceTransaction structlog result. ReturnValue
// is hex encoded, usually without a 0x prefix.
type DebugTrace struct {
	Gas         uint64      `json:"gas"`
	Failed      bool        `json:"failed"`
	ReturnValue string      `json:"returnValue"`
	StructLogs  []StructLog `json:"structLogs"`
}

// ReturnBytes decodes the trace's top-level return slot.
func (t *DebugTrace) ReturnBytes() ([]byte, error) {
	return DecodeHex(t.ReturnValue)
}

// StructLog is a single opcode step of a debug trace.
type StructLog struct {
	PC      uint64   `json:"pc"`
	Op      string   `json:"op"`
	Gas     uint64   `json:"gas"`
	GasCost uint64   `json:"gasCost"`
	Depth   uint64   `json:"depth"`
	Memory  []string `json:"memory,omitempty"`
	Stack   []string `json:"stack,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// DebugTraceOpts are the options passed to debug_traceTransaction.
type DebugTraceOpts struct {
	EnableMemory     bool `json:"enableMemory,omitempty"`
	DisableStack     bool `json:"disableStack,omitempty"`
	DisableStorage   bool `json:"disableStorage,omitempty"`
	EnableReturnData bool `json:"enableReturnData,omitempty"`
}
