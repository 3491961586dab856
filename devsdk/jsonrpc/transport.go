package jsonrpc

import (
	"context"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Transport issues raw JSON-RPC calls. *rpc.Client from go-ethereum
// satisfies it; tests substitute fakes. Request framing, batching and
// reconnects are the transport's concern, not ours.
type Transport interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// Dial opens a go-ethereum RPC client for the given HTTP, WS or IPC URL.
func Dial(ctx context.Context, url string) (Transport, error) {
	return gethrpc.DialContext(ctx, url)
}

// Error is the JSON-RPC error shape used by fake transports and by
// normalization tests. go-ethereum's own client errors expose the same
// surface through the rpc.Error / rpc.DataError interfaces.
type Error struct {
	Code    int
	Message string
	Data    any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) ErrorCode() int {
	return e.Code
}

func (e *Error) ErrorData() any {
	return e.Data
}

// dataError matches both *Error and go-ethereum's rpc.DataError.
type dataError interface {
	Error() string
	ErrorData() any
}
