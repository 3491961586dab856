package tx

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/devnet-tools/sdk/devsdk/abicodec"
	"github.com/devnet-tools/sdk/devsdk/evmtypes"
	"github.com/devnet-tools/sdk/devsdk/jsonrpc"
)

// ReturnValue resolves the transaction's typed result. For contract
// creations the result is the created address. For failed transactions
// the resolution yields the decoded revert error instead of a value,
// always the same error object the Error accessor returns.
func (t *Transaction) ReturnValue(ctx context.Context) (any, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return nil, err
	}

	if receipt.ContractAddress != nil {
		return *receipt.ContractAddress, nil
	}

	if !receipt.Succeeded() {
		revert, err := t.Error(ctx)
		if err != nil {
			return nil, err
		}

		return nil, revert
	}

	output, err := t.successOutput(ctx)
	if err != nil {
		return nil, err
	}

	if t.codec == nil {
		return output, nil
	}

	return t.codec.DecodeReturn(t.returns, output)
}

// successOutput recovers the raw return bytes of a successful execution.
// The full call trace gives the outermost frame's output directly; on
// backends without call tracing the debug trace's top-level return slot
// is the only fallback.
func (t *Transaction) successOutput(ctx context.Context) ([]byte, error) {
	if t.backend.Capabilities().Has(jsonrpc.CapTraceTransaction) {
		frames, err := t.callTraceData(ctx)
		if err != nil {
			return nil, err
		}

		return outermostOutput(frames)
	}

	trace, err := t.debugTraceData(ctx)
	if err != nil {
		return nil, err
	}

	return trace.ReturnBytes()
}

func outermostOutput(frames []evmtypes.CallFrame) ([]byte, error) {
	for i := range frames {
		if !frames[i].Outermost() {
			continue
		}

		if frames[i].Result == nil {
			return nil, fmt.Errorf("%w: outermost frame has no result", ErrTraceShape)
		}

		return frames[i].Result.Output, nil
	}

	return nil, fmt.Errorf("%w: no outermost frame in call trace", ErrTraceShape)
}

// Error resolves the decoded revert error of a failed transaction, nil for
// successful ones. The receipt never carries the revert reason, so the
// original call parameters are replayed as a stateless eth_call which must
// revert the same way; the backend error's payload is then decoded against
// the recipient ABI. The decoded error is cached, later reads do not
// re-issue the call.
func (t *Transaction) Error(ctx context.Context) (*abicodec.RevertError, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return nil, err
	}

	if receipt.Succeeded() {
		return nil, nil
	}

	if t.revert != nil {
		return t.revert, nil
	}

	_, callErr := t.backend.Call(ctx, &t.params, "latest")
	if callErr == nil {
		return nil, fmt.Errorf("%w: %s", ErrReplayNotReverted, t.hash)
	}

	payload, err := t.backend.RevertData(callErr)
	if err != nil {
		return nil, err
	}

	codec := t.codec
	if codec == nil {
		codec = abicodec.New(abi.ABI{})
	}

	t.revert = codec.DecodeRevert(payload)

	return t.revert, nil
}

// Events resolves the receipt logs against the recipient contract's event
// signatures; unmatched logs are preserved as opaque topic/data pairs.
// A contract-creation transaction has no recipient context, so its log
// list must be empty and a non-empty one is flagged as a defect.
func (t *Transaction) Events(ctx context.Context) ([]abicodec.Event, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return nil, err
	}

	if t.resolved {
		return t.events, nil
	}

	if t.params.CreatesContract() {
		if len(receipt.Logs) != 0 {
			return nil, fmt.Errorf("%w: %d logs on %s", ErrUnexpectedLogs, len(receipt.Logs), t.hash)
		}

		t.events = []abicodec.Event{}
		t.resolved = true

		return t.events, nil
	}

	events := make([]abicodec.Event, 0, len(receipt.Logs))

	for _, lg := range receipt.Logs {
		if t.codec == nil {
			raw := abicodec.RawLog(lg)
			events = append(events, abicodec.Event{
				Topics:   raw.Topics,
				Data:     raw.Data,
				Contract: lg.Address,
				LogIndex: lg.Index,
			})

			continue
		}

		event, err := t.codec.DecodeLog(lg)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	t.events = events
	t.resolved = true

	return t.events, nil
}

// RawEvents returns the decode-free log list regardless of ABI matching,
// for diagnostics when schema matching is undesired.
func (t *Transaction) RawEvents(ctx context.Context) ([]abicodec.RawEvent, error) {
	receipt, err := t.receiptData(ctx)
	if err != nil {
		return nil, err
	}

	raw := make([]abicodec.RawEvent, 0, len(receipt.Logs))
	for _, lg := range receipt.Logs {
		raw = append(raw, abicodec.RawLog(lg))
	}

	return raw, nil
}
