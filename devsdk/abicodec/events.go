package abicodec

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Event is one decoded receipt log. Either Name+Args are set (the log
// matched an ABI event) or they are empty and only the raw form remains.
type Event struct {
	Name string
	Args map[string]any

	Topics [][]byte
	Data   []byte

	Contract common.Address
	LogIndex uint
}

// Matched reports whether the log decoded against a known event signature.
func (e Event) Matched() bool {
	return e.Name != ""
}

// RawEvent is the decode-free log form used for diagnostics.
type RawEvent struct {
	Topics [][]byte
	Data   []byte
}

// RawLog converts a receipt log without any ABI matching.
func RawLog(lg *gethtypes.Log) RawEvent {
	topics := make([][]byte, len(lg.Topics))
	for i, t := range lg.Topics {
		topics[i] = t.Bytes()
	}

	return RawEvent{Topics: topics, Data: lg.Data}
}

// DecodeLog matches a receipt log against the ABI's event signatures.
// Unmatched logs are preserved as opaque topic/data pairs, never dropped.
func (c *Codec) DecodeLog(lg *gethtypes.Log) (Event, error) {
	ev := Event{
		Contract: lg.Address,
		LogIndex: lg.Index,
		Data:     lg.Data,
	}

	ev.Topics = make([][]byte, len(lg.Topics))
	for i, t := range lg.Topics {
		ev.Topics[i] = t.Bytes()
	}

	if len(lg.Topics) == 0 {
		return ev, nil
	}

	for name, def := range c.abi.Events {
		if def.ID != lg.Topics[0] {
			continue
		}

		idxArgs := indexed(def.Inputs)
		if len(lg.Topics)-1 != len(idxArgs) {
			// same signature, wrong variant of an overloaded event
			continue
		}

		args, err := decodeEventArgs(def, idxArgs, lg)
		if err != nil {
			return ev, fmt.Errorf("decode event %s: %w", name, err)
		}

		ev.Name = def.RawName
		ev.Args = args

		return ev, nil
	}

	return ev, nil
}

func decodeEventArgs(
	def abi.Event,
	idxArgs abi.Arguments,
	lg *gethtypes.Log,
) (map[string]any, error) {
	nonIdx := def.Inputs.NonIndexed()

	nonVals, err := nonIdx.Unpack(lg.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack data: %w", err)
	}

	args := make(map[string]any, len(def.Inputs))
	for i, arg := range nonIdx {
		args[strings.ToLower(arg.Name)] = nonVals[i]
	}

	for i, arg := range idxArgs {
		args[strings.ToLower(arg.Name)] = decodeIndexedTopic(arg, lg.Topics[i+1])
	}

	return args, nil
}

// decodeIndexedTopic recovers an indexed value from its 32-byte topic word.
func decodeIndexedTopic(arg abi.Argument, topic common.Hash) any {
	switch arg.Type.T {
	case abi.AddressTy:
		// address is right-aligned in 32 bytes
		return common.BytesToAddress(topic.Bytes()[12:])

	case abi.UintTy, abi.IntTy:
		return new(big.Int).SetBytes(topic.Bytes())

	case abi.BoolTy:
		return new(big.Int).SetBytes(topic.Bytes()).Sign() != 0

	case abi.HashTy, abi.FixedBytesTy:
		return topic

	default:
		// dynamic indexed types are hashed in topics; the original value
		// cannot be recovered, so return the hash itself
		return topic
	}
}

func indexed(args abi.Arguments) abi.Arguments {
	var out abi.Arguments

	for _, arg := range args {
		if arg.Indexed {
			out = append(out, arg)
		}
	}

	return out
}
