package abicodec

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Solidity builtin revert selectors.
var (
	errorStringSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0} // Error(string)
	panicSelector       = [4]byte{0x4e, 0x48, 0x7b, 0x71} // Panic(uint256)
)

// Solidity panic codes, per the language documentation.
var panicReasons = map[uint64]string{
	0x00: "generic compiler panic",
	0x01: "assertion failed",
	0x11: "arithmetic overflow or underflow",
	0x12: "division or modulo by zero",
	0x21: "conversion into an invalid enum value",
	0x22: "incorrectly encoded storage byte array",
	0x31: "pop on an empty array",
	0x32: "array index out of bounds",
	0x41: "too much memory allocated",
	0x51: "call to an uninitialized internal function",
}

// RevertError is the decoded outcome of a reverted execution. Exactly one
// representation is populated: a reason string, a panic code, a named
// custom error, or the raw payload when nothing matched.
type RevertError struct {
	Reason    string   // Error(string)
	PanicCode *big.Int // Panic(uint256)
	Name      string   // custom error name
	Args      []any    // custom error arguments
	Raw       []byte   // fallback payload, also kept for the other forms
}

func (e *RevertError) Error() string {
	switch {
	case e.PanicCode != nil:
		if reason, ok := panicReasons[e.PanicCode.Uint64()]; ok {
			return fmt.Sprintf("panic 0x%02x: %s", e.PanicCode, reason)
		}

		return fmt.Sprintf("panic 0x%02x", e.PanicCode)
	case e.Name != "":
		return fmt.Sprintf("reverted with %s%v", e.Name, e.Args)
	case e.Reason != "":
		return "execution reverted: " + e.Reason
	default:
		return "execution reverted: " + hexutil.Encode(e.Raw)
	}
}

// IsPanic reports whether the revert is a compiler panic.
func (e *RevertError) IsPanic() bool {
	return e.PanicCode != nil
}

// DecodeRevert classifies a revert payload: standard reason string,
// panic code, custom error from the bound ABI, or raw-bytes fallback.
// It never fails; undecodable payloads fall back to raw.
func (c *Codec) DecodeRevert(payload []byte) *RevertError {
	out := &RevertError{Raw: payload}

	if len(payload) < 4 {
		return out
	}

	selector := payload[:4]
	data := payload[4:]

	switch {
	case bytes.Equal(selector, errorStringSelector[:]):
		if values, err := stringArgs.Unpack(data); err == nil {
			if reason, ok := values[0].(string); ok {
				out.Reason = reason
			}
		}

	case bytes.Equal(selector, panicSelector[:]):
		if values, err := uint256Args.Unpack(data); err == nil {
			if code, ok := values[0].(*big.Int); ok {
				out.PanicCode = code
			}
		}

	default:
		for name, def := range c.abi.Errors {
			if !bytes.Equal(def.ID[:4], selector) {
				continue
			}

			values, err := def.Inputs.Unpack(data)
			if err != nil {
				break // malformed payload, keep the raw fallback
			}

			out.Name = name
			out.Args = values

			break
		}
	}

	return out
}
