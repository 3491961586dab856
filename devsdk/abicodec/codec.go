package abicodec

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Codec decodes return values, logs and revert payloads against one
// contract ABI. The zero Codec (no ABI) still handles the standard
// Error(string) and Panic(uint256) revert shapes.
type Codec struct {
	abi abi.ABI
}

func New(a abi.ABI) *Codec {
	return &Codec{abi: a}
}

// Parse builds a Codec from an ABI JSON document.
func Parse(abiJSON string) (*Codec, error) {
	a, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	return &Codec{abi: a}, nil
}

// ABI exposes the bound schema.
func (c *Codec) ABI() abi.ABI {
	return c.abi
}

// Returns is the expected-return-type descriptor for a method: the output
// argument list used to decode resolved return values.
func (c *Codec) Returns(method string) (abi.Arguments, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	return m.Outputs, nil
}

// DecodeReturn unpacks raw output bytes against a return descriptor.
// A single output is unwrapped, multiple outputs come back as []any and
// an empty descriptor decodes to nil.
func (c *Codec) DecodeReturn(outputs abi.Arguments, data []byte) (any, error) {
	if len(outputs) == 0 {
		return nil, nil
	}

	values, err := outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack return data: %w", err)
	}

	if len(values) == 1 {
		return values[0], nil
	}

	return values, nil
}
