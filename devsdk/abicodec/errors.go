package abicodec

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var ErrUnknownMethod = errors.New("unknown method")

// argument lists for the two builtin revert shapes
var (
	stringArgs  abi.Arguments
	uint256Args abi.Arguments
)

func init() {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}

	uint256Type, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(err)
	}

	stringArgs = abi.Arguments{{Type: stringType}}
	uint256Args = abi.Arguments{{Type: uint256Type}}
}
