package tx

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/devnet-tools/sdk/devsdk/jsonrpc"
)

// consoleAddress is the well-known console.log precompile address used by
// hardhat's console.sol and honored by anvil.
var consoleAddress = common.HexToAddress("0x000000000000000000636F6e736F6c652e6c6f67")

type consoleDecoder struct {
	args abi.Arguments
}

// console.log single-argument selectors, keyed by keccak of the signature.
var consoleDecoders map[[4]byte]consoleDecoder

func init() {
	consoleDecoders = make(map[[4]byte]consoleDecoder)

	for _, sig := range []struct {
		signature string
		typ       string
	}{
		{"log(string)", "string"},
		{"log(uint256)", "uint256"},
		{"log(int256)", "int256"},
		{"log(bool)", "bool"},
		{"log(address)", "address"},
		{"log(bytes)", "bytes"},
	} {
		typ, err := abi.NewType(sig.typ, "", nil)
		if err != nil {
			panic(err)
		}

		var selector [4]byte
		copy(selector[:], crypto.Keccak256([]byte(sig.signature))[:4])

		consoleDecoders[selector] = consoleDecoder{args: abi.Arguments{{Type: typ}}}
	}
}

// ConsoleLogs extracts console.log output from the transaction's call
// trace. Only the full-trace backend variant can recover it; on the
// others the caller must branch on capability first, there is no
// degraded behavior.
func (t *Transaction) ConsoleLogs(ctx context.Context) ([]string, error) {
	if _, err := t.receiptData(ctx); err != nil {
		return nil, err
	}

	if !t.backend.Capabilities().Has(jsonrpc.CapConsoleLogs) {
		return nil, fmt.Errorf(
			"%w: %s cannot recover console logs",
			jsonrpc.ErrUnsupportedCapability,
			t.backend.Name(),
		)
	}

	frames, err := t.callTraceData(ctx)
	if err != nil {
		return nil, err
	}

	var logs []string

	for i := range frames {
		action := frames[i].Action
		if action.To == nil || *action.To != consoleAddress {
			continue
		}

		logs = append(logs, decodeConsoleCall(action.Input))
	}

	return logs, nil
}

// decodeConsoleCall renders one console.log call's input. Unknown
// selectors fall back to the hex form of the input.
func decodeConsoleCall(input []byte) string {
	if len(input) < 4 {
		return hexutil.Encode(input)
	}

	var selector [4]byte
	copy(selector[:], input[:4])

	decoder, ok := consoleDecoders[selector]
	if !ok {
		return hexutil.Encode(input)
	}

	values, err := decoder.args.Unpack(input[4:])
	if err != nil || len(values) != 1 {
		return hexutil.Encode(input)
	}

	switch v := values[0].(type) {
	case string:
		return v
	case *big.Int:
		return v.String()
	case bool:
		return fmt.Sprintf("%t", v)
	case common.Address:
		return v.Hex()
	case []byte:
		return hexutil.Encode(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
