package evmtypes

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTransactionDataUnmarshal(t *testing.T) {
	raw := []byte(`{
		"hash": "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060",
		"blockHash": "0x6fd9e2a26ab7ca017fbc0a7c1a0adbd40f1b44b0bead1241d12f6a76feb1947f",
		"blockNumber": "0x5bad55",
		"from": "0x398137383b3d25c92898c656696e41950e47316b",
		"to": "0x06012c8cf97bead5deae237070f9587f8e7a266d",
		"gas": "0x1d45e",
		"gasPrice": "0xfa56ea00",
		"input": "0xf009",
		"nonce": "0x18",
		"transactionIndex": "0x11",
		"value": "0x1c6bf526340000",
		"type": "0x0",
		"v": "0x25",
		"r": "0x1b5e176d927f8e9ab405058b2d2457392da3e20f328b16ddabcebc33eaac5fea",
		"s": "0x4ba69724e8f69de52f0125ad8b3c5c2cef33019bac3249e2c0a2192766d1721c"
	}`)

	var txData TransactionData
	require.NoError(t, json.Unmarshal(raw, &txData))

	txData.Raw = raw

	assert.Equal(t, TxTypeLegacy, txData.TypeTag())
	assert.Equal(t, uint64(0x18), uint64(txData.Nonce))
	assert.Equal(t, uint64(0x1d45e), uint64(txData.Gas))
	assert.Equal(t, uint64(0x11), uint64(*txData.TransactionIndex))
	assert.Equal(t, uint64(0x5bad55), uint64(*txData.BlockNumber))
	assert.Equal(t,
		common.HexToAddress("0x398137383b3d25c92898c656696e41950e47316b"),
		txData.From,
	)
	require.NotNil(t, txData.To)
	assert.Equal(t, big.NewInt(0x1c6bf526340000), (*big.Int)(txData.Value))
	assert.Equal(t, big.NewInt(0x25), (*big.Int)(txData.V))
	assert.Nil(t, txData.MaxFeePerGas)

	// node-specific field access goes through the raw JSON
	value, err := txData.GetCustomField("gasPrice")
	require.NoError(t, err)
	assert.Equal(t, "0xfa56ea00", value)

	_, err = txData.GetCustomField("yParity")
	require.ErrorIs(t, err, ErrFieldNotFound)
}

func TestTransactionDataDynamicFee(t *testing.T) {
	raw := []byte(`{
		"hash": "0x0000000000000000000000000000000000000000000000000000000000000001",
		"from": "0x0000000000000000000000000000000000000001",
		"to": null,
		"gas": "0x5208",
		"nonce": "0x0",
		"input": "0x",
		"value": "0x0",
		"type": "0x2",
		"maxFeePerGas": "0x77359400",
		"maxPriorityFeePerGas": "0x3b9aca00",
		"chainId": "0x7a69",
		"accessList": []
	}`)

	var txData TransactionData
	require.NoError(t, json.Unmarshal(raw, &txData))

	assert.Equal(t, TxTypeDynamicFee, txData.TypeTag())
	assert.Nil(t, txData.To)
	assert.Nil(t, txData.GasPrice)
	assert.Equal(t, big.NewInt(0x77359400), (*big.Int)(txData.MaxFeePerGas))
	assert.Equal(t, big.NewInt(0x3b9aca00), (*big.Int)(txData.MaxPriorityFeePerGas))
	assert.Nil(t, txData.BlockHash)
	assert.Nil(t, txData.BlockNumber)
}

func TestReceiptUnmarshal(t *testing.T) {
	t.Run("successful call", func(t *testing.T) {
		raw := []byte(`{
			"transactionHash": "0x0000000000000000000000000000000000000000000000000000000000000abc",
			"status": "0x1",
			"gasUsed": "0x5208",
			"cumulativeGasUsed": "0xa410",
			"contractAddress": null,
			"logs": [],
			"blockNumber": "0x10",
			"transactionIndex": "0x0"
		}`)

		var receipt Receipt
		require.NoError(t, json.Unmarshal(raw, &receipt))

		assert.True(t, receipt.Succeeded())
		assert.Nil(t, receipt.ContractAddress)
		assert.Equal(t, uint64(0x5208), uint64(receipt.GasUsed))
	})

	t.Run("failed creation", func(t *testing.T) {
		raw := []byte(`{
			"transactionHash": "0x0000000000000000000000000000000000000000000000000000000000000abc",
			"status": "0x0",
			"gasUsed": "0x30d40",
			"cumulativeGasUsed": "0x30d40",
			"contractAddress": "0x5fbdb2315678afecb367f032d93f642f64180aa3",
			"logs": []
		}`)

		var receipt Receipt
		require.NoError(t, json.Unmarshal(raw, &receipt))

		assert.False(t, receipt.Succeeded())
		require.NotNil(t, receipt.ContractAddress)
		assert.Equal(t,
			common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3"),
			*receipt.ContractAddress,
		)
	})
}

func TestCallFrameOutermost(t *testing.T) {
	raw := []byte(`[
		{
			"action": {
				"from": "0x0000000000000000000000000000000000000001",
				"to": "0x0000000000000000000000000000000000000002",
				"callType": "call",
				"gas": "0x1d45e",
				"input": "0x",
				"value": "0x0"
			},
			"result": {"gasUsed": "0x5208", "output": "0x000000000000000000000000000000000000000000000000000000000000002a"},
			"traceAddress": [],
			"subtraces": 1,
			"type": "call"
		},
		{
			"action": {
				"from": "0x0000000000000000000000000000000000000002",
				"to": "0x0000000000000000000000000000000000000003",
				"callType": "staticcall",
				"gas": "0x100",
				"input": "0x",
				"value": "0x0"
			},
			"result": {"gasUsed": "0x10", "output": "0x"},
			"traceAddress": [0],
			"subtraces": 0,
			"type": "call"
		}
	]`)

	var frames []CallFrame
	require.NoError(t, json.Unmarshal(raw, &frames))
	require.Len(t, frames, 2)

	assert.True(t, frames[0].Outermost())
	assert.False(t, frames[1].Outermost())
	assert.Len(t, []byte(frames[0].Result.Output), 32)
}

func TestDebugTraceReturnBytes(t *testing.T) {
	tests := []struct {
		name        string
		returnValue string
		want        []byte
		wantErr     bool
	}{
		{name: "unprefixed", returnValue: "002a", want: []byte{0x00, 0x2a}},
		{name: "prefixed", returnValue: "0x002a", want: []byte{0x00, 0x2a}},
		{name: "empty", returnValue: "", want: []byte{}},
		{name: "garbage", returnValue: "zz", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trace := DebugTrace{ReturnValue: tc.returnValue}

			got, err := trace.ReturnBytes()
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTxParamsEncode(t *testing.T) {
	to := common.HexToAddress("0x06012c8cf97bead5deae237070f9587f8e7a266d")
	from := common.HexToAddress("0x398137383b3d25c92898c656696e41950e47316b")
	gas := uint64(21000)
	nonce := uint64(7)

	params := TxParams{
		From:     &from,
		To:       &to,
		Gas:      &gas,
		Nonce:    &nonce,
		Value:    big.NewInt(1000),
		Data:     []byte{0xf0, 0x09},
		GasPrice: big.NewInt(42),
	}

	enc := params.Encode()

	assert.Equal(t, from.Hex(), enc["from"])
	assert.Equal(t, to.Hex(), enc["to"])
	assert.Equal(t, "0x5208", enc["gas"])
	assert.Equal(t, "0x7", enc["nonce"])
	assert.Equal(t, "0x3e8", enc["value"])
	assert.Equal(t, "0xf009", enc["data"])
	assert.Equal(t, "0x2a", enc["gasPrice"])

	// unset fields must be omitted entirely
	for _, key := range []string{"type", "maxFeePerGas", "maxPriorityFeePerGas", "accessList", "chainId"} {
		_, ok := enc[key]
		assert.False(t, ok, "unexpected key %q", key)
	}

	assert.False(t, params.CreatesContract())
	assert.True(t, (&TxParams{}).CreatesContract())
}

func TestTxParamsEncodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gas := rapid.Uint64().Draw(rt, "gas")
		nonce := rapid.Uint64().Draw(rt, "nonce")
		value := new(big.Int).SetUint64(rapid.Uint64().Draw(rt, "value"))

		params := TxParams{Gas: &gas, Nonce: &nonce, Value: value}
		enc := params.Encode()

		gotGas, err := parseHexUint(enc["gas"].(string))
		require.NoError(rt, err)
		require.Equal(rt, gas, gotGas)

		gotNonce, err := parseHexUint(enc["nonce"].(string))
		require.NoError(rt, err)
		require.Equal(rt, nonce, gotNonce)

		gotValue, ok := new(big.Int).SetString(enc["value"].(string)[2:], 16)
		require.True(rt, ok)
		require.Zero(rt, value.Cmp(gotValue))
	})
}

func parseHexUint(s string) (uint64, error) {
	v, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return 0, ErrFieldNotFound
	}

	return v.Uint64(), nil
}

func TestDecodeHex(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "payload")

		prefixed, err := DecodeHex("0x" + hexString(payload))
		require.NoError(rt, err)
		require.Equal(rt, payload, prefixed)

		bare, err := DecodeHex(hexString(payload))
		require.NoError(rt, err)
		require.Equal(rt, bare, prefixed)
	})
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"

	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, digits[c>>4], digits[c&0xf])
	}

	return string(out)
}

func TestTxTypeString(t *testing.T) {
	assert.Equal(t, "Legacy", TxTypeLegacy.String())
	assert.Equal(t, "AccessList", TxTypeAccessList.String())
	assert.Equal(t, "DynamicFee", TxTypeDynamicFee.String())
	assert.Equal(t, "Unknown", TxType(9).String())
}
