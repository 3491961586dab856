package evmtypes

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// DecodeHex decodes a hex string with or without a 0x prefix. The empty
// string decodes to empty bytes.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return []byte{}, nil
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex %q: %w", s, err)
	}

	return b, nil
}

// GetCustomFieldFromRaw extracts a node-specific field from raw JSON.
// Shared by all wire types to avoid code duplication.
func GetCustomFieldFromRaw(raw json.RawMessage, fieldName string) (any, error) {
	if len(raw) == 0 {
		return nil, ErrRawJSONNotAvailable
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw JSON: %w", err)
	}

	value, exists := data[fieldName]
	if !exists {
		return nil, ErrFieldNotFound
	}

	return value, nil
}
