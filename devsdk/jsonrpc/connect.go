package jsonrpc

import (
	"context"
	"fmt"
	"strings"
)

// Connect dials the node and picks the backend variant by sniffing
// web3_clientVersion.
func Connect(ctx context.Context, url string) (DevBackend, error) {
	transport, err := Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	backend, err := SelectBackend(ctx, transport)
	if err != nil {
		if closer, ok := transport.(interface{ Close() }); ok {
			closer.Close()
		}

		return nil, err
	}

	return backend, nil
}

// SelectBackend picks the variant for an already-open transport.
func SelectBackend(ctx context.Context, transport Transport) (DevBackend, error) {
	var version string
	if err := transport.CallContext(ctx, &version, "web3_clientVersion"); err != nil {
		return nil, fmt.Errorf("web3_clientVersion: %w", err)
	}

	return BackendForClientVersion(transport, version)
}

// BackendForClientVersion maps a client version string to a variant.
func BackendForClientVersion(transport Transport, version string) (DevBackend, error) {
	v := strings.ToLower(version)

	switch {
	case strings.Contains(v, "anvil"):
		return NewAnvilBackend(transport), nil
	case strings.Contains(v, "hardhat"):
		return NewHardhatBackend(transport), nil
	case strings.Contains(v, "ethereumjs"), strings.Contains(v, "ganache"):
		return NewGanacheBackend(transport), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClientVersion, version)
	}
}
