package jsonrpc

import "errors"

var (
	// ErrUnsupportedCapability marks an operation invoked on a backend
	// variant that does not provide it. Distinct from transport failures
	// so callers can branch on capability.
	ErrUnsupportedCapability = errors.New("capability not supported by backend")

	// ErrDataUnavailable means the node could not supply requested data,
	// e.g. a pruned transaction. Distinct from a timeout.
	ErrDataUnavailable = errors.New("data unavailable on backend")

	// ErrNoRevertData means a backend error did not carry a revert payload
	// at the depth this variant nests it.
	ErrNoRevertData = errors.New("backend error carries no revert data")

	ErrUnknownClientVersion = errors.New("unknown client version")
)
