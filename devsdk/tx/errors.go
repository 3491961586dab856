package tx

import "errors"

var (
	// ErrReplayNotReverted means the replayed eth_call of a failed
	// transaction did not revert. The chain state diverged from the mined
	// block, which is an internal-consistency defect, not a user error.
	ErrReplayNotReverted = errors.New("replay call did not revert")

	// ErrUnexpectedLogs means a contract-creation transaction carries
	// receipt logs. There is no recipient contract to attribute them to.
	ErrUnexpectedLogs = errors.New("contract-creation transaction has receipt logs")

	// ErrTxTypeMismatch means a type-specific field was read through the
	// wrong transaction type view.
	ErrTxTypeMismatch = errors.New("transaction type mismatch")

	// ErrTraceShape means the backend trace does not have the expected
	// form, e.g. no outermost call frame.
	ErrTraceShape = errors.New("unexpected trace shape")
)
