package devsdk

type SDKError string

func (e SDKError) Error() string {
	return string(e)
}

const (
	ErrMissingURL    = SDKError("missing chain URL")
	ErrNotConnected  = SDKError("chain not connected")
	ErrStoreDisabled = SDKError("receipt store not configured")
)
