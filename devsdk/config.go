package devsdk

import (
	"time"

	"github.com/devnet-tools/sdk/devsdk/tx"
)

// ChainConfig configures one dev-chain connection.
type ChainConfig struct {
	URL string // Required, e.g. http://127.0.0.1:8545

	PollInterval   time.Duration // Defaults to 250ms
	WaitFastChecks int           // Defaults to 40

	ReceiptStoreDir string // Optional, leave empty to disable the receipt store
	ClientName      string // Optional, overrides web3_clientVersion sniffing
}

func (c ChainConfig) withDefaults() ChainConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = tx.DefaultPollInterval
	}

	if c.WaitFastChecks <= 0 {
		c.WaitFastChecks = tx.DefaultFastChecks
	}

	return c
}
