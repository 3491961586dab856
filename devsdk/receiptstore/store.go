package receiptstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/ledgerwatch/erigon-lib/kv"
	"github.com/ledgerwatch/erigon-lib/kv/mdbx"
	mdbxlog "github.com/ledgerwatch/log/v3"

	"github.com/devnet-tools/sdk/devsdk/evmtypes"
)

const ReceiptBucket = "tx_receipts" // tx-hash -> stored receipt

var ErrNotFinal = errors.New("refusing to store a non-final receipt")

// storedReceipt is the CBOR envelope written to MDBX. The receipt itself
// is kept as its wire JSON so node-specific raw fields survive a restart.
type storedReceipt struct {
	TxHash  [32]byte `cbor:"1,keyasint"`
	Body    []byte   `cbor:"2,keyasint"`
	SavedAt int64    `cbor:"3,keyasint"`
}

// Store is a persistent cache of mined receipts keyed by transaction hash.
// Mined receipts are immutable, so a test session can skip the node on
// re-runs. Pending probes are never stored.
type Store struct {
	db kv.RwDB
}

// Open creates or opens the MDBX-backed store at path.
func Open(path string) (*Store, error) {
	db, err := mdbx.NewMDBX(mdbxlog.New()).
		Path(path).
		WithTableCfg(func(kv.TableCfg) kv.TableCfg {
			return kv.TableCfg{
				ReceiptBucket: {},
			}
		}).
		Open()
	if err != nil {
		return nil, fmt.Errorf("open receipt store: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database, used by tests with an in-memory kv.
func NewWithDB(db kv.RwDB) *Store {
	return &Store{db: db}
}

// Put stores a mined receipt.
func (s *Store) Put(ctx context.Context, receipt *evmtypes.Receipt) error {
	if receipt == nil {
		return ErrNotFinal
	}

	body := receipt.Raw
	if len(body) == 0 {
		var err error

		body, err = json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("encode receipt %s: %w", receipt.TxHash, err)
		}
	}

	value, err := cbor.Marshal(storedReceipt{
		TxHash:  receipt.TxHash,
		Body:    body,
		SavedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("encode stored receipt %s: %w", receipt.TxHash, err)
	}

	return s.db.Update(ctx, func(txn kv.RwTx) error {
		return txn.Put(ReceiptBucket, receipt.TxHash.Bytes(), value)
	})
}

// Get returns the stored receipt, or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, hash common.Hash) (*evmtypes.Receipt, error) {
	var value []byte

	err := s.db.View(ctx, func(txn kv.Tx) error {
		var err error
		value, err = txn.GetOne(ReceiptBucket, hash.Bytes())

		return err
	})
	if err != nil {
		return nil, err
	}

	if len(value) == 0 {
		return nil, nil
	}

	var stored storedReceipt
	if err := cbor.Unmarshal(value, &stored); err != nil {
		return nil, fmt.Errorf("decode stored receipt %s: %w", hash, err)
	}

	var receipt evmtypes.Receipt
	if err := json.Unmarshal(stored.Body, &receipt); err != nil {
		return nil, fmt.Errorf("decode receipt body %s: %w", hash, err)
	}

	receipt.Raw = stored.Body

	return &receipt, nil
}

func (s *Store) Close() {
	s.db.Close()
}
