package receipt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const archiveBucket = "receipts"

// Archive defines the interface for the durable receipt archive
type Archive interface {
	// SaveReceipt stores a receipt under its dedup key, replacing any
	// earlier record with the same key
	SaveReceipt(receipt *Receipt) error

	// GetReceipt retrieves a receipt by dedup key
	GetReceipt(key string) (*Receipt, error)

	// ListReceipts returns all archived receipts
	ListReceipts() ([]*Receipt, error)

	// DeleteReceipt removes a receipt from the archive
	DeleteReceipt(key string) error

	// Close closes the archive
	Close() error
}

// BoltArchive implements the Archive interface using BoltDB
type BoltArchive struct {
	db *bbolt.DB
}

// NewBoltArchive opens (or creates) a BoltDB-backed receipt archive
func NewBoltArchive(path string) (*BoltArchive, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(archiveBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltArchive{db: db}, nil
}

// SaveReceipt stores a receipt under its dedup key
func (b *BoltArchive) SaveReceipt(receipt *Receipt) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(archiveBucket))
		data, err := json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return bucket.Put([]byte(receipt.Key()), data)
	})
}

// GetReceipt retrieves a receipt by dedup key
func (b *BoltArchive) GetReceipt(key string) (*Receipt, error) {
	var receipt *Receipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(archiveBucket))
		data := bucket.Get([]byte(key))
		if data == nil {
			return fmt.Errorf("receipt not found: %s", key)
		}
		return json.Unmarshal(data, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceipts returns all archived receipts
func (b *BoltArchive) ListReceipts() ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(archiveBucket))
		return bucket.ForEach(func(k, v []byte) error {
			var receipt Receipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipts = append(receipts, &receipt)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt from the archive
func (b *BoltArchive) DeleteReceipt(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(archiveBucket))
		return bucket.Delete([]byte(key))
	})
}

// Close closes the archive
func (b *BoltArchive) Close() error {
	return b.db.Close()
}

// Filter selects archived receipts for the history report. Zero values mean
// "no constraint"; MinAmount/MaxAmount use negative sentinels because 0 is a
// legitimate bound.
type Filter struct {
	Month     string // YYYY-MM, matched against the parsed receipt date
	Vendor    string // case-insensitive substring
	MinAmount float64
	MaxAmount float64
	Category  string // canonical label (use ParseCategory on user input)
}

// NewFilter returns a Filter with unset amount bounds.
func NewFilter() Filter {
	return Filter{MinAmount: -1, MaxAmount: -1}
}

// Match reports whether a receipt satisfies every set constraint.
func (f Filter) Match(r Receipt) bool {
	if f.Month != "" {
		date, ok := ParseDate(r.Date)
		if !ok || date.Format("2006-01") != f.Month {
			return false
		}
	}
	if f.Vendor != "" && !strings.Contains(strings.ToLower(r.Vendor), strings.ToLower(f.Vendor)) {
		return false
	}
	if f.MinAmount >= 0 && r.Amount < f.MinAmount {
		return false
	}
	if f.MaxAmount >= 0 && r.Amount > f.MaxAmount {
		return false
	}
	if f.Category != "" {
		found := false
		for _, c := range r.Category {
			if c == f.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterReceipts returns the archived receipts matching a filter, in archive
// iteration order.
func FilterReceipts(a Archive, f Filter) ([]*Receipt, error) {
	all, err := a.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	matched := make([]*Receipt, 0, len(all))
	for _, r := range all {
		if f.Match(*r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
