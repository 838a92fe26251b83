package receipt

import (
	"fmt"
	"strconv"
	"strings"
)

// Receipt is the canonical extracted record for a single receipt image.
type Receipt struct {
	ID               string   `json:"id"`
	Amount           float64  `json:"amount"`
	Date             string   `json:"date"`
	Vendor           string   `json:"vendor"`
	Category         []string `json:"category"`
	PaymentMethod    []string `json:"paymentMethod"`
	IsValidReceipt   bool     `json:"isValidReceipt"`
	ValidationError  string   `json:"validationError,omitempty"`
	ExcludeFromTable bool     `json:"excludeFromTable"`
	ExclusionReason  string   `json:"exclusionReason,omitempty"`
	SourceFile       string   `json:"source_file,omitempty"`
	SourceHash       string   `json:"source_hash,omitempty"`
}

// Key returns the dedup identity for a receipt. Source hash wins when present,
// then the extraction-assigned ID, then a composite of the visible fields.
func (r Receipt) Key() string {
	if r.SourceHash != "" {
		return r.SourceHash
	}
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
		r.Date,
		r.Vendor,
		strings.Join(r.Category, ","),
	)
}

// ExternalKey identifies a receipt from the spreadsheet's point of view. It is
// a string-coerced (date, amount, vendor) triple and is intentionally looser
// than Key: the spreadsheet holds no content hashes.
type ExternalKey struct {
	Date   string
	Amount string
	Vendor string
}

// ExternalKey returns the spreadsheet identity triple for a receipt.
func (r Receipt) ExternalKey() ExternalKey {
	return ExternalKey{
		Date:   r.Date,
		Amount: strconv.FormatFloat(r.Amount, 'f', -1, 64),
		Vendor: r.Vendor,
	}
}

// Invalid builds the synthetic record substituted for a file whose extraction
// failed, carrying the error message so the batch can continue.
func Invalid(sourceFile string, err error) Receipt {
	return Receipt{
		SourceFile:      sourceFile,
		IsValidReceipt:  false,
		ValidationError: fmt.Sprintf("Processing error: %v", err),
		Category:        []string{},
		PaymentMethod:   []string{},
	}
}

// Dedupe collapses receipts into a unique set keyed by Key. Later occurrences
// of a key overwrite earlier ones; output order follows first appearance of
// each key.
func Dedupe(receipts []Receipt) []Receipt {
	keyed := make(map[string]Receipt, len(receipts))
	order := make([]string, 0, len(receipts))
	for _, r := range receipts {
		key := r.Key()
		if _, seen := keyed[key]; !seen {
			order = append(order, key)
		}
		keyed[key] = r
	}
	out := make([]Receipt, 0, len(order))
	for _, key := range order {
		out = append(out, keyed[key])
	}
	return out
}

// Partition splits receipts into those destined for the table and those the
// extraction step flagged for exclusion. Input order is preserved in both
// halves.
func Partition(receipts []Receipt) (included, excluded []Receipt) {
	included = make([]Receipt, 0, len(receipts))
	excluded = make([]Receipt, 0)
	for _, r := range receipts {
		if r.ExcludeFromTable {
			excluded = append(excluded, r)
			continue
		}
		included = append(included, r)
	}
	return included, excluded
}

// ExclusionWarning renders the human-readable line reported for an excluded
// receipt.
func ExclusionWarning(r Receipt) string {
	reason := strings.TrimSpace(r.ExclusionReason)
	if reason == "" {
		reason = "No reason provided"
	}
	return fmt.Sprintf("%s ($%.2f): %s", r.Vendor, r.Amount, reason)
}
