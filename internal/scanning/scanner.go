package scanning

// ReceiptData contains the structured fields extracted from a receipt image
type ReceiptData struct {
	ID              string   `json:"id"`
	Amount          float64  `json:"amount"`
	Date            string   `json:"date"`
	Vendor          string   `json:"vendor"`
	Category        []string `json:"category"`
	PaymentMethod   []string `json:"paymentMethod"`
	IsValidReceipt  bool     `json:"isValidReceipt"`
	ValidationError string   `json:"validationError"`
	// ExcludeFromTable is set by the model when the receipt matches the
	// user's exclusion criteria supplied with the scan request.
	ExcludeFromTable bool   `json:"excludeFromTable"`
	ExclusionReason  string `json:"exclusionReason"`
}

// Scanner defines the interface for receipt extraction providers
type Scanner interface {
	// ScanReceipt analyzes a receipt image and extracts structured data.
	// exclusionCriteria is the user's plain-text rules for flagging
	// receipts that should stay out of the expense table.
	ScanReceipt(imageData []byte, contentType string, exclusionCriteria string) (*ReceiptData, error)
	// Close closes the scanner and releases resources
	Close() error
}
