package pipeline

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"receiptranger/internal/receipt"
	"receiptranger/internal/scanning"
)

// Result is the outcome of processing one planned file. Exactly one of
// Receipt/Err carries the payload: a nil Err means Receipt holds the
// extraction output (which may still be a model-declared invalid receipt).
type Result struct {
	File    PlannedFile
	Receipt receipt.Receipt
	Err     error
}

// Failed reports whether the file could not be read or extracted at all.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Service runs extraction over a planned batch of receipt files.
type Service struct {
	scanner scanning.Scanner
}

// NewService creates a processing Service around a scanner.
func NewService(scanner scanning.Scanner) *Service {
	return &Service{scanner: scanner}
}

// ProcessFiles reads and scans each planned file sequentially. Per-file
// failures are captured in the result and never abort the batch.
func (s *Service) ProcessFiles(plan []PlannedFile, exclusionCriteria string) []Result {
	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	log.Info("Processing receipts", "count", len(plan))

	results := make([]Result, 0, len(plan))
	for _, file := range plan {
		log.Info("Extracting receipt", "file", file.Name)
		r, err := s.processFile(file, exclusionCriteria)
		if err != nil {
			log.Error("Failed to process receipt", "file", file.Name, "error", err)
			results = append(results, Result{File: file, Receipt: receipt.Invalid(file.Name, err), Err: err})
			continue
		}
		results = append(results, Result{File: file, Receipt: r})
	}
	return results
}

// processFile reads, scans, and normalizes one receipt image.
func (s *Service) processFile(file PlannedFile, exclusionCriteria string) (receipt.Receipt, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("reading file: %w", err)
	}

	scanned, err := s.scanner.ScanReceipt(data, MIMEType(file.Name), exclusionCriteria)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("scanning receipt: %w", err)
	}

	return receipt.Receipt{
		ID:               scanned.ID,
		Amount:           scanned.Amount,
		Date:             scanned.Date,
		Vendor:           scanned.Vendor,
		Category:         receipt.NormalizeCategories(scanned.Category),
		PaymentMethod:    scanned.PaymentMethod,
		IsValidReceipt:   scanned.IsValidReceipt,
		ValidationError:  scanned.ValidationError,
		ExcludeFromTable: scanned.ExcludeFromTable,
		ExclusionReason:  scanned.ExclusionReason,
		SourceFile:       file.Name,
		SourceHash:       file.Fingerprint,
	}, nil
}

// ValidReceipts returns the receipts from results whose extraction succeeded
// and which the model recognized as actual receipts.
func ValidReceipts(results []Result) []receipt.Receipt {
	valid := make([]receipt.Receipt, 0, len(results))
	for _, r := range results {
		if r.Failed() || !r.Receipt.IsValidReceipt {
			continue
		}
		valid = append(valid, r.Receipt)
	}
	return valid
}

// InvalidResults returns the results that failed outright or were rejected by
// the model, for per-file reporting.
func InvalidResults(results []Result) []Result {
	invalid := make([]Result, 0)
	for _, r := range results {
		if r.Failed() || !r.Receipt.IsValidReceipt {
			invalid = append(invalid, r)
		}
	}
	return invalid
}
