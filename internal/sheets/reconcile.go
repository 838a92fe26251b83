package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"receiptranger/internal/receipt"
)

// headerRow is the canonical five-column layout. The blank third column is
// part of the spreadsheet's historical shape and is preserved everywhere.
var headerRow = []interface{}{"Amount", "Date", "", "Vendor", "Category"}

// Reconciler matches candidate receipts against what the spreadsheet already
// holds and uploads the genuinely new ones.
type Reconciler struct {
	api API
}

// NewReconciler creates a Reconciler over a worksheet API.
func NewReconciler(api API) *Reconciler {
	return &Reconciler{api: api}
}

// columnIndex finds a header column by name, -1 when absent.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// cell returns row[i] or "" when the row is shorter.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// worksheetKeys extracts the (date, amount, vendor) triples from one
// worksheet's rows, header-mapped and string-coerced exactly as rendered.
func worksheetKeys(rows [][]string) map[receipt.ExternalKey]struct{} {
	keys := make(map[receipt.ExternalKey]struct{})
	if len(rows) == 0 {
		return keys
	}
	header := rows[0]
	dateIdx := columnIndex(header, "Date")
	amountIdx := columnIndex(header, "Amount")
	vendorIdx := columnIndex(header, "Vendor")

	for _, row := range rows[1:] {
		key := receipt.ExternalKey{
			Date:   cell(row, dateIdx),
			Amount: cell(row, amountIdx),
			Vendor: cell(row, vendorIdx),
		}
		if key.Date == "" || key.Amount == "" || key.Vendor == "" {
			continue
		}
		keys[key] = struct{}{}
	}
	return keys
}

// ExistingKeys returns the union of (date, amount, vendor) triples across all
// worksheets of the spreadsheet.
func (r *Reconciler) ExistingKeys(ctx context.Context) (map[receipt.ExternalKey]struct{}, error) {
	titles, err := r.api.WorksheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}

	keys := make(map[receipt.ExternalKey]struct{})
	for _, title := range titles {
		rows, err := r.api.ReadRows(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("reading worksheet %s: %w", title, err)
		}
		for key := range worksheetKeys(rows) {
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}

// FilterNew returns the subset of receipts whose external key is not already
// present anywhere in the spreadsheet.
func (r *Reconciler) FilterNew(ctx context.Context, receipts []receipt.Receipt) ([]receipt.Receipt, error) {
	existing, err := r.ExistingKeys(ctx)
	if err != nil {
		return nil, err
	}

	fresh := make([]receipt.Receipt, 0, len(receipts))
	for _, rec := range receipts {
		if _, dup := existing[rec.ExternalKey()]; dup {
			continue
		}
		fresh = append(fresh, rec)
	}
	return fresh, nil
}

// uploadRow renders a receipt as a spreadsheet row in the canonical layout.
func uploadRow(rec receipt.Receipt) []interface{} {
	return []interface{}{
		rec.Amount,
		rec.Date,
		"",
		rec.Vendor,
		strings.Join(rec.Category, ", "),
	}
}

// worksheetState caches one partition's existence and key set during an
// upload.
type worksheetState struct {
	keys map[receipt.ExternalKey]struct{}
}

// Upload appends receipts to their monthly worksheets, creating partitions
// with a header row as needed and re-checking per-worksheet duplicates before
// every append. Receipts with unparseable dates are reported and skipped.
// Returns the number of uploaded receipts and the per-item errors encountered.
func (r *Reconciler) Upload(ctx context.Context, receipts []receipt.Receipt) (int, []error) {
	titles, err := r.api.WorksheetTitles(ctx)
	if err != nil {
		return 0, []error{fmt.Errorf("listing worksheets: %w", err)}
	}
	have := make(map[string]bool, len(titles))
	for _, title := range titles {
		have[title] = true
	}

	var errs []error
	uploaded := 0
	worksheets := make(map[string]*worksheetState)

	for _, rec := range receipts {
		date, ok := receipt.ParseDate(rec.Date)
		if !ok {
			errs = append(errs, fmt.Errorf("could not parse date %q for %s", rec.Date, rec.Vendor))
			continue
		}
		title := receipt.WorksheetTitle(date)

		ws, cached := worksheets[title]
		if !cached {
			ws = &worksheetState{}
			if !have[title] {
				if err := r.api.CreateWorksheet(ctx, title); err != nil {
					errs = append(errs, fmt.Errorf("creating worksheet %s: %w", title, err))
					continue
				}
				if err := r.api.AppendRow(ctx, title, headerRow); err != nil {
					errs = append(errs, fmt.Errorf("writing header for %s: %w", title, err))
					continue
				}
				have[title] = true
				ws.keys = make(map[receipt.ExternalKey]struct{})
			} else {
				rows, err := r.api.ReadRows(ctx, title)
				if err != nil {
					errs = append(errs, fmt.Errorf("reading worksheet %s: %w", title, err))
					continue
				}
				ws.keys = worksheetKeys(rows)
			}
			worksheets[title] = ws
		}

		key := rec.ExternalKey()
		if _, dup := ws.keys[key]; dup {
			slog.Info("Skipping duplicate receipt", "vendor", rec.Vendor, "date", rec.Date)
			continue
		}

		if err := r.api.AppendRow(ctx, title, uploadRow(rec)); err != nil {
			errs = append(errs, fmt.Errorf("appending receipt for %s: %w", rec.Vendor, err))
			continue
		}
		ws.keys[key] = struct{}{}
		uploaded++
	}

	return uploaded, errs
}
