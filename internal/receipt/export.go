package receipt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// tsvHeader keeps a deliberately blank third column so the file pastes into
// the spreadsheet's existing layout unchanged.
const tsvHeader = "Amount\tDate\t\tVendor\tCategory"

// BuildTSVLines renders receipts as spreadsheet-compatible TSV lines, header
// first. Embedded tabs or newlines in vendor/category text are not escaped.
func BuildTSVLines(receipts []Receipt) []string {
	lines := make([]string, 0, len(receipts)+1)
	lines = append(lines, tsvHeader)
	for _, r := range receipts {
		lines = append(lines, fmt.Sprintf("%.2f\t%s\t\t%s\t%s",
			r.Amount, r.Date, r.Vendor, strings.Join(r.Category, ", ")))
	}
	return lines
}

// BuildJSON renders receipts as an indented JSON array.
func BuildJSON(receipts []Receipt) ([]byte, error) {
	data, err := json.MarshalIndent(receipts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling receipts: %w", err)
	}
	return data, nil
}

// RenderTable writes a fixed-width console table of receipts, matching the
// TSV column order including the blank spacer column.
func RenderTable(w io.Writer, receipts []Receipt) {
	if len(receipts) == 0 {
		return
	}

	amountWidth := len("Amount")
	dateWidth := len("Date")
	vendorWidth := len("Vendor")
	categoryWidth := len("Category")
	const blankWidth = 5

	categories := make([]string, len(receipts))
	for i, r := range receipts {
		categories[i] = strings.Join(r.Category, ", ")
		amountWidth = max(amountWidth, len(fmt.Sprintf("%.2f", r.Amount)))
		dateWidth = max(dateWidth, len(r.Date))
		vendorWidth = max(vendorWidth, len(r.Vendor))
		categoryWidth = max(categoryWidth, len(categories[i]))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s\n",
		amountWidth, "Amount", dateWidth, "Date", blankWidth, "",
		vendorWidth, "Vendor", categoryWidth, "Category")
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		strings.Repeat("-", amountWidth), strings.Repeat("-", dateWidth),
		strings.Repeat("-", blankWidth), strings.Repeat("-", vendorWidth),
		strings.Repeat("-", categoryWidth))
	for i, r := range receipts {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s\n",
			amountWidth, fmt.Sprintf("%.2f", r.Amount), dateWidth, r.Date,
			blankWidth, "", vendorWidth, r.Vendor, categoryWidth, categories[i])
	}
}
