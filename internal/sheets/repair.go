package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// recordWidth is the fixed number of cells in a receipt row.
const recordWidth = 5

// parsesAsAmount reports whether a cell holds a decimal money value.
func parsesAsAmount(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// realignRow extracts the five-cell record from a possibly misaligned row:
// the record starts at the first non-blank cell and must lead with a decimal
// amount. Returns the record, whether the row was shifted, and whether it
// validated at all.
func realignRow(row []string) (record []string, shifted, ok bool) {
	start := -1
	for i, c := range row {
		if strings.TrimSpace(c) != "" {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, false, false
	}

	record = make([]string, recordWidth)
	for i := 0; i < recordWidth; i++ {
		if start+i < len(row) {
			record[i] = row[start+i]
		}
	}
	if !parsesAsAmount(record[0]) {
		return nil, false, false
	}
	return record, start != 0, true
}

// RepairWorksheet realigns rows whose data drifted right of the first column
// (diagonal legacy data) and restores the canonical header. Rows that do not
// validate as amount-led records are dropped as unsalvageable. The rewrite
// happens only when something actually changed, so running it again on an
// aligned worksheet performs no writes. Returns whether a rewrite occurred.
func (r *Reconciler) RepairWorksheet(ctx context.Context, title string) (bool, error) {
	rows, err := r.api.ReadRows(ctx, title)
	if err != nil {
		return false, fmt.Errorf("reading worksheet %s: %w", title, err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	dirty := !headerMatches(rows[0])

	kept := make([][]interface{}, 0, len(rows))
	kept = append(kept, headerRow)
	for _, row := range rows[1:] {
		record, shifted, ok := realignRow(row)
		if !ok {
			slog.Warn("Dropping unsalvageable row", "worksheet", title, "row", strings.Join(row, " | "))
			dirty = true
			continue
		}
		if shifted {
			dirty = true
		}
		cells := make([]interface{}, recordWidth)
		for i, c := range record {
			cells[i] = c
		}
		kept = append(kept, cells)
	}

	if !dirty {
		return false, nil
	}

	if err := r.api.OverwriteRows(ctx, title, kept); err != nil {
		return false, fmt.Errorf("rewriting worksheet %s: %w", title, err)
	}
	slog.Info("Repaired worksheet", "worksheet", title, "rows", len(kept)-1)
	return true, nil
}

// headerMatches reports whether a read-back header row is the canonical one.
// Trailing blank cells are tolerated because the spreadsheet drops them on
// read.
func headerMatches(row []string) bool {
	for i, want := range headerRow {
		if cell(row, i) != want.(string) {
			return false
		}
	}
	for i := recordWidth; i < len(row); i++ {
		if strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}

// RepairAll runs RepairWorksheet over every worksheet in the spreadsheet and
// returns the titles that were rewritten.
func (r *Reconciler) RepairAll(ctx context.Context) ([]string, error) {
	titles, err := r.api.WorksheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}

	var repaired []string
	for _, title := range titles {
		changed, err := r.RepairWorksheet(ctx, title)
		if err != nil {
			return repaired, err
		}
		if changed {
			repaired = append(repaired, title)
		}
	}
	return repaired, nil
}
