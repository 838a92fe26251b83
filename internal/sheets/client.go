// Package sheets reconciles processed receipts against the household's Google
// Sheets spreadsheet: one worksheet per calendar month, five columns per row.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// API is the worksheet-level surface the reconciler needs. The production
// implementation is GoogleSheets; tests substitute a mock.
type API interface {
	// WorksheetTitles lists all worksheet titles in the spreadsheet
	WorksheetTitles(ctx context.Context) ([]string, error)

	// ReadRows returns all rows of a worksheet as the spreadsheet renders
	// them, header row included
	ReadRows(ctx context.Context, title string) ([][]string, error)

	// AppendRow appends one row to a worksheet
	AppendRow(ctx context.Context, title string, row []interface{}) error

	// OverwriteRows clears a worksheet and rewrites it from the first cell
	OverwriteRows(ctx context.Context, title string, rows [][]interface{}) error

	// CreateWorksheet adds a new, empty worksheet
	CreateWorksheet(ctx context.Context, title string) error
}

// GoogleSheets implements API against the Sheets v4 service.
type GoogleSheets struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleSheets authenticates with a service-account credentials file and
// binds to one spreadsheet.
func NewGoogleSheets(ctx context.Context, credentialsFile, spreadsheetID string) (*GoogleSheets, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("sheets credentials file is required")
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &GoogleSheets{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// worksheetRange quotes a worksheet title for use as an A1 range.
func worksheetRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// WorksheetTitles lists all worksheet titles in the spreadsheet
func (g *GoogleSheets) WorksheetTitles(ctx context.Context) ([]string, error) {
	resp, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

// ReadRows returns all rows of a worksheet as formatted strings
func (g *GoogleSheets) ReadRows(ctx context.Context, title string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, worksheetRange(title)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %s: %w", title, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow appends one row to a worksheet
func (g *GoogleSheets) AppendRow(ctx context.Context, title string, row []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, worksheetRange(title), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to worksheet %s: %w", title, err)
	}
	return nil
}

// OverwriteRows clears a worksheet and rewrites it from A1
func (g *GoogleSheets) OverwriteRows(ctx context.Context, title string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, worksheetRange(title), &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing worksheet %s: %w", title, err)
	}

	vr := &sheetsapi.ValueRange{Values: rows}
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, worksheetRange(title)+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rewriting worksheet %s: %w", title, err)
	}
	return nil
}

// CreateWorksheet adds a new, empty worksheet
func (g *GoogleSheets) CreateWorksheet(ctx context.Context, title string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating worksheet %s: %w", title, err)
	}
	return nil
}
