package receipt

import "time"

// dateFormats are the accepted receipt date spellings, tried in order. The
// first match wins.
var dateFormats = []string{
	"01/02/2006",
	"2006-01-02",
	"01/02/06",
}

// ParseDate parses a receipt date string. The second return is false when no
// accepted format matches; callers skip or report per context.
func ParseDate(s string) (time.Time, bool) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WorksheetTitle returns the spreadsheet partition name for a date, one
// worksheet per calendar month.
func WorksheetTitle(t time.Time) string {
	return t.Format("January 2006")
}
