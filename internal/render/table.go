package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// newTable returns a go-pretty table writer configured the way the
// teacher's terminal formatter configures its collection tables: light
// style, no borders or row separators, just aligned columns and a header.
func newTable(header table.Row) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	tbl.AppendHeader(header)

	return tbl
}

// formatTimestamp renders a unix-seconds timestamp as RFC 3339 UTC, or "-"
// for the zero value (a report with no meaningful timestamp).
func formatTimestamp(unixSeconds int64) string {
	if unixSeconds == 0 {
		return "-"
	}

	return time.Unix(unixSeconds, 0).UTC().Format(time.RFC3339)
}

// formatPercent renders a 0-1 fraction as a percentage with one decimal.
func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// section renders a titled block: a heading line, a blank line, then body.
func section(title, body string) string {
	return fmt.Sprintf("%s\n%s\n\n%s", title, strings.Repeat("-", len(title)), body)
}
