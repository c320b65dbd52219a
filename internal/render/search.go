package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panbanda/omen/internal/model"
)

type searchView struct {
	report *model.SearchReport
}

func (v searchView) text() string {
	tbl := newTable(table.Row{"Score", "File", "Symbol", "Lines"})

	for _, r := range v.report.Results {
		lines := fmt.Sprintf("%d-%d", r.Metadata.StartLine, r.Metadata.EndLine)
		tbl.AppendRow(table.Row{fmt.Sprintf("%.4f", r.Score), r.Metadata.FilePath, r.Metadata.SymbolName, lines})
	}

	summary := fmt.Sprintf("query: %q  generated: %s  results: %d",
		v.report.Query, formatTimestamp(v.report.GeneratedAt), len(v.report.Results))

	return section("Semantic Search Results", summary+"\n\n"+tbl.Render())
}

func (v searchView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Semantic Search Results\n\n")
	fmt.Fprintf(&b, "- Query: `%s`\n", v.report.Query)
	fmt.Fprintf(&b, "- Generated: %s\n\n", formatTimestamp(v.report.GeneratedAt))

	b.WriteString("| Score | File | Symbol | Lines |\n|---:|---|---|---:|\n")

	for _, r := range v.report.Results {
		fmt.Fprintf(&b, "| %.4f | %s | %s | %d-%d |\n",
			r.Score, r.Metadata.FilePath, r.Metadata.SymbolName, r.Metadata.StartLine, r.Metadata.EndLine)
	}

	return b.String()
}
