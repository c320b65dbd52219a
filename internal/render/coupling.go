package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panbanda/omen/internal/model"
)

type couplingView struct {
	report *model.CouplingReport
}

func (v couplingView) text() string {
	tbl := newTable(table.Row{"File A", "File B", "Co-changes", "Coupling Strength"})

	for _, c := range v.report.Couplings {
		tbl.AppendRow(table.Row{c.FileA, c.FileB, c.CochangeCount, fmt.Sprintf("%.3f", c.CouplingStrength)})
	}

	summary := fmt.Sprintf(
		"generated: %s  period_days: %d  min_cochanges: %d\npairs: %d  strong: %d  max strength: %.3f",
		formatTimestamp(v.report.GeneratedAt), v.report.PeriodDays, v.report.MinCochanges,
		v.report.Summary.TotalCouplings, v.report.Summary.StrongCouplings, v.report.Summary.MaxCouplingStrength,
	)

	return section("Temporal Coupling Report", summary+"\n\n"+tbl.Render())
}

func (v couplingView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Temporal Coupling Report\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", formatTimestamp(v.report.GeneratedAt))
	fmt.Fprintf(&b, "- Period (days): %d\n", v.report.PeriodDays)
	fmt.Fprintf(&b, "- Minimum co-changes: %d\n", v.report.MinCochanges)
	fmt.Fprintf(&b, "- Strong couplings: %d\n\n", v.report.Summary.StrongCouplings)

	b.WriteString("| File A | File B | Co-changes | Coupling Strength |\n")
	b.WriteString("|---|---|---:|---:|\n")

	for _, c := range v.report.Couplings {
		fmt.Fprintf(&b, "| %s | %s | %d | %.3f |\n", c.FileA, c.FileB, c.CochangeCount, c.CouplingStrength)
	}

	return b.String()
}
