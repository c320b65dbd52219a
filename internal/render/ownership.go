package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panbanda/omen/internal/model"
)

type ownershipView struct {
	report *model.OwnershipReport
}

func (v ownershipView) text() string {
	tbl := newTable(table.Row{"Path", "Primary Owner", "Ownership %", "Silo", "Risk"})

	for _, f := range v.report.Files {
		tbl.AppendRow(table.Row{f.Path, f.PrimaryOwner, formatPercent(f.OwnershipPercent / 100), f.IsSilo, string(f.RiskLevel)})
	}

	summary := fmt.Sprintf(
		"generated: %s\nbus factor: %d  silo files: %d  high risk: %d  avg contributors: %.2f",
		formatTimestamp(v.report.GeneratedAt), v.report.Summary.BusFactor,
		v.report.Summary.SiloCount, v.report.Summary.HighRiskCount, v.report.Summary.AvgContributors,
	)

	return section("Ownership Report", summary+"\n\n"+tbl.Render())
}

func (v ownershipView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ownership Report\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", formatTimestamp(v.report.GeneratedAt))
	fmt.Fprintf(&b, "- Bus factor: %d\n", v.report.Summary.BusFactor)
	fmt.Fprintf(&b, "- Silo files: %d\n", v.report.Summary.SiloCount)
	fmt.Fprintf(&b, "- High-risk files: %d\n\n", v.report.Summary.HighRiskCount)

	b.WriteString("| Path | Primary Owner | Ownership % | Silo | Risk |\n")
	b.WriteString("|---|---|---:|:---:|---|\n")

	for _, f := range v.report.Files {
		fmt.Fprintf(&b, "| %s | %s | %s | %v | %s |\n",
			f.Path, f.PrimaryOwner, formatPercent(f.OwnershipPercent/100), f.IsSilo, f.RiskLevel)
	}

	return b.String()
}
