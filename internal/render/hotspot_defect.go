package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panbanda/omen/internal/model"
)

type hotspotView struct {
	report *model.HotspotReport
}

func (v hotspotView) text() string {
	tbl := newTable(table.Row{"Path", "Churn", "Complexity", "Risk Score"})

	for _, f := range v.report.Files {
		tbl.AppendRow(table.Row{f.Path, fmt.Sprintf("%.3f", f.ChurnScore), fmt.Sprintf("%.3f", f.ComplexityScore), fmt.Sprintf("%.3f", f.RiskScore)})
	}

	return section("Hotspot Report", fmt.Sprintf("generated: %s\n\n%s", formatTimestamp(v.report.GeneratedAt), tbl.Render()))
}

func (v hotspotView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Hotspot Report\n\n- Generated: %s\n\n", formatTimestamp(v.report.GeneratedAt))
	b.WriteString("| Path | Churn | Complexity | Risk Score |\n|---|---:|---:|---:|\n")

	for _, f := range v.report.Files {
		fmt.Fprintf(&b, "| %s | %.3f | %.3f | %.3f |\n", f.Path, f.ChurnScore, f.ComplexityScore, f.RiskScore)
	}

	return b.String()
}

type defectView struct {
	report *model.DefectReport
}

func (v defectView) text() string {
	tbl := newTable(table.Row{"Path", "Churn", "Ownership", "Complexity", "Predicted Density"})

	for _, f := range v.report.Files {
		tbl.AppendRow(table.Row{
			f.Path,
			fmt.Sprintf("%.3f", f.Contributing.Churn),
			fmt.Sprintf("%.3f", f.Contributing.Ownership),
			fmt.Sprintf("%.3f", f.Contributing.Complexity),
			fmt.Sprintf("%.3f", f.PredictedDensity),
		})
	}

	return section("Defect Report", fmt.Sprintf("generated: %s\n\n%s", formatTimestamp(v.report.GeneratedAt), tbl.Render()))
}

func (v defectView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Defect Report\n\n- Generated: %s\n\n", formatTimestamp(v.report.GeneratedAt))
	b.WriteString("| Path | Churn | Ownership | Complexity | Predicted Density |\n|---|---:|---:|---:|---:|\n")

	for _, f := range v.report.Files {
		fmt.Fprintf(&b, "| %s | %.3f | %.3f | %.3f | %.3f |\n",
			f.Path, f.Contributing.Churn, f.Contributing.Ownership, f.Contributing.Complexity, f.PredictedDensity)
	}

	return b.String()
}
