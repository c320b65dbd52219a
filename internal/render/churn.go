package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panbanda/omen/internal/model"
)

type churnView struct {
	report *model.ChurnReport
}

func (v churnView) text() string {
	tbl := newTable(table.Row{"Path", "Commits", "Additions", "Deletions", "Churn Score"})

	for _, f := range v.report.Files {
		tbl.AppendRow(table.Row{f.Path, f.Commits, f.Additions, f.Deletions, fmt.Sprintf("%.3f", f.ChurnScore)})
	}

	tbl.AppendFooter(table.Row{"", "", "", "Total files", len(v.report.Files)})

	summary := fmt.Sprintf(
		"generated: %s  period_days: %d  root: %s\nmean churn: %.3f  p95 churn: %.3f  hotspots: %d  stable: %d",
		formatTimestamp(v.report.GeneratedAt), v.report.PeriodDays, v.report.RepositoryRoot,
		v.report.Summary.MeanChurnScore, v.report.Summary.P95ChurnScore,
		len(v.report.Summary.HotspotFiles), len(v.report.Summary.StableFiles),
	)

	return section("Churn Report", summary+"\n\n"+tbl.Render())
}

func (v churnView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Churn Report\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", formatTimestamp(v.report.GeneratedAt))
	fmt.Fprintf(&b, "- Period (days): %d\n", v.report.PeriodDays)
	fmt.Fprintf(&b, "- Repository root: `%s`\n", v.report.RepositoryRoot)
	fmt.Fprintf(&b, "- Mean churn score: %.3f\n", v.report.Summary.MeanChurnScore)
	fmt.Fprintf(&b, "- P95 churn score: %.3f\n", v.report.Summary.P95ChurnScore)
	fmt.Fprintf(&b, "- Hotspot files: %d\n", len(v.report.Summary.HotspotFiles))
	fmt.Fprintf(&b, "- Stable files: %d\n\n", len(v.report.Summary.StableFiles))

	b.WriteString("| Path | Commits | Additions | Deletions | Churn Score |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")

	for _, f := range v.report.Files {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.3f |\n", f.Path, f.Commits, f.Additions, f.Deletions, f.ChurnScore)
	}

	return b.String()
}
