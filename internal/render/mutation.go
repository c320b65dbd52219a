package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/panbanda/omen/internal/model"
)

type mutationView struct {
	report *model.MutationReport
}

func (v mutationView) text() string {
	tbl := newTable(table.Row{"Mutant", "File", "Operator", "Line", "Status", "Reason"})

	for _, r := range v.report.Results {
		tbl.AppendRow(table.Row{r.Mutant.ID, r.Mutant.FilePath, r.Mutant.OperatorTag, r.Mutant.Line, string(r.Status), r.Reason})
	}

	summary := fmt.Sprintf(
		"generated: %s\nscore: %.3f  killed: %d  survived: %d  timeout: %d  error: %d  total: %d",
		formatTimestamp(v.report.GeneratedAt), v.report.Summary.Score, v.report.Summary.Killed,
		v.report.Summary.Survived, v.report.Summary.Timeout, v.report.Summary.Error, v.report.Summary.Total,
	)

	return section("Mutation Report", summary+"\n\n"+tbl.Render())
}

func (v mutationView) markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Mutation Report\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", formatTimestamp(v.report.GeneratedAt))
	fmt.Fprintf(&b, "- Mutation score: %.3f\n", v.report.Summary.Score)
	fmt.Fprintf(&b, "- Killed: %d, Survived: %d, Timeout: %d, Error: %d, Total: %d\n\n",
		v.report.Summary.Killed, v.report.Summary.Survived, v.report.Summary.Timeout,
		v.report.Summary.Error, v.report.Summary.Total)

	b.WriteString("| Mutant | File | Operator | Line | Status | Reason |\n")
	b.WriteString("|---|---|---|---:|---|---|\n")

	for _, r := range v.report.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			r.Mutant.ID, r.Mutant.FilePath, r.Mutant.OperatorTag, r.Mutant.Line, r.Status, r.Reason)
	}

	return b.String()
}
