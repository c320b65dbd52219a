package model

// MutationSummary rolls up a completed mutation run into the counters used
// for both the progress feed and the final report; its Score matches
// spec.md §4.7's killed/(killed+survived) formula.
type MutationSummary struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Killed    int     `json:"killed"`
	Survived  int     `json:"survived"`
	Timeout   int     `json:"timeout,omitempty"`
	Error     int     `json:"error,omitempty"`
	Score     float64 `json:"score"`
}

// MutationReport is the full output of a mutation-testing run: every
// mutant's terminal status plus the aggregate score.
type MutationReport struct {
	GeneratedAt int64           `json:"generated_at"`
	Results     []MutantResult  `json:"results"`
	Summary     MutationSummary `json:"summary"`
}
