package model

// BlameLine attributes one line of a file to the commit that last touched it.
type BlameLine struct {
	LineNo    int    `json:"line_no"`
	Author    string `json:"author"`
	CommitSHA string `json:"commit_sha"`
	Timestamp int64  `json:"timestamp"`
}

// AuthorBlameStat aggregates one author's share of a file's blamed lines.
type AuthorBlameStat struct {
	LineCount  int     `json:"line_count"`
	Percentage float64 `json:"percentage"`
	FirstTS    int64   `json:"first_ts"`
	LastTS     int64   `json:"last_ts"`
}

// Blame is the full per-line attribution of a file plus the per-author
// rollup. Invariant: sum of Authors[*].LineCount equals len(Lines), and the
// percentages sum to within [99.9, 100.1].
type Blame struct {
	Path    string                     `json:"path"`
	Lines   []BlameLine                `json:"lines"`
	Authors map[string]AuthorBlameStat `json:"authors"`
}

// TotalLines returns len(Lines), the denominator used for percentages.
func (b *Blame) TotalLines() int {
	return len(b.Lines)
}
