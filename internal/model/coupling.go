package model

// FilePair is an unordered pair of repository-relative paths, canonicalized
// by lexicographic ordering so that FilePair(a,b) == FilePair(b,a).
type FilePair struct {
	A string
	B string
}

// NewFilePair builds a canonicalized pair: the lexicographically smaller
// path is always A.
func NewFilePair(a, b string) FilePair {
	if a <= b {
		return FilePair{A: a, B: b}
	}

	return FilePair{A: b, B: a}
}

// FileCoupling is the temporal-coupling record for one file pair, per
// spec.md §3/§4.5.
type FileCoupling struct {
	FileA            string  `json:"file_a"`
	FileB            string  `json:"file_b"`
	CochangeCount    int     `json:"cochange_count"`
	CouplingStrength float64 `json:"coupling_strength"`
	CommitsA         int     `json:"commits_a"`
	CommitsB         int     `json:"commits_b"`
}

// CouplingSummary rolls up coupling statistics across all reported pairs.
type CouplingSummary struct {
	TotalCouplings      int     `json:"total_couplings"`
	StrongCouplings     int     `json:"strong_couplings"`
	AvgCouplingStrength float64 `json:"avg_coupling_strength"`
	MaxCouplingStrength float64 `json:"max_coupling_strength"`
	TotalFilesAnalyzed  int     `json:"total_files_analyzed"`
}

// CouplingReport is the full output of the Temporal Coupling Analyzer.
type CouplingReport struct {
	GeneratedAt   int64           `json:"generated_at"`
	PeriodDays    uint32          `json:"period_days"`
	MinCochanges  int             `json:"min_cochanges"`
	Couplings     []FileCoupling  `json:"couplings"`
	Summary       CouplingSummary `json:"summary"`
}
