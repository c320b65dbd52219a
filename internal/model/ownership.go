package model

// RiskLevel classifies how concentrated a file's (or the repository's)
// ownership is.
type RiskLevel string

const (
	// RiskLow means ownership is well distributed.
	RiskLow RiskLevel = "low"
	// RiskMedium means moderate concentration or very few contributors.
	RiskMedium RiskLevel = "medium"
	// RiskHigh means a single contributor or very high concentration.
	RiskHigh RiskLevel = "high"
)

// Contributor is one author's share of a file's blamed lines.
type Contributor struct {
	Name       string  `json:"name"`
	LinesOwned int     `json:"lines_owned"`
	Percentage float64 `json:"percentage"`
}

// FileOwnership is the per-file ownership record defined by spec.md §3/§4.4.
type FileOwnership struct {
	Path              string        `json:"path"`
	PrimaryOwner      string        `json:"primary_owner"`
	OwnershipPercent  float64       `json:"ownership_percent"`
	Concentration     float64       `json:"concentration"`
	TotalLines        int           `json:"total_lines"`
	Contributors      []Contributor `json:"contributors"`
	IsSilo            bool          `json:"is_silo"`
	RiskLevel         RiskLevel     `json:"risk_level"`
}

// OwnershipSummary rolls up ownership across the whole repository.
type OwnershipSummary struct {
	TotalFiles       int      `json:"total_files"`
	BusFactor        int      `json:"bus_factor"`
	SiloCount        int      `json:"silo_count"`
	HighRiskCount    int      `json:"high_risk_count"`
	AvgContributors  float64  `json:"avg_contributors"`
	MaxConcentration float64  `json:"max_concentration"`
	TopContributors  []string `json:"top_contributors"`
}

// OwnershipReport is the full output of the Ownership Analyzer.
type OwnershipReport struct {
	GeneratedAt int64             `json:"generated_at"`
	Files       []FileOwnership   `json:"files"`
	Summary     OwnershipSummary  `json:"summary"`
}
