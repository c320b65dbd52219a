// Package hotspot implements the two composite analyzers that roll history
// signals and source complexity into a single risk score per file: Hotspot
// (churn x complexity) and Defect (churn x ownership x complexity, a
// predicted defect-density estimate). Neither analyzer owns its own data
// collection — both recombine the Churn, Ownership, and source-analyzer
// (complexity) outputs, so their correctness depends entirely on those
// three being correct; this package is pure composition.
package hotspot

import (
	"context"
	"sort"

	"github.com/panbanda/omen/internal/anctx"
	"github.com/panbanda/omen/internal/churn"
	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/ownership"
)

const (
	hotspotChurnWeight      = 0.5
	hotspotComplexityWeight = 0.5

	defectChurnWeight         = 0.4
	defectConcentrationWeight = 0.3
	defectComplexityWeight    = 0.3
)

// ComplexityProvider returns a file's raw complexity score (summed
// cyclomatic complexity across its functions, per the source-analyzer
// bridge). Implementations may return 0 for unsupported extensions.
type ComplexityProvider interface {
	FileComplexity(ctx context.Context, path string) (float64, error)
}

// HotspotAnalyzer composes churn and complexity into a risk score.
type HotspotAnalyzer struct {
	PeriodDays   uint32
	Complexity   ComplexityProvider
}

// Name implements analyzer.Analyzer.
func (a *HotspotAnalyzer) Name() string { return "hotspot" }

// Run implements analyzer.Analyzer.
func (a *HotspotAnalyzer) Run(ctx context.Context, ac *anctx.Context) (any, error) {
	return ComputeHotspot(ctx, ac.Git, a.Complexity, ac.Root, ac.Files.Paths(), a.PeriodDays)
}

// DefectAnalyzer composes churn, ownership, and complexity into a
// predicted defect density.
type DefectAnalyzer struct {
	PeriodDays uint32
	MinLines   int
	Complexity ComplexityProvider
}

// Name implements analyzer.Analyzer.
func (a *DefectAnalyzer) Name() string { return "defect" }

// Run implements analyzer.Analyzer.
func (a *DefectAnalyzer) Run(ctx context.Context, ac *anctx.Context) (any, error) {
	minLines := a.MinLines
	if minLines < 1 {
		minLines = 1
	}

	return ComputeDefect(ctx, ac.Git, a.Complexity, ac.Root, ac.Files.Paths(), a.PeriodDays, minLines)
}

// ComputeHotspot runs the Churn Analyzer, pulls a complexity score per
// touched file, and ranks files by 0.5*churn_score + 0.5*normalized_complexity
// descending.
func ComputeHotspot(
	ctx context.Context,
	gw gitgw.Gateway,
	complexity ComplexityProvider,
	repoRoot string,
	paths []string,
	periodDays uint32,
) (*model.HotspotReport, error) {
	if gw == nil {
		return nil, errkind.ErrRequiresGitHistory
	}

	churnReport, err := churn.Compute(ctx, gw, repoRoot, periodDays)
	if err != nil {
		return nil, err
	}

	raw, err := complexityByPath(ctx, complexity, paths)
	if err != nil {
		return nil, err
	}

	maxComplexity := maxValue(raw)

	churnByPath := make(map[string]float64, len(churnReport.Files))
	for _, f := range churnReport.Files {
		churnByPath[f.Path] = f.ChurnScore
	}

	records := make([]model.HotspotRecord, 0, len(paths))
	for _, p := range paths {
		churnScore := churnByPath[p]
		normComplexity := normalize(raw[p], maxComplexity)

		records = append(records, model.HotspotRecord{
			Path:            p,
			ChurnScore:      churnScore,
			ComplexityScore: normComplexity,
			RiskScore:       clamp01(hotspotChurnWeight*churnScore + hotspotComplexityWeight*normComplexity),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].RiskScore != records[j].RiskScore {
			return records[i].RiskScore > records[j].RiskScore
		}
		return records[i].Path < records[j].Path
	})

	return &model.HotspotReport{Files: records}, nil
}

// ComputeDefect runs the Churn and Ownership analyzers, pulls a complexity
// score per touched file, and ranks files by
// 0.4*churn_score + 0.3*(1-concentration) + 0.3*normalized_complexity
// descending.
func ComputeDefect(
	ctx context.Context,
	gw gitgw.Gateway,
	complexity ComplexityProvider,
	repoRoot string,
	paths []string,
	periodDays uint32,
	minLines int,
) (*model.DefectReport, error) {
	if gw == nil {
		return nil, errkind.ErrRequiresGitHistory
	}

	churnReport, err := churn.Compute(ctx, gw, repoRoot, periodDays)
	if err != nil {
		return nil, err
	}

	ownershipReport, err := ownership.Compute(ctx, gw, paths, minLines)
	if err != nil {
		return nil, err
	}

	raw, err := complexityByPath(ctx, complexity, paths)
	if err != nil {
		return nil, err
	}

	maxComplexity := maxValue(raw)

	churnByPath := make(map[string]float64, len(churnReport.Files))
	for _, f := range churnReport.Files {
		churnByPath[f.Path] = f.ChurnScore
	}

	concentrationByPath := make(map[string]float64, len(ownershipReport.Files))
	for _, f := range ownershipReport.Files {
		concentrationByPath[f.Path] = f.Concentration
	}

	records := make([]model.DefectRecord, 0, len(paths))
	for _, p := range paths {
		churnScore := churnByPath[p]
		// A file nobody concentrates ownership on (concentration unknown,
		// e.g. skipped by the Ownership Analyzer) is treated as maximally
		// diffuse: (1-concentration) = 1.
		concentration, known := concentrationByPath[p]
		diffusion := 1.0
		if known {
			diffusion = 1.0 - concentration
		}
		normComplexity := normalize(raw[p], maxComplexity)

		density := clamp01(
			defectChurnWeight*churnScore +
				defectConcentrationWeight*diffusion +
				defectComplexityWeight*normComplexity,
		)

		records = append(records, model.DefectRecord{
			Path:             p,
			PredictedDensity: density,
			Contributing: model.DefectContributing{
				Churn:      churnScore,
				Ownership:  diffusion,
				Complexity: normComplexity,
			},
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].PredictedDensity != records[j].PredictedDensity {
			return records[i].PredictedDensity > records[j].PredictedDensity
		}
		return records[i].Path < records[j].Path
	})

	return &model.DefectReport{Files: records}, nil
}

func complexityByPath(ctx context.Context, complexity ComplexityProvider, paths []string) (map[string]float64, error) {
	raw := make(map[string]float64, len(paths))
	if complexity == nil {
		return raw, nil
	}

	for _, p := range paths {
		score, err := complexity.FileComplexity(ctx, p)
		if err != nil {
			// Parse failures from the source-analyzer bridge must not abort
			// the composite run; the file is simply scored with zero
			// complexity contribution.
			continue
		}
		raw[p] = score
	}

	return raw, nil
}

func maxValue(values map[string]float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

func normalize(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp01(value / max)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
