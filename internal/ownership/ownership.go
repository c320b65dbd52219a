// Package ownership implements the Ownership Analyzer: turns per-file git
// blame into a knowledge-concentration and bus-factor report. A file is
// "owned" by whoever's name is attached to the most surviving lines; the
// repository's bus factor is the smallest number of contributors whose
// combined lines cover at least half of all blamed lines project-wide.
package ownership

import (
	"context"
	"sort"

	"github.com/panbanda/omen/internal/anctx"
	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/model"
)

const (
	highConcentrationThreshold   = 0.8
	mediumConcentrationThreshold = 0.6
)

// Analyzer computes an OwnershipReport from blame data across a file set.
type Analyzer struct {
	// MinLines excludes files with fewer than MinLines blamed lines from
	// the report. Zero means no minimum.
	MinLines int
}

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string { return "ownership" }

// Run implements analyzer.Analyzer.
func (a *Analyzer) Run(ctx context.Context, ac *anctx.Context) (any, error) {
	minLines := a.MinLines
	if minLines < 1 {
		minLines = 1
	}

	return Compute(ctx, ac.Git, ac.Files.Paths(), minLines)
}

// Compute builds an OwnershipReport by blaming every path in paths and
// aggregating per-author line counts across the repository.
func Compute(ctx context.Context, gw gitgw.Gateway, paths []string, minLines int) (*model.OwnershipReport, error) {
	if gw == nil {
		return nil, errkind.ErrRequiresGitHistory
	}

	files := make([]model.FileOwnership, 0, len(paths))
	allContributors := make(map[string]int)

	for _, path := range paths {
		blame, err := gw.Blame(ctx, path)
		if err != nil {
			// A file with no blame history (binary, untracked, deleted
			// mid-walk) is skipped rather than failing the whole report.
			continue
		}

		ownership, ok := fileOwnership(blame, minLines)
		if !ok {
			continue
		}

		for _, c := range ownership.Contributors {
			allContributors[c.Name] += c.LinesOwned
		}

		files = append(files, ownership)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Concentration > files[j].Concentration
	})

	summary := buildSummary(files, allContributors)

	return &model.OwnershipReport{
		Files:   files,
		Summary: summary,
	}, nil
}

func fileOwnership(blame model.Blame, minLines int) (model.FileOwnership, bool) {
	totalLines := blame.TotalLines()
	if totalLines < minLines || len(blame.Authors) == 0 {
		return model.FileOwnership{}, false
	}

	contributors := make([]model.Contributor, 0, len(blame.Authors))
	for name, stat := range blame.Authors {
		contributors = append(contributors, model.Contributor{
			Name:       name,
			LinesOwned: stat.LineCount,
			Percentage: stat.Percentage,
		})
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].LinesOwned > contributors[j].LinesOwned
	})

	primaryOwner := contributors[0].Name
	ownershipPercent := contributors[0].Percentage
	concentration := calculateConcentration(contributors)
	isSilo := len(contributors) == 1

	return model.FileOwnership{
		Path:             blame.Path,
		PrimaryOwner:     primaryOwner,
		OwnershipPercent: ownershipPercent,
		Concentration:    concentration,
		TotalLines:       totalLines,
		Contributors:     contributors,
		IsSilo:           isSilo,
		RiskLevel:        classifyRisk(concentration, len(contributors)),
	}, true
}

// calculateConcentration reports the primary owner's share of a file as a
// 0-1 score. A single contributor always maximizes concentration.
func calculateConcentration(contributors []model.Contributor) float64 {
	if len(contributors) == 0 {
		return 0
	}
	if len(contributors) == 1 {
		return 1
	}

	maxPct := 0.0
	for _, c := range contributors {
		if c.Percentage > maxPct {
			maxPct = c.Percentage
		}
	}

	return maxPct / 100.0
}

// classifyRisk buckets a file's ownership risk from its concentration and
// contributor count. A lone contributor or very high concentration is
// always High; moderate concentration or two-or-fewer contributors is
// Medium; everything else is Low.
func classifyRisk(concentration float64, contributorCount int) model.RiskLevel {
	switch {
	case contributorCount == 1 || concentration >= highConcentrationThreshold:
		return model.RiskHigh
	case concentration >= mediumConcentrationThreshold || contributorCount <= 2:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// busFactor is the fewest contributors (by total lines owned, descending)
// whose cumulative lines reach half of all blamed lines in the repository.
func busFactor(contributorLines map[string]int) int {
	if len(contributorLines) == 0 {
		return 0
	}

	total := 0
	for _, lines := range contributorLines {
		total += lines
	}
	if total == 0 {
		return 0
	}

	sorted := sortedContributorLines(contributorLines)

	accumulated := 0
	for i, entry := range sorted {
		accumulated += entry.lines
		if 2*accumulated >= total {
			return i + 1
		}
	}

	return len(sorted)
}

func topContributors(contributorLines map[string]int, n int) []string {
	sorted := sortedContributorLines(contributorLines)
	if n > len(sorted) {
		n = len(sorted)
	}

	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = sorted[i].name
	}

	return names
}

type contributorLine struct {
	name  string
	lines int
}

func sortedContributorLines(contributorLines map[string]int) []contributorLine {
	sorted := make([]contributorLine, 0, len(contributorLines))
	for name, lines := range contributorLines {
		sorted = append(sorted, contributorLine{name: name, lines: lines})
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].lines != sorted[j].lines {
			return sorted[i].lines > sorted[j].lines
		}
		return sorted[i].name < sorted[j].name
	})

	return sorted
}

func buildSummary(files []model.FileOwnership, allContributors map[string]int) model.OwnershipSummary {
	if len(files) == 0 {
		return model.OwnershipSummary{}
	}

	siloCount := 0
	highRiskCount := 0
	totalContributors := 0
	maxConcentration := 0.0

	for _, f := range files {
		if f.IsSilo {
			siloCount++
		}
		if f.RiskLevel == model.RiskHigh {
			highRiskCount++
		}
		totalContributors += len(f.Contributors)
		if f.Concentration > maxConcentration {
			maxConcentration = f.Concentration
		}
	}

	return model.OwnershipSummary{
		TotalFiles:       len(files),
		BusFactor:        busFactor(allContributors),
		SiloCount:        siloCount,
		HighRiskCount:    highRiskCount,
		AvgContributors:  float64(totalContributors) / float64(len(files)),
		MaxConcentration: maxConcentration,
		TopContributors:  topContributors(allContributors, 5),
	}
}
