// Package coupling implements the Temporal Coupling Analyzer: files that
// repeatedly change together in the same commit, absent an explicit import
// relationship, often point at a hidden dependency or a module boundary
// that should be redrawn. Grounded in Ball, Kim, Porter & Siy's 1997 "If
// Your Version Control System Could Talk".
package coupling

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/panbanda/omen/internal/anctx"
	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/model"
)

const (
	// DefaultMinCochanges filters pairs that only co-changed by coincidence.
	DefaultMinCochanges = 3
	// StrongCouplingThreshold is the cutoff for FileCoupling.CouplingStrength
	// to count toward CouplingSummary.StrongCouplings.
	StrongCouplingThreshold = 0.5
)

// Analyzer computes a CouplingReport from commit history.
type Analyzer struct {
	// PeriodDays bounds history to the last N days; 0 means unlimited.
	PeriodDays uint32
	// MinCochanges filters out pairs with fewer co-changes than this. Zero
	// falls back to DefaultMinCochanges.
	MinCochanges int
	// ExcludeTests drops test files from co-change tracking entirely.
	ExcludeTests bool
}

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string { return "coupling" }

// Run implements analyzer.Analyzer.
func (a *Analyzer) Run(ctx context.Context, ac *anctx.Context) (any, error) {
	minCochanges := a.MinCochanges
	if minCochanges <= 0 {
		minCochanges = DefaultMinCochanges
	}

	return Compute(ctx, ac.Git, Options{
		PeriodDays:   a.PeriodDays,
		MinCochanges: minCochanges,
		ExcludeTests: a.ExcludeTests,
	})
}

// Options configures Compute.
type Options struct {
	PeriodDays   uint32
	MinCochanges int
	ExcludeTests bool
}

// Compute builds a CouplingReport by walking gw's commit log and counting,
// for every pair of files touched by the same commit, how often that pair
// recurs relative to each file's individual commit count.
func Compute(ctx context.Context, gw gitgw.Gateway, opts Options) (*model.CouplingReport, error) {
	if gw == nil {
		return nil, errkind.ErrRequiresGitHistory
	}

	minCochanges := opts.MinCochanges
	if minCochanges <= 0 {
		minCochanges = DefaultMinCochanges
	}

	var since int64 = gitgw.Unlimited
	if opts.PeriodDays > 0 {
		since = nowUnix() - int64(opts.PeriodDays)*86400
	}

	commits, err := gw.LogWithStats(ctx, gitgw.LogOptions{Since: since})
	if err != nil {
		return nil, errkind.Wrap(errkind.Git, "walk commit log", err)
	}

	cochanges := make(map[model.FilePair]int)
	fileCommits := make(map[string]int)

	for _, commit := range commits {
		changed := make([]string, 0, len(commit.Files))
		for _, fc := range commit.Files {
			if opts.ExcludeTests && isTestFile(fc.Path) {
				continue
			}
			changed = append(changed, fc.Path)
		}

		for _, f := range changed {
			fileCommits[f]++
		}

		for i := 0; i < len(changed); i++ {
			for j := i + 1; j < len(changed); j++ {
				pair := model.NewFilePair(changed[i], changed[j])
				cochanges[pair]++
			}
		}
	}

	couplings := make([]model.FileCoupling, 0, len(cochanges))
	for pair, count := range cochanges {
		if count < minCochanges {
			continue
		}

		commitsA := fileCommits[pair.A]
		commitsB := fileCommits[pair.B]

		couplings = append(couplings, model.FileCoupling{
			FileA:            pair.A,
			FileB:            pair.B,
			CochangeCount:    count,
			CouplingStrength: couplingStrength(count, commitsA, commitsB),
			CommitsA:         commitsA,
			CommitsB:         commitsB,
		})
	}

	sort.SliceStable(couplings, func(i, j int) bool {
		if couplings[i].CouplingStrength != couplings[j].CouplingStrength {
			return couplings[i].CouplingStrength > couplings[j].CouplingStrength
		}
		if couplings[i].FileA != couplings[j].FileA {
			return couplings[i].FileA < couplings[j].FileA
		}
		return couplings[i].FileB < couplings[j].FileB
	})

	summary := buildSummary(couplings, len(fileCommits))

	return &model.CouplingReport{
		PeriodDays:   opts.PeriodDays,
		MinCochanges: minCochanges,
		Couplings:    couplings,
		Summary:      summary,
	}, nil
}

// couplingStrength is cochanges / max(commitsA, commitsB), capped at 1.0: a
// symmetric measure of "when either file changes, how often do they change
// together".
func couplingStrength(cochanges, commitsA, commitsB int) float64 {
	maxCommits := commitsA
	if commitsB > maxCommits {
		maxCommits = commitsB
	}
	if maxCommits == 0 {
		return 0
	}

	strength := float64(cochanges) / float64(maxCommits)
	if strength > 1.0 {
		strength = 1.0
	}

	return strength
}

func buildSummary(couplings []model.FileCoupling, totalFiles int) model.CouplingSummary {
	summary := model.CouplingSummary{TotalFilesAnalyzed: totalFiles}

	if len(couplings) == 0 {
		return summary
	}

	summary.TotalCouplings = len(couplings)
	summary.MaxCouplingStrength = couplings[0].CouplingStrength

	sum := 0.0
	for _, c := range couplings {
		sum += c.CouplingStrength
		if c.CouplingStrength >= StrongCouplingThreshold {
			summary.StrongCouplings++
		}
	}

	summary.AvgCouplingStrength = sum / float64(len(couplings))

	return summary
}

// testDirNames are directory-segment names that mark the path beneath them
// as test code regardless of source language.
var testDirNames = map[string]bool{
	"test": true, "tests": true, "spec": true, "specs": true,
	"__tests__": true, "__mocks__": true, "test_helpers": true,
	"testdata": true, "fixtures": true,
}

// isTestFile recognizes test-file naming conventions across the languages
// the engine analyzes: directory markers (tests/, spec/, Java's src/test),
// suffix markers (_test.go, _spec.rb), and dotted markers (.test.ts).
func isTestFile(p string) bool {
	lower := strings.ToLower(p)
	parts := strings.Split(lower, "/")

	for i, part := range parts {
		if testDirNames[part] {
			return true
		}
		if part == "src" && i+1 < len(parts) && parts[i+1] == "test" {
			return true
		}
	}

	filename := parts[len(parts)-1]
	if strings.Contains(filename, "_test.") || strings.Contains(filename, "_spec.") {
		return true
	}
	if strings.HasPrefix(filename, "test_") {
		return true
	}

	ext := path.Ext(filename)
	withoutExt := strings.TrimSuffix(filename, ext)
	secondExt := path.Ext(withoutExt)
	if secondExt == ".test" || secondExt == ".spec" {
		return true
	}

	return false
}

// nowUnix is a seam tests can override to make Since-bounding deterministic.
var nowUnix = func() int64 { return time.Now().Unix() }
