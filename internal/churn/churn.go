// Package churn implements the Churn Analyzer: git-history-derived change
// frequency scoring used to flag likely-unstable files. The scoring method
// follows Nagappan & Ball's relative-code-churn research in spirit, but
// combines commit frequency and raw line-change volume as a weighted
// heuristic rather than pure churn/LOC, prioritizing commit frequency
// because frequent small changes are a stronger instability signal than a
// single large change.
package churn

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/panbanda/omen/internal/anctx"
	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/model"
)

const (
	commitWeight     = 0.6
	changeWeight     = 0.4
	hotspotThreshold = 0.5
	stableThreshold  = 0.1
	topBottomCount   = 10
)

// Analyzer computes a ChurnReport from commit history.
type Analyzer struct {
	// PeriodDays bounds history to the last N days; 0 means unlimited.
	PeriodDays uint32
}

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string { return "churn" }

// Run implements analyzer.Analyzer.
func (a *Analyzer) Run(ctx context.Context, ac *anctx.Context) (any, error) {
	return Compute(ctx, ac.Git, ac.Root, a.PeriodDays)
}

type accumulator struct {
	path         string
	commits      int
	authorCounts map[string]int
	additions    int
	deletions    int
	firstTS      int64
	lastTS       int64
	hasTimestamp bool
}

// Compute builds a ChurnReport by walking gw's commit log with per-file
// stats and scoring each touched file.
func Compute(ctx context.Context, gw gitgw.Gateway, repoRoot string, periodDays uint32) (*model.ChurnReport, error) {
	if gw == nil {
		return nil, errkind.ErrRequiresGitHistory
	}

	var since int64 = gitgw.Unlimited
	if periodDays > 0 {
		since = nowUnix() - int64(periodDays)*86400
	}

	commits, err := gw.LogWithStats(ctx, gitgw.LogOptions{Since: since})
	if err != nil {
		return nil, errkind.Wrap(errkind.Git, "walk commit log", err)
	}

	acc := make(map[string]*accumulator)

	for _, commit := range commits {
		for _, fc := range commit.Files {
			fm, ok := acc[fc.Path]
			if !ok {
				fm = &accumulator{path: fc.Path, authorCounts: make(map[string]int)}
				acc[fc.Path] = fm
			}

			fm.commits++
			fm.authorCounts[commit.AuthorName]++
			fm.additions += fc.Additions
			fm.deletions += fc.Deletions

			if !fm.hasTimestamp || commit.Timestamp < fm.firstTS {
				fm.firstTS = commit.Timestamp
			}
			if !fm.hasTimestamp || commit.Timestamp > fm.lastTS {
				fm.lastTS = commit.Timestamp
			}
			fm.hasTimestamp = true
		}
	}

	var maxCommits, maxChanges int
	for _, fm := range acc {
		if fm.commits > maxCommits {
			maxCommits = fm.commits
		}
		if changes := fm.additions + fm.deletions; changes > maxChanges {
			maxChanges = changes
		}
	}

	files := make([]model.ChurnFileMetric, 0, len(acc))
	authorContributions := make(map[string]int)

	var totalCommits, totalAdditions, totalDeletions int

	for _, fm := range acc {
		metric := model.ChurnFileMetric{
			Path:         fm.path,
			Commits:      fm.commits,
			AuthorCounts: fm.authorCounts,
			Additions:    fm.additions,
			Deletions:    fm.deletions,
			FirstTS:      fm.firstTS,
			LastTS:       fm.lastTS,
		}

		metric.ChurnScore = score(fm.commits, fm.additions+fm.deletions, maxCommits, maxChanges)
		applyRelativeChurn(&metric, repoRoot)

		totalCommits += fm.commits
		totalAdditions += fm.additions
		totalDeletions += fm.deletions

		for author, count := range fm.authorCounts {
			authorContributions[author] += count
		}

		files = append(files, metric)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ChurnScore != files[j].ChurnScore {
			return files[i].ChurnScore > files[j].ChurnScore
		}

		return files[i].Path < files[j].Path
	})

	summary := buildSummary(files, totalCommits, totalAdditions, totalDeletions, authorContributions)

	return &model.ChurnReport{
		PeriodDays:     periodDays,
		RepositoryRoot: repoRoot,
		Files:          files,
		Summary:        summary,
	}, nil
}

func score(commits, changes, maxCommits, maxChanges int) float64 {
	commitFactor := 0.0
	if maxCommits > 0 {
		commitFactor = math.Min(float64(commits)/float64(maxCommits), 1.0)
	}

	changeFactor := 0.0
	if maxChanges > 0 {
		changeFactor = math.Min(float64(changes)/float64(maxChanges), 1.0)
	}

	return math.Min(commitFactor*commitWeight+changeFactor*changeWeight, 1.0)
}

func applyRelativeChurn(metric *model.ChurnFileMetric, repoRoot string) {
	if metric.FirstTS != 0 || metric.LastTS != 0 {
		days := (metric.LastTS - metric.FirstTS) / 86400
		if days < 1 {
			days = 1
		}
		metric.DaysActive = int(days)
	}

	metric.TotalLOC = countLOC(repoRoot, metric.Path)

	if metric.TotalLOC > 0 {
		metric.RelativeChurn = float64(metric.Additions+metric.Deletions) / float64(metric.TotalLOC)
	}

	if metric.DaysActive > 0 {
		metric.ChurnRate = metric.RelativeChurn / float64(metric.DaysActive)
		metric.ChangeFrequency = float64(metric.Commits) / float64(metric.DaysActive)
	}
}

func buildSummary(
	files []model.ChurnFileMetric,
	totalCommits, totalAdditions, totalDeletions int,
	authorContributions map[string]int,
) model.ChurnSummary {
	summary := model.ChurnSummary{
		TotalFileChanges:    totalCommits,
		TotalFilesChanged:   len(files),
		TotalAdditions:      totalAdditions,
		TotalDeletions:      totalDeletions,
		AuthorContributions: authorContributions,
	}

	if len(files) == 0 {
		return summary
	}

	summary.AvgCommitsPerFile = float64(totalCommits) / float64(len(files))
	summary.MaxChurnScore = files[0].ChurnScore

	scores := make([]float64, len(files))
	sum := 0.0

	for i, f := range files {
		scores[i] = f.ChurnScore
		sum += f.ChurnScore
	}

	summary.MeanChurnScore = sum / float64(len(files))

	varianceSum := 0.0
	for _, s := range scores {
		diff := s - summary.MeanChurnScore
		varianceSum += diff * diff
	}

	summary.VarianceChurnScore = varianceSum / float64(len(files))
	summary.StddevChurnScore = math.Sqrt(summary.VarianceChurnScore)

	sortedScores := make([]float64, len(scores))
	copy(sortedScores, scores)
	sort.Float64s(sortedScores)

	summary.P50ChurnScore = percentile(sortedScores, 50)
	summary.P95ChurnScore = percentile(sortedScores, 95)

	candidateCount := topBottomCount
	if len(files) < candidateCount {
		candidateCount = len(files)
	}

	for _, f := range files[:candidateCount] {
		if f.ChurnScore > hotspotThreshold {
			summary.HotspotFiles = append(summary.HotspotFiles, f.Path)
		}
	}

	startIdx := len(files) - topBottomCount
	if startIdx < 0 {
		startIdx = 0
	}

	for i := len(files) - 1; i >= startIdx; i-- {
		f := files[i]
		if f.ChurnScore < stableThreshold && f.Commits > 0 {
			summary.StableFiles = append(summary.StableFiles, f.Path)
		}
	}

	return summary
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}

	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}

// countLOC and nowUnix are the two seams that would otherwise make this
// package non-deterministic; tests override them via the package-level
// vars below.
var countLOC = defaultCountLOC

var nowUnix = func() int64 { return time.Now().Unix() }

func defaultCountLOC(repoRoot, relPath string) int {
	data, err := os.ReadFile(filepath.Join(repoRoot, filepath.FromSlash(relPath)))
	if err != nil || len(data) == 0 {
		return 0
	}

	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}

	if data[len(data)-1] != '\n' {
		count++
	}

	return count
}
