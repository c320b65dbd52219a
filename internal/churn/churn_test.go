package churn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/churn"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/model"
)

type fakeGateway struct {
	commits []model.Commit
}

func (f *fakeGateway) HeadSHA(context.Context) (string, error)        { return "head", nil }
func (f *fakeGateway) CurrentBranch(context.Context) (string, error)  { return "main", nil }
func (f *fakeGateway) Log(context.Context, gitgw.LogOptions) ([]model.Commit, error) {
	return f.commits, nil
}
func (f *fakeGateway) LogWithStats(context.Context, gitgw.LogOptions) ([]model.Commit, error) {
	return f.commits, nil
}
func (f *fakeGateway) Blame(context.Context, string) (model.Blame, error) {
	return model.Blame{}, nil
}

func commitTouching(sha, author string, ts int64, path string, additions, deletions int) model.Commit {
	return model.Commit{
		SHA:         sha,
		AuthorName:  author,
		AuthorEmail: author + "@example.com",
		Timestamp:   ts,
		Files: []model.FileChange{
			{Path: path, Additions: additions, Deletions: deletions, Kind: model.ChangeModified},
		},
	}
}

func TestCompute_NilGateway(t *testing.T) {
	t.Parallel()

	_, err := churn.Compute(context.Background(), nil, "/tmp", 0)
	assert.Error(t, err)
}

func TestCompute_ChurnScoreCalculation(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{commits: make([]model.Commit, 0, 10)}
	for i := 0; i < 10; i++ {
		gw.commits = append(gw.commits, commitTouching("sha", "Alice", int64(1000+i), "hot.go", 10, 5))
	}

	report, err := churn.Compute(context.Background(), gw, "/tmp/fake", 0)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)

	assert.InDelta(t, 1.0, report.Files[0].ChurnScore, 0.001)
}

// TestChurn_SeededThreeFiles is the scenario-1 fixture from the engine's
// seeded end-to-end scenarios: three files with distinct commit/change
// volumes must rank hot > mid > cold by churn score, all within [0, 1].
func TestChurn_SeededThreeFiles(t *testing.T) {
	t.Parallel()

	var commits []model.Commit
	for i := 0; i < 20; i++ {
		commits = append(commits, commitTouching("h", "Alice", int64(i), "hot.go", 25, 10))
	}
	for i := 0; i < 10; i++ {
		commits = append(commits, commitTouching("m", "Bob", int64(i), "mid.go", 10, 5))
	}
	commits = append(commits, commitTouching("c", "Carol", 0, "cold.go", 5, 2))

	gw := &fakeGateway{commits: commits}

	report, err := churn.Compute(context.Background(), gw, "/tmp/fake", 0)
	require.NoError(t, err)
	require.Len(t, report.Files, 3)

	for _, f := range report.Files {
		assert.GreaterOrEqual(t, f.ChurnScore, 0.0)
		assert.LessOrEqual(t, f.ChurnScore, 1.0)
	}

	assert.Equal(t, "hot.go", report.Files[0].Path)
	assert.Equal(t, "mid.go", report.Files[1].Path)
	assert.Equal(t, "cold.go", report.Files[2].Path)
	assert.GreaterOrEqual(t, report.Files[0].ChurnScore, report.Files[1].ChurnScore)
	assert.GreaterOrEqual(t, report.Files[1].ChurnScore, report.Files[2].ChurnScore)
}

func TestCompute_EmptyHistory(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}

	report, err := churn.Compute(context.Background(), gw, "/tmp/fake", 0)
	require.NoError(t, err)

	assert.Empty(t, report.Files)
	assert.Equal(t, 0, report.Summary.TotalFilesChanged)
	assert.Equal(t, 0.0, report.Summary.AvgCommitsPerFile)
	assert.Empty(t, report.Summary.HotspotFiles)
	assert.Empty(t, report.Summary.StableFiles)
}

func TestCompute_HotspotAndStableClassification(t *testing.T) {
	t.Parallel()

	// a.go and b.go are touched ten times each, so the single-commit c.go and
	// d.go score 0.6*1/10 plus a tiny change factor: below the 0.1 stable
	// threshold, while a.go (1.0) and b.go (~0.91) clear the 0.5 hotspot one.
	var commits []model.Commit
	for i := 0; i < 10; i++ {
		commits = append(commits, commitTouching("a", "Alice", 0, "a.go", 90, 0))
		commits = append(commits, commitTouching("b", "Alice", 0, "b.go", 70, 0))
	}
	commits = append(commits, commitTouching("c", "Alice", 0, "c.go", 3, 0))
	commits = append(commits, commitTouching("d", "Alice", 0, "d.go", 2, 0))

	gw := &fakeGateway{commits: commits}

	report, err := churn.Compute(context.Background(), gw, "/tmp/fake", 0)
	require.NoError(t, err)

	assert.NotEmpty(t, report.Summary.HotspotFiles)
	assert.NotEmpty(t, report.Summary.StableFiles)
}

func TestCompute_AuthorContributionsAggregate(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{
		commitTouching("a", "Alice", 0, "x.go", 1, 0),
		commitTouching("b", "Bob", 0, "x.go", 1, 0),
	}

	gw := &fakeGateway{commits: commits}

	report, err := churn.Compute(context.Background(), gw, "/tmp/fake", 0)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Len(t, report.Files[0].AuthorCounts, 2)
	assert.Len(t, report.Summary.AuthorContributions, 2)
}
