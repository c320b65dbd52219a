package hotspot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/hotspot"
	"github.com/panbanda/omen/internal/model"
)

type fakeGateway struct {
	commits []model.Commit
	blames  map[string]model.Blame
}

func (f *fakeGateway) HeadSHA(context.Context) (string, error)       { return "head", nil }
func (f *fakeGateway) CurrentBranch(context.Context) (string, error) { return "main", nil }
func (f *fakeGateway) Log(context.Context, gitgw.LogOptions) ([]model.Commit, error) {
	return f.commits, nil
}
func (f *fakeGateway) LogWithStats(context.Context, gitgw.LogOptions) ([]model.Commit, error) {
	return f.commits, nil
}
func (f *fakeGateway) Blame(_ context.Context, path string) (model.Blame, error) {
	return f.blames[path], nil
}

type fakeComplexity struct {
	byPath map[string]float64
}

func (f *fakeComplexity) FileComplexity(_ context.Context, path string) (float64, error) {
	return f.byPath[path], nil
}

func commitTouching(sha, author string, ts int64, path string, additions, deletions int) model.Commit {
	return model.Commit{
		SHA:        sha,
		AuthorName: author,
		Timestamp:  ts,
		Files: []model.FileChange{
			{Path: path, Additions: additions, Deletions: deletions, Kind: model.ChangeModified},
		},
	}
}

func TestComputeHotspot_NilGateway(t *testing.T) {
	t.Parallel()

	_, err := hotspot.ComputeHotspot(context.Background(), nil, nil, "/tmp", nil, 0)
	assert.Error(t, err)
}

func TestComputeHotspot_RanksByWeightedScore(t *testing.T) {
	t.Parallel()

	var commits []model.Commit
	for i := 0; i < 10; i++ {
		commits = append(commits, commitTouching("h", "Alice", int64(i), "hot.go", 10, 5))
	}
	commits = append(commits, commitTouching("c", "Bob", 0, "cold.go", 1, 0))

	gw := &fakeGateway{commits: commits}
	complexity := &fakeComplexity{byPath: map[string]float64{"hot.go": 20, "cold.go": 2}}

	report, err := hotspot.ComputeHotspot(context.Background(), gw, complexity, "/tmp/fake", []string{"hot.go", "cold.go"}, 0)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	assert.Equal(t, "hot.go", report.Files[0].Path)
	assert.GreaterOrEqual(t, report.Files[0].RiskScore, report.Files[1].RiskScore)

	for _, f := range report.Files {
		assert.GreaterOrEqual(t, f.RiskScore, 0.0)
		assert.LessOrEqual(t, f.RiskScore, 1.0)
	}
}

func TestComputeHotspot_NilComplexityProviderYieldsZeroComplexity(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{commitTouching("a", "Alice", 0, "a.go", 5, 0)}
	gw := &fakeGateway{commits: commits}

	report, err := hotspot.ComputeHotspot(context.Background(), gw, nil, "/tmp/fake", []string{"a.go"}, 0)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, 0.0, report.Files[0].ComplexityScore)
}

func TestComputeDefect_NilGateway(t *testing.T) {
	t.Parallel()

	_, err := hotspot.ComputeDefect(context.Background(), nil, nil, "/tmp", nil, 0, 1)
	assert.Error(t, err)
}

func TestComputeDefect_HighChurnLowConcentrationRanksHighest(t *testing.T) {
	t.Parallel()

	var commits []model.Commit
	for i := 0; i < 10; i++ {
		commits = append(commits, commitTouching("h", "Alice", int64(i), "risky.go", 10, 5))
	}
	commits = append(commits, commitTouching("s", "Bob", 0, "safe.go", 1, 0))

	gw := &fakeGateway{
		commits: commits,
		blames: map[string]model.Blame{
			"risky.go": {
				Path:  "risky.go",
				Lines: make([]model.BlameLine, 100),
				Authors: map[string]model.AuthorBlameStat{
					"Alice": {LineCount: 50, Percentage: 50},
					"Bob":   {LineCount: 50, Percentage: 50},
				},
			},
			"safe.go": {
				Path:  "safe.go",
				Lines: make([]model.BlameLine, 10),
				Authors: map[string]model.AuthorBlameStat{
					"Carol": {LineCount: 10, Percentage: 100},
				},
			},
		},
	}

	report, err := hotspot.ComputeDefect(context.Background(), gw, nil, "/tmp/fake", []string{"risky.go", "safe.go"}, 0, 1)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	assert.Equal(t, "risky.go", report.Files[0].Path)
	for _, f := range report.Files {
		assert.GreaterOrEqual(t, f.PredictedDensity, 0.0)
		assert.LessOrEqual(t, f.PredictedDensity, 1.0)
	}
}

func TestComputeDefect_UnknownOwnershipTreatedAsFullyDiffuse(t *testing.T) {
	t.Parallel()

	commits := []model.Commit{commitTouching("a", "Alice", 0, "a.go", 1, 0)}
	gw := &fakeGateway{commits: commits, blames: map[string]model.Blame{}}

	report, err := hotspot.ComputeDefect(context.Background(), gw, nil, "/tmp/fake", []string{"a.go"}, 0, 1)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)

	assert.Equal(t, 1.0, report.Files[0].Contributing.Ownership)
}
