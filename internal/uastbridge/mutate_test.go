package uastbridge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/uastbridge"
)

const mutateFixture = `package sample

func Add(a, b int) int {
	if a > 0 && b < 10 {
		return a + b
	}

	return 42
}
`

func TestGenerateMutants_UnsupportedExtensionYieldsNil(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "notes.txt", "just text")

	mutants, err := uastbridge.New().GenerateMutants(context.Background(), path)

	require.NoError(t, err)
	assert.Nil(t, mutants)
}

func TestGenerateMutants_FindsArithmeticRelationalLogicalAndConstantOperators(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "add.go", mutateFixture)

	mutants, err := uastbridge.New().GenerateMutants(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, mutants)

	tags := make(map[string]int)
	for _, m := range mutants {
		tags[m.OperatorTag]++
		assert.Equal(t, path, m.FilePath)
		assert.NotEmpty(t, m.ID)
	}

	assert.Positive(t, tags["AOR"])
	assert.Positive(t, tags["ROR"])
	assert.Positive(t, tags["LCR"])
	assert.Positive(t, tags["CRR"])
}

func TestGenerateMutants_ByteRangeAppliesCleanly(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "add.go", mutateFixture)
	src := []byte(mutateFixture)

	mutants, err := uastbridge.New().GenerateMutants(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, mutants)

	for _, m := range mutants {
		mutated, err := m.Apply(src)
		require.NoError(t, err)
		assert.NotEqual(t, src, mutated)
	}
}

func TestGenerateMutants_IDsAreUniqueAcrossFiles(t *testing.T) {
	t.Parallel()

	pathA := writeSource(t, "a.go", mutateFixture)
	pathB := writeSource(t, "b.go", mutateFixture)

	bridge := uastbridge.New()

	mutantsA, err := bridge.GenerateMutants(context.Background(), pathA)
	require.NoError(t, err)

	mutantsB, err := bridge.GenerateMutants(context.Background(), pathB)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, m := range append(mutantsA, mutantsB...) {
		assert.False(t, seen[m.ID], "duplicate mutant ID %s", m.ID)
		seen[m.ID] = true
	}
}

func TestGenerateMutants_MissingFileIsIoError(t *testing.T) {
	t.Parallel()

	_, err := uastbridge.New().GenerateMutants(context.Background(), "/nonexistent/add.go")

	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.Io))
}
