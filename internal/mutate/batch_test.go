package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/mutate"
)

func mutantRange(id, path string, start, end int) model.Mutant {
	return model.Mutant{ID: id, FilePath: path, ByteRange: model.ByteRange{Start: start, End: end}}
}

func TestNewBatch_AcceptsNonOverlappingMutants(t *testing.T) {
	t.Parallel()

	batch, err := mutate.NewBatch([]model.Mutant{
		mutantRange("a", "f.go", 0, 5),
		mutantRange("b", "f.go", 10, 15),
	})
	require.NoError(t, err)
	assert.Len(t, batch.Mutants(), 2)
}

func TestNewBatch_RejectsOverlappingMutantsSameFile(t *testing.T) {
	t.Parallel()

	_, err := mutate.NewBatch([]model.Mutant{
		mutantRange("a", "f.go", 0, 10),
		mutantRange("b", "f.go", 5, 15),
	})
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.Analysis))
}

func TestNewBatch_AllowsOverlapAcrossDifferentFiles(t *testing.T) {
	t.Parallel()

	_, err := mutate.NewBatch([]model.Mutant{
		mutantRange("a", "f.go", 0, 10),
		mutantRange("b", "g.go", 0, 10),
	})
	require.NoError(t, err)
}

func TestNewBatch_Empty(t *testing.T) {
	t.Parallel()

	batch, err := mutate.NewBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Mutants())
}
