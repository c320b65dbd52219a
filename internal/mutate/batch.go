package mutate

import (
	"sort"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/model"
)

// Batch is a validated set of mutants safe to apply independently: no two
// mutants in the same file have overlapping byte ranges.
type Batch struct {
	mutants []model.Mutant
}

// Mutants returns the validated mutants in the order they were passed to
// NewBatch.
func (b *Batch) Mutants() []model.Mutant { return b.mutants }

// NewBatch validates mutants and rejects the batch if any two mutants
// targeting the same file have overlapping byte ranges — applying both
// would silently corrupt the file, since the second mutant's byte offsets
// would no longer refer to the positions it was computed against.
func NewBatch(mutants []model.Mutant) (*Batch, error) {
	byFile := make(map[string][]model.Mutant)
	for _, m := range mutants {
		byFile[m.FilePath] = append(byFile[m.FilePath], m)
	}

	for path, group := range byFile {
		sort.Slice(group, func(i, j int) bool {
			return group[i].ByteRange.Start < group[j].ByteRange.Start
		})

		for i := 1; i < len(group); i++ {
			if group[i-1].ByteRange.Overlaps(group[i].ByteRange) {
				return nil, errkind.New(errkind.Analysis,
					"overlapping mutants in "+path+": "+group[i-1].ID+" and "+group[i].ID)
			}
		}
	}

	return &Batch{mutants: mutants}, nil
}
