package mutate_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/mutate"
)

func mutantFor(id, path string) model.Mutant {
	return model.Mutant{ID: id, FilePath: path, ByteRange: model.ByteRange{Start: 0, End: 0}}
}

func TestProgressUpdate_Killed(t *testing.T) {
	t.Parallel()

	p := mutate.ProgressUpdate{Total: 10}
	p.Update(model.StatusKilled)

	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 1, p.Killed)
	assert.Equal(t, 1.0, p.Score)
}

func TestProgressUpdate_Mixed(t *testing.T) {
	t.Parallel()

	p := mutate.ProgressUpdate{Total: 10}
	p.Update(model.StatusKilled)
	p.Update(model.StatusKilled)
	p.Update(model.StatusSurvived)

	assert.Equal(t, 3, p.Completed)
	assert.InDelta(t, 2.0/3.0, p.Score, 0.0001)
}

func TestProgressUpdate_TimeoutDoesNotCountTowardScore(t *testing.T) {
	t.Parallel()

	p := mutate.ProgressUpdate{Total: 10}
	p.Update(model.StatusTimeout)

	assert.Equal(t, 1, p.Timeout)
	assert.Equal(t, 0.0, p.Score)
}

func TestWorkQueue_StealAndComplete(t *testing.T) {
	t.Parallel()

	q := mutate.NewWorkQueue([]mutate.WorkItem{
		{Mutant: mutantFor("a", "a.go")},
		{Mutant: mutantFor("b", "b.go")},
	})

	assert.EqualValues(t, 2, q.Remaining())

	_, ok := q.Steal()
	require.True(t, ok)
	q.Complete()

	_, ok = q.Steal()
	require.True(t, ok)
	q.Complete()

	_, ok = q.Steal()
	assert.False(t, ok)
	assert.True(t, q.IsComplete())
}

func TestWorkQueue_CloseStopsStealing(t *testing.T) {
	t.Parallel()

	q := mutate.NewWorkQueue([]mutate.WorkItem{{Mutant: mutantFor("a", "a.go")}})
	q.Close()

	_, ok := q.Steal()
	assert.False(t, ok)
	assert.True(t, q.IsClosed())
}

func TestWorkQueue_Empty(t *testing.T) {
	t.Parallel()

	q := mutate.NewWorkQueue(nil)
	assert.EqualValues(t, 0, q.Remaining())
	assert.True(t, q.IsComplete())
}

func TestFileLockManager_SameFileSameLock(t *testing.T) {
	t.Parallel()

	m := mutate.NewFileLockManager()
	l1 := m.Lock("a.go")
	l2 := m.Lock("a.go")

	assert.True(t, l1 == l2)
}

func TestFileLockManager_DifferentFilesDifferentLocks(t *testing.T) {
	t.Parallel()

	m := mutate.NewFileLockManager()
	l1 := m.Lock("a.go")
	l2 := m.Lock("b.go")

	assert.False(t, l1 == l2)
}

func TestPool_EvaluatesEveryMutant(t *testing.T) {
	t.Parallel()

	items := []mutate.WorkItem{
		{Mutant: mutantFor("a", "a.go")},
		{Mutant: mutantFor("b", "b.go")},
		{Mutant: mutantFor("c", "c.go")},
	}

	var calls atomic.Int64
	run := func(_ context.Context, item mutate.WorkItem) (model.MutantStatus, string, error) {
		calls.Add(1)
		if item.Mutant.ID == "b" {
			return model.StatusSurvived, "", nil
		}
		return model.StatusKilled, "", nil
	}

	results := mutate.Pool(context.Background(), items, mutate.Config{Workers: 2}, run, nil)

	require.Len(t, results, 3)
	assert.EqualValues(t, 3, calls.Load())

	killed, survived := 0, 0
	for _, r := range results {
		switch r.Status {
		case model.StatusKilled:
			killed++
		case model.StatusSurvived:
			survived++
		}
	}
	assert.Equal(t, 2, killed)
	assert.Equal(t, 1, survived)
}

func TestPool_SerializesMutantsOnTheSameFile(t *testing.T) {
	t.Parallel()

	items := []mutate.WorkItem{
		{Mutant: mutantFor("a1", "shared.go")},
		{Mutant: mutantFor("a2", "shared.go")},
		{Mutant: mutantFor("a3", "shared.go")},
	}

	var concurrent atomic.Int64
	var maxConcurrent atomic.Int64

	run := func(_ context.Context, _ mutate.WorkItem) (model.MutantStatus, string, error) {
		n := concurrent.Add(1)
		for {
			max := maxConcurrent.Load()
			if n <= max || maxConcurrent.CompareAndSwap(max, n) {
				break
			}
		}
		concurrent.Add(-1)
		return model.StatusKilled, "", nil
	}

	results := mutate.Pool(context.Background(), items, mutate.Config{Workers: 4}, run, nil)

	require.Len(t, results, 3)
	assert.EqualValues(t, 1, maxConcurrent.Load())
}

func TestPool_ReportsProgress(t *testing.T) {
	t.Parallel()

	items := []mutate.WorkItem{
		{Mutant: mutantFor("a", "a.go")},
		{Mutant: mutantFor("b", "b.go")},
	}

	var updates atomic.Int64
	run := func(_ context.Context, _ mutate.WorkItem) (model.MutantStatus, string, error) {
		return model.StatusKilled, "", nil
	}

	mutate.Pool(context.Background(), items, mutate.Config{Workers: 2}, run, func(p mutate.ProgressUpdate) {
		updates.Add(1)
	})

	assert.EqualValues(t, 2, updates.Load())
}

func TestPool_BuildErrorFromRunError(t *testing.T) {
	t.Parallel()

	items := []mutate.WorkItem{{Mutant: mutantFor("a", "a.go")}}

	run := func(_ context.Context, _ mutate.WorkItem) (model.MutantStatus, string, error) {
		return model.StatusPending, "", assert.AnError
	}

	results := mutate.Pool(context.Background(), items, mutate.Config{Workers: 1}, run, nil)

	require.Len(t, results, 1)
	assert.Equal(t, model.StatusBuildError, results[0].Status)
}

func TestConfig_EffectiveWorkers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, mutate.Config{Workers: 4}.EffectiveWorkers())
	assert.GreaterOrEqual(t, mutate.Config{}.EffectiveWorkers(), 1)
}
