// Package mutate implements the Mutation Engine: a worker pool that applies
// mutants to source files, runs the project's build/test command against
// each mutated copy, and collects a MutantResult per mutant. Only one
// mutant per file is ever in flight at a time (a file being mutated and
// tested cannot also be read for a second mutant's baseline), enforced by a
// per-path single-permit lock table; workers otherwise steal freely from a
// shared queue so a pool with N workers stays saturated even when mutants
// are unevenly distributed across files.
package mutate

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/panbanda/omen/internal/model"
)

// WorkItem pairs a mutant with the original source bytes of the file it
// targets, so a worker never needs to re-read the file from disk.
type WorkItem struct {
	Mutant model.Mutant
	Source []byte
}

// Config configures the worker pool.
type Config struct {
	// Workers is the number of concurrent workers; 0 selects
	// runtime.GOMAXPROCS(0).
	Workers int
}

// EffectiveWorkers resolves Workers against the runtime's available
// parallelism when unset.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// ProgressUpdate is a point-in-time snapshot of a mutation run, reported to
// the caller after each mutant completes.
type ProgressUpdate struct {
	Total     int
	Completed int
	Killed    int
	Survived  int
	Timeout   int
	Error     int
	Score     float64
}

// Update folds one mutant's terminal status into the running tally. Only
// Killed and Survived count toward Score, matching
// model.MutantStatus.CountsTowardScore.
func (p *ProgressUpdate) Update(status model.MutantStatus) {
	p.Completed++
	switch status {
	case model.StatusKilled:
		p.Killed++
	case model.StatusSurvived:
		p.Survived++
	case model.StatusTimeout:
		p.Timeout++
	case model.StatusBuildError, model.StatusEquivalent:
		p.Error++
	case model.StatusPending, model.StatusSkipped:
	}

	if scored := p.Killed + p.Survived; scored > 0 {
		p.Score = float64(p.Killed) / float64(scored)
	}
}

// WorkQueue is a LIFO work-stealing stack: any worker can pop the next item
// regardless of which worker produced it, so idle workers never block on a
// busy one owning the only remaining work.
type WorkQueue struct {
	mu        sync.Mutex
	items     []WorkItem
	remaining atomic.Int64
	closed    atomic.Bool
}

// NewWorkQueue seeds a queue with the given items.
func NewWorkQueue(items []WorkItem) *WorkQueue {
	q := &WorkQueue{items: items}
	q.remaining.Store(int64(len(items)))
	return q
}

// Steal pops the next item, or reports ok=false if the queue is empty or
// closed.
func (q *WorkQueue) Steal() (WorkItem, bool) {
	if q.closed.Load() {
		return WorkItem{}, false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return WorkItem{}, false
	}

	last := len(q.items) - 1
	item := q.items[last]
	q.items = q.items[:last]

	return item, true
}

// Remaining reports the number of items not yet marked Complete.
func (q *WorkQueue) Remaining() int64 { return q.remaining.Load() }

// Complete marks one item's processing as finished.
func (q *WorkQueue) Complete() { q.remaining.Add(-1) }

// Close stops further stealing; in-flight items are unaffected.
func (q *WorkQueue) Close() { q.closed.Store(true) }

// IsClosed reports whether Close has been called.
func (q *WorkQueue) IsClosed() bool { return q.closed.Load() }

// IsComplete reports whether every seeded item has been marked Complete.
func (q *WorkQueue) IsComplete() bool { return q.Remaining() == 0 }

// FileLockManager hands out a single-permit lock per file path, ensuring at
// most one mutant targeting a given file is being built/tested at a time
// (mutated source written to a shared working copy, or a build directory
// keyed by path, would otherwise race).
type FileLockManager struct {
	mu    sync.RWMutex
	locks map[string]chan struct{}
}

// NewFileLockManager builds an empty lock table.
func NewFileLockManager() *FileLockManager {
	return &FileLockManager{locks: make(map[string]chan struct{})}
}

// Lock returns the (possibly newly created) single-permit channel for path.
// Callers acquire the permit with `<-lock` and release it with `lock <- struct{}{}`.
func (m *FileLockManager) Lock(path string) chan struct{} {
	m.mu.RLock()
	lock, ok := m.locks[path]
	m.mu.RUnlock()

	if ok {
		return lock
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok = m.locks[path]
	if !ok {
		lock = make(chan struct{}, 1)
		lock <- struct{}{}
		m.locks[path] = lock
	}

	return lock
}

// Runner is a function that applies and evaluates one mutant, returning its
// terminal status and an optional human-readable reason (e.g. the build
// error text, or an equivalence heuristic's explanation).
type Runner func(ctx context.Context, item WorkItem) (model.MutantStatus, string, error)

// Pool drives a WorkQueue with Config.EffectiveWorkers() goroutines,
// invoking run for each item under its file's lock, and reports progress
// after every completion via onProgress (nil-safe). It returns one
// MutantResult per WorkItem taken from the queue, in no particular order.
// Once ctx is done it takes no new items (items never taken get no
// result); a run already started does not see the cancellation and ends on
// its own or at its own timeout.
func Pool(ctx context.Context, items []WorkItem, cfg Config, run Runner, onProgress func(ProgressUpdate)) []model.MutantResult {
	queue := NewWorkQueue(items)
	locks := NewFileLockManager()

	results := make([]model.MutantResult, 0, len(items))
	var resultsMu sync.Mutex

	progress := ProgressUpdate{Total: len(items)}
	var progressMu sync.Mutex

	report := func(status model.MutantStatus) {
		progressMu.Lock()
		progress.Update(status)
		snapshot := progress
		progressMu.Unlock()

		if onProgress != nil {
			onProgress(snapshot)
		}
	}

	workers := cfg.EffectiveWorkers()
	group, groupCtx := errgroup.WithContext(ctx)

	for i := 0; i < workers; i++ {
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return nil
				default:
				}

				item, ok := queue.Steal()
				if !ok {
					return nil
				}

				status, reason := evaluate(groupCtx, item, locks, run)

				resultsMu.Lock()
				results = append(results, model.MutantResult{Mutant: item.Mutant, Status: status, Reason: reason})
				resultsMu.Unlock()

				queue.Complete()
				report(status)
			}
		})
	}

	// Workers never return a non-nil error (evaluate folds run's error into
	// a BuildError status instead), so Wait only blocks until all of them
	// finish.
	_ = group.Wait()
	queue.Close()

	return results
}

func evaluate(ctx context.Context, item WorkItem, locks *FileLockManager, run Runner) (model.MutantStatus, string) {
	lock := locks.Lock(item.Mutant.FilePath)

	select {
	case <-lock:
	case <-ctx.Done():
		return model.StatusSkipped, "cancelled before lock acquisition"
	}
	defer func() { lock <- struct{}{} }()

	status, reason, err := run(context.WithoutCancel(ctx), item)
	if err != nil {
		return model.StatusBuildError, err.Error()
	}

	return status, reason
}
