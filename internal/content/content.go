// Package content defines the Content Source capability: reading a file's
// bytes either from the working tree or from a specific historical commit.
// Both variants are safe for concurrent use; the historical variant re-opens
// its own repository handle per call rather than sharing one across
// goroutines, following the teacher's cgo_bridge re-open-per-call pattern for
// thread safety around a non-reentrant C library handle.
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/panbanda/omen/internal/cache"
	"github.com/panbanda/omen/internal/errkind"
)

// Source reads file content addressed by repository-relative path.
type Source interface {
	// Read returns the bytes of path. Binary files are returned as-is;
	// callers decide how to handle them.
	Read(ctx context.Context, path string) ([]byte, error)
}

// WorkingTree is a Source backed directly by the filesystem.
type WorkingTree struct {
	root string
}

// NewWorkingTree returns a Source rooted at root.
func NewWorkingTree(root string) *WorkingTree {
	return &WorkingTree{root: root}
}

// Read implements Source.
func (w *WorkingTree) Read(_ context.Context, path string) ([]byte, error) {
	full := filepath.Join(w.root, filepath.FromSlash(path))

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errkind.Wrap(errkind.Io, fmt.Sprintf("read %s", path), err)
	}

	return data, nil
}

// BlobOpener abstracts the Git Gateway operation needed to read a file as of
// a specific commit, letting the historical source stay decoupled from the
// concrete gateway implementation.
type BlobOpener interface {
	ReadBlob(ctx context.Context, commitSHA, path string) ([]byte, error)
}

// Historical is a Source backed by a specific commit in the repository's
// history, resolved through a BlobOpener (internal/gitio.Gateway satisfies
// this).
type Historical struct {
	opener    BlobOpener
	commitSHA string
}

// NewHistorical returns a Source that reads path as of commitSHA.
func NewHistorical(opener BlobOpener, commitSHA string) *Historical {
	return &Historical{opener: opener, commitSHA: commitSHA}
}

// Read implements Source.
func (h *Historical) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := h.opener.ReadBlob(ctx, h.commitSHA, path)
	if err != nil {
		return nil, errkind.Wrap(errkind.Git, fmt.Sprintf("read %s@%s", path, h.commitSHA), err)
	}

	return data, nil
}

// CacheRecorder receives a hit/miss observation for each cached read, so
// callers can feed telemetry.EngineMetrics.RecordCacheAccess without this
// package importing the telemetry package directly.
type CacheRecorder interface {
	RecordCacheAccess(ctx context.Context, cacheName string, hit bool)
}

// noopRecorder discards cache observations; used when no recorder is given.
type noopRecorder struct{}

func (noopRecorder) RecordCacheAccess(context.Context, string, bool) {}

// Cached wraps a Source with an internal/cache.BlobCache, so a file read
// repeatedly across analyzers in one run (history walks revisiting the same
// blob at different commits, or hotspot/defect re-reading a file already
// read by churn) is fetched from disk or the git object store only once.
// Cache keys are namespaced by keyPrefix (typically the commit SHA for
// Historical sources, or a fixed literal such as "worktree" for
// WorkingTree) so two Cached wrappers can safely share one underlying cache.
type Cached struct {
	inner     Source
	blobCache *cache.BlobCache
	keyPrefix string
	recorder  CacheRecorder
}

// NewCached returns a Source that memoizes inner's reads in blobCache under
// keys namespaced by keyPrefix. recorder may be nil, in which case cache
// hit/miss observations are discarded.
func NewCached(inner Source, blobCache *cache.BlobCache, keyPrefix string, recorder CacheRecorder) *Cached {
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &Cached{inner: inner, blobCache: blobCache, keyPrefix: keyPrefix, recorder: recorder}
}

// Read implements Source.
func (c *Cached) Read(ctx context.Context, path string) ([]byte, error) {
	key := c.keyPrefix + ":" + path

	if data, ok := c.blobCache.Get(key); ok {
		c.recorder.RecordCacheAccess(ctx, "blob", true)

		return data, nil
	}

	c.recorder.RecordCacheAccess(ctx, "blob", false)

	data, err := c.inner.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	c.blobCache.Put(key, data)

	return data, nil
}
