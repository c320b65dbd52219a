// Package gitgw defines the Git Gateway capability: the minimal surface the
// analyzers need from a repository, independent of which backend serves it.
// internal/gitio provides the git2go-backed implementation.
package gitgw

import (
	"context"

	"github.com/panbanda/omen/internal/model"
)

// Unlimited marks a Since bound as "no limit". It is the Unix epoch (0), so
// a lower bound of exactly the epoch cannot be expressed.
const Unlimited int64 = 0

// LogOptions bounds a history walk.
type LogOptions struct {
	// Since, when non-zero, excludes commits authored before this Unix
	// timestamp. Unlimited (0) means no lower bound.
	Since int64
	// Paths, when non-empty, restricts the walk to commits touching at
	// least one of these repository-relative paths.
	Paths []string
}

// Gateway is the capability interface every analyzer depends on to read
// repository history and blame. Implementations must be safe for concurrent
// use by multiple goroutines.
type Gateway interface {
	// HeadSHA returns the commit SHA that HEAD currently resolves to.
	HeadSHA(ctx context.Context) (string, error)
	// CurrentBranch returns the short name of the checked-out branch, or
	// "" in detached-HEAD state.
	CurrentBranch(ctx context.Context) (string, error)
	// Log returns commits reachable from HEAD, newest first, honoring opts.
	Log(ctx context.Context, opts LogOptions) ([]model.Commit, error)
	// LogWithStats is Log but each commit's FileChange entries carry
	// accurate Additions/Deletions computed from a tree diff against the
	// commit's first parent (or against the empty tree for a root commit).
	LogWithStats(ctx context.Context, opts LogOptions) ([]model.Commit, error)
	// Blame returns line-by-line attribution for path as of HEAD.
	Blame(ctx context.Context, path string) (model.Blame, error)
}
