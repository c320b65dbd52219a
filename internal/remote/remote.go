// Package remote clones a remote repository to local disk before analysis,
// using go-git so the engine does not require libgit2 just to fetch a URL.
package remote

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/panbanda/omen/internal/errkind"
)

// CloneOptions configures how a remote repository is fetched.
type CloneOptions struct {
	// URL is the remote repository address (https:// or ssh git@ form).
	URL string
	// Ref, when non-empty, checks out this branch instead of the remote's
	// default branch. It is resolved as refs/heads/<Ref>, so a tag name is
	// not accepted.
	Ref string
	// Shallow clones with depth 1 when true, skipping full history. Callers
	// that need churn/ownership/coupling history must leave this false.
	Shallow bool
}

// Clone fetches opts.URL into a fresh temporary directory and returns its
// path. The caller owns cleanup of the returned directory.
func Clone(ctx context.Context, opts CloneOptions) (string, error) {
	dir, err := os.MkdirTemp("", "omen-clone-*")
	if err != nil {
		return "", errkind.Wrap(errkind.Io, "create clone directory", err)
	}

	cloneOpts := &git.CloneOptions{
		URL: opts.URL,
	}

	if opts.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Ref)
	}

	if opts.Shallow {
		cloneOpts.Depth = 1
	}

	if _, err := git.PlainCloneContext(ctx, dir, false, cloneOpts); err != nil {
		_ = os.RemoveAll(dir)

		return "", errkind.Wrap(errkind.Remote, fmt.Sprintf("clone %s", opts.URL), err)
	}

	return dir, nil
}
