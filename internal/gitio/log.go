package gitio

import (
	"context"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/model"
)

// Log implements gitgw.Gateway without per-file stats.
func (g *Gateway) Log(ctx context.Context, opts gitgw.LogOptions) ([]model.Commit, error) {
	return g.walk(ctx, opts, false)
}

// LogWithStats implements gitgw.Gateway with accurate per-file
// additions/deletions computed from a tree diff against the first parent.
func (g *Gateway) LogWithStats(ctx context.Context, opts gitgw.LogOptions) ([]model.Commit, error) {
	return g.walk(ctx, opts, true)
}

func (g *Gateway) walk(_ context.Context, opts gitgw.LogOptions, withStats bool) ([]model.Commit, error) {
	var commits []model.Commit

	err := g.withRepo(func(repo *git2go.Repository) error {
		walker, err := repo.Walk()
		if err != nil {
			return errkind.Wrap(errkind.Git, "create revwalk", err)
		}
		defer walker.Free()

		head, err := repo.Head()
		if err != nil {
			return errkind.Wrap(errkind.Git, "resolve HEAD", err)
		}
		defer head.Free()

		if err := walker.Push(head.Target()); err != nil {
			return errkind.Wrap(errkind.Git, "push HEAD to revwalk", err)
		}

		walker.Sorting(git2go.SortTime | git2go.SortTopological)

		pathFilter := make(map[string]struct{}, len(opts.Paths))
		for _, p := range opts.Paths {
			pathFilter[p] = struct{}{}
		}

		oid := new(git2go.Oid)
		for walker.Next(oid) == nil {
			commit, err := repo.LookupCommit(oid)
			if err != nil {
				continue
			}

			if opts.Since != gitgw.Unlimited && commit.Author().When.Unix() < opts.Since {
				commit.Free()

				continue
			}

			converted, err := g.convertCommit(repo, commit, withStats)
			commit.Free()

			if err != nil {
				return err
			}

			if len(pathFilter) > 0 && !touchesAny(converted.Files, pathFilter) {
				continue
			}

			commits = append(commits, converted)
		}

		return nil
	})

	return commits, err
}

func touchesAny(files []model.FileChange, filter map[string]struct{}) bool {
	for _, f := range files {
		if _, ok := filter[f.Path]; ok {
			return true
		}
	}

	return false
}

func (g *Gateway) convertCommit(repo *git2go.Repository, commit *git2go.Commit, withStats bool) (model.Commit, error) {
	sig := commit.Author()

	result := model.Commit{
		SHA:            hashFromOid(commit.Id()).String(),
		AuthorName:     sig.Name,
		AuthorEmail:    sig.Email,
		Timestamp:      sig.When.Unix(),
		MessageSubject: firstLine(commit.Summary()),
	}

	tree, err := commit.Tree()
	if err != nil {
		return result, errkind.Wrap(errkind.Git, "resolve commit tree", err)
	}
	defer tree.Free()

	var parentTree *git2go.Tree
	if commit.ParentCount() > 0 {
		parent := commit.Parent(0)
		if parent != nil {
			defer parent.Free()

			parentTree, err = parent.Tree()
			if err != nil {
				return result, errkind.Wrap(errkind.Git, "resolve parent tree", err)
			}
			defer parentTree.Free()
		}
	}

	diffOpts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return result, errkind.Wrap(errkind.Git, "diff options", err)
	}

	diff, err := repo.DiffTreeToTree(parentTree, tree, &diffOpts)
	if err != nil {
		return result, errkind.Wrap(errkind.Git, "diff tree to tree", err)
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return result, errkind.Wrap(errkind.Git, "diff num deltas", err)
	}

	result.Files = make([]model.FileChange, 0, numDeltas)

	for i := 0; i < numDeltas; i++ {
		delta, err := diff.Delta(i)
		if err != nil {
			continue
		}

		fc := model.FileChange{
			Path: pickPath(delta),
			Kind: changeKind(delta.Status),
		}

		if withStats {
			adds, dels, binary := statsForDelta(diff, i)
			fc.Additions = adds
			fc.Deletions = dels
			fc.Binary = binary
		}

		result.Files = append(result.Files, fc)
	}

	return result, nil
}

func statsForDelta(diff *git2go.Diff, index int) (additions, deletions int, binary bool) {
	patch, err := diff.Patch(index)
	if err != nil || patch == nil {
		return 0, 0, false
	}
	defer patch.Free()

	_, a, d, err := patch.LineStats()
	if err != nil {
		return 0, 0, false
	}

	// Building the patch loads both sides of the delta, which records the
	// binary flag on the diff's own copy of it.
	delta, err := diff.Delta(index)
	binary = err == nil && delta.Flags&git2go.DiffFlagBinary != 0

	return a, d, binary
}

func pickPath(delta git2go.DiffDelta) string {
	if delta.NewFile.Path != "" {
		return delta.NewFile.Path
	}

	return delta.OldFile.Path
}

func changeKind(status git2go.Delta) model.ChangeKind {
	switch status {
	case git2go.DeltaAdded:
		return model.ChangeAdded
	case git2go.DeltaDeleted:
		return model.ChangeDeleted
	case git2go.DeltaRenamed:
		return model.ChangeRenamed
	default:
		return model.ChangeModified
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}
