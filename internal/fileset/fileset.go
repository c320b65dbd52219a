// Package fileset enumerates a repository-relative, ignore-rule-and-glob
// filtered set of analyzable paths. A Set is built once at run start and is
// immutable thereafter, per spec.md §3/§4.1.
package fileset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitfs "github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Options configures how a Set is built from a root directory.
type Options struct {
	// Includes, when non-empty, restricts the Set to paths matching at
	// least one glob (path/filepath.Match semantics against the
	// repository-relative path).
	Includes []string
	// Excludes removes paths matching any glob, evaluated after Includes.
	Excludes []string
	// UseGitignore honors .gitignore files found while walking, following
	// standard ignore-file semantics (nested .gitignore files scope to
	// their own subtree).
UseGitignore bool
}

// Set is an ordered, deduplicated collection of repository-relative paths.
// Order is deterministic: sorted by path.
type Set struct {
	root  string
	paths []string
	index map[string]struct{}
}

// Build walks root and returns a Set honoring opts.
func Build(root string, opts Options) (*Set, error) {
	var matcher gitignore.Matcher
	if opts.UseGitignore {
		fs := gitfs.New(root)
		patterns, err := gitignore.ReadPatterns(fs, nil)
		if err == nil && len(patterns) > 0 {
			matcher = gitignore.NewMatcher(patterns)
		}
	}

	var paths []string

	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel == ".git" || strings.HasPrefix(rel, ".git/") {
				return filepath.SkipDir
			}

			if matcher != nil && matcher.Match(strings.Split(rel, "/"), true) {
				return filepath.SkipDir
			}

			return nil
		}

		if matcher != nil && matcher.Match(strings.Split(rel, "/"), false) {
			return nil
		}

		if !matchesIncludes(rel, opts.Includes) {
			return nil
		}

		if matchesExcludes(rel, opts.Excludes) {
			return nil
		}

		paths = append(paths, rel)

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(paths)

	index := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		index[p] = struct{}{}
	}

	return &Set{root: root, paths: paths, index: index}, nil
}

func matchesIncludes(rel string, includes []string) bool {
	if len(includes) == 0 {
		return true
	}

	for _, pattern := range includes {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}

	return false
}

func matchesExcludes(rel string, excludes []string) bool {
	for _, pattern := range excludes {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}

	return false
}

// Root returns the directory the Set was built from.
func (s *Set) Root() string {
	return s.root
}

// Paths returns the sorted, deduplicated repository-relative paths.
func (s *Set) Paths() []string {
	return s.paths
}

// Len returns the number of paths in the Set.
func (s *Set) Len() int {
	return len(s.paths)
}

// Contains reports whether path is a member of the Set.
func (s *Set) Contains(path string) bool {
	_, ok := s.index[path]

	return ok
}
