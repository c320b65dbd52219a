// Package anctx defines the Analysis Context: the single bundle of
// dependencies an analyzer needs, threaded explicitly rather than held in
// package-level state. There is no global mutable state anywhere in the
// engine — every analyzer receives everything it needs through a *Context.
package anctx

import (
	"github.com/panbanda/omen/internal/content"
	"github.com/panbanda/omen/internal/fileset"
	"github.com/panbanda/omen/internal/gitgw"
)

// ProgressFunc reports incremental progress to the caller (CLI progress bar,
// MCP streaming response, or a test probe). Both arguments are 1-indexed;
// total is 0 when the component cannot estimate it up front.
type ProgressFunc func(stage string, done, total int)

// Options configures the values an analyzer is allowed to read.
type Options struct {
	// MinCochanges is the Temporal Coupling Analyzer's minimum co-change
	// count filter (default 3, per spec.md §4.5).
	MinCochanges int
	// PeriodDays restricts history-derived analyzers to the last N days of
	// commits; 0 means unlimited.
	PeriodDays uint32
}

// Context binds a File Set, the repository root, optional Git Gateway
// access, a content source, runtime options, and a progress callback into
// one value passed explicitly to every Analyzer.Run call.
type Context struct {
	Root     string
	Files    *fileset.Set
	Git      gitgw.Gateway // nil when running without git history.
	Content  content.Source
	Options  Options
	Progress ProgressFunc
}

// Report invokes Progress if one was supplied, so callers never need a nil
// check at every call site.
func (c *Context) Report(stage string, done, total int) {
	if c.Progress != nil {
		c.Progress(stage, done, total)
	}
}

// RequireGit returns the bound Git Gateway and true, or nil and false if the
// context was built without git history (e.g. analyzing a bare directory
// snapshot).
func (c *Context) RequireGit() (gitgw.Gateway, bool) {
	if c.Git == nil {
		return nil, false
	}

	return c.Git, true
}
