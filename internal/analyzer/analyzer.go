// Package analyzer defines the capability interfaces every analysis
// component is built against — Analyzer, ContentSource, and GitGateway —
// and a small explicit registry that selects implementations by name rather
// than through a class hierarchy, per the engine's "capability interfaces
// over inheritance" design note.
package analyzer

import (
	"context"

	"github.com/panbanda/omen/internal/anctx"
)

// Analyzer is the capability every report-producing component implements.
// Run must not mutate shared state outside of what it returns: analyzers
// run concurrently against the same Analysis Context.
type Analyzer interface {
	// Name identifies the analyzer for registry lookup and CLI selection.
	Name() string
	// Run executes the analyzer against ctx and returns its report as an
	// arbitrary value; callers type-assert to the concrete report type
	// they expect (e.g. *model.ChurnReport).
	Run(ctx context.Context, ac *anctx.Context) (any, error)
}

// Factory constructs an Analyzer, letting the registry defer construction
// until an analyzer is actually selected (e.g. to bind CLI flags).
type Factory func() Analyzer

// Registry maps analyzer names to factories. The zero value is ready to use.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds factory under name, overwriting any prior registration.
func (r *Registry) Register(name string, factory Factory) {
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}

	r.factories[name] = factory
}

// Get constructs the analyzer registered under name. ok is false if name is
// unknown.
func (r *Registry) Get(name string) (Analyzer, bool) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, false
	}

	return factory(), true
}

// Names returns every registered analyzer name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}
