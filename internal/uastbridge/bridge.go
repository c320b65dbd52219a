// Package uastbridge implements the source-analyzer interface (spec.md §6)
// on top of tree-sitter: per-function cyclomatic and cognitive complexity
// across Go, Python, Java, JavaScript, and TypeScript/TSX, the same grammar
// set armchr-codeapi wires for its own chunk visitor. Files whose extension
// has no grammar yield zero functions rather than an error; a file that
// fails to parse yields a Parse-kind error, which Hotspot and Defect treat
// as "skip this file's contribution" rather than aborting the run.
package uastbridge

import (
	"context"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/model"
)

// Bridge implements hotspot.ComplexityProvider and the broader §6
// source-analyzer interface. It holds no parser state between calls — each
// AnalyzeFile builds a fresh tree-sitter parser, since parsers are not
// documented safe for concurrent reuse, so one Bridge may be shared across
// goroutines. internal/hotspot calls it sequentially, one file at a time.
type Bridge struct{}

// New returns a ready-to-use Bridge.
func New() *Bridge { return &Bridge{} }

// AnalyzeFile parses path and returns one FunctionMetric per function it
// finds. An unsupported extension returns (nil, nil). A read failure
// returns an Io-kind error; a parse failure returns a Parse-kind error.
func (b *Bridge) AnalyzeFile(ctx context.Context, path string) ([]model.FunctionMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec, ok := specFor(path)
	if !ok {
		return nil, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.Io, "read source file "+path, err)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(spec.language()); err != nil {
		return nil, errkind.Wrap(errkind.Parse, "set grammar for "+path, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, errkind.New(errkind.Parse, "parse failed for "+path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errkind.New(errkind.Parse, "empty parse tree for "+path)
	}

	functions := extractFunctions(root, src, spec)
	metrics := make([]model.FunctionMetric, len(functions))
	for i, f := range functions {
		metrics[i] = model.FunctionMetric{
			Name:       f.name,
			StartLine:  f.startLine,
			EndLine:    f.endLine,
			Cyclomatic: f.cyclomatic,
			Cognitive:  f.cognitive,
		}
	}

	return metrics, nil
}

// FileComplexity implements hotspot.ComplexityProvider: the file's raw
// complexity score is the sum of cyclomatic complexity across its
// functions. Unsupported extensions score 0.
func (b *Bridge) FileComplexity(ctx context.Context, path string) (float64, error) {
	metrics, err := b.AnalyzeFile(ctx, path)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, m := range metrics {
		total += m.Cyclomatic
	}

	return float64(total), nil
}
