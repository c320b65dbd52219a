package uastbridge

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/model"
)

// Mutation operator tags, matching the vocabulary internal/mutate's
// equivalence heuristics already expect (OperatorType "CRR" is checked
// directly in internal/mutate.isLikelySideEffectFree).
const (
	tagArithmetic = "AOR" // arithmetic operator replacement
	tagRelational = "ROR" // relational operator replacement
	tagLogical    = "LCR" // logical connector replacement
	tagConstant   = "CRR" // constant replacement rule
)

// arithmeticReplacements and the other tables below give each mutable
// operator token exactly one replacement, the smallest perturbation that
// still changes program behavior for a generic expression.
var arithmeticReplacements = map[string]string{
	"+": "-", "-": "+", "*": "/", "/": "*", "%": "*",
}

var relationalReplacements = map[string]string{
	"==": "!=", "!=": "==", "<": "<=", "<=": "<", ">": ">=", ">=": ">",
}

var logicalReplacements = map[string]string{
	"&&": "||", "||": "&&",
}

// GenerateMutants parses path and emits one candidate model.Mutant per
// mutable operator or literal token it finds: arithmetic and relational
// binary operators, logical connectors, and integer/boolean literals.
// Mutant source generation is currently grounded on the Go grammar only;
// an unsupported extension yields (nil, nil), the same "skip, don't fail"
// contract AnalyzeFile uses for files outside its grammar set.
func (b *Bridge) GenerateMutants(ctx context.Context, path string) ([]model.Mutant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if extOf(path) != ".go" {
		return nil, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.Io, "read source file "+path, err)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	spec := langSpecs[".go"]
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

	gen := &mutantGen{path: path, src: src, pathHash: shortHash(path)}
	gen.walk(root)

	return gen.mutants, nil
}

type mutantGen struct {
	path     string
	src      []byte
	mutants  []model.Mutant
	seq      int
	pathHash uint32
}

// shortHash gives each file a short, deterministic ID prefix so mutants
// generated from different files in the same run never collide, without
// requiring callers to know the full corpus up front.
func shortHash(path string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))

	return h.Sum32()
}

func (g *mutantGen) walk(node *tree_sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "binary_expression":
		g.binaryExpression(node)
	case "int_literal":
		g.constantLiteral(node, "0")
	case "true":
		g.constantLiteral(node, "false")
	case "false":
		g.constantLiteral(node, "true")
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		g.walk(node.Child(i))
	}
}

// binaryExpression finds the operator token among node's children (the
// unnamed child between the left and right operands) and emits an AOR,
// ROR, or LCR mutant for it, whichever table the token belongs to.
func (g *mutantGen) binaryExpression(node *tree_sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.IsNamed() {
			continue
		}

		op := child.Kind()

		if replacement, ok := arithmeticReplacements[op]; ok {
			g.emit(child, tagArithmetic, op, replacement, "replace arithmetic operator "+op+" with "+replacement)
			return
		}

		if replacement, ok := relationalReplacements[op]; ok {
			g.emit(child, tagRelational, op, replacement, "replace relational operator "+op+" with "+replacement)
			return
		}

		if replacement, ok := logicalReplacements[op]; ok {
			g.emit(child, tagLogical, op, replacement, "replace logical connector "+op+" with "+replacement)
			return
		}
	}
}

func (g *mutantGen) constantLiteral(node *tree_sitter.Node, replacement string) {
	original := nodeText(node, g.src)
	if original == replacement {
		return
	}

	g.emit(node, tagConstant, original, replacement, "replace constant "+original+" with "+replacement)
}

func (g *mutantGen) emit(node *tree_sitter.Node, tag, original, replacement, description string) {
	g.seq++

	start := node.StartPosition()

	g.mutants = append(g.mutants, model.Mutant{
		ID:          fmt.Sprintf("%s-%08x-%d", tag, g.pathHash, g.seq),
		FilePath:    g.path,
		OperatorTag: tag,
		Line:        int(start.Row) + 1,
		Column:      int(start.Column) + 1,
		ByteRange:   model.ByteRange{Start: int(node.StartByte()), End: int(node.EndByte())},
		Original:    original,
		Replacement: replacement,
		Description: description,
	})
}
