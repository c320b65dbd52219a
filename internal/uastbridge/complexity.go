package uastbridge

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// extractFunctions walks the whole parse tree and emits one FunctionMetric
// per function-boundary node the language's spec recognizes, computing
// each function's own complexity from its subtree while treating any
// nested function as an opaque, separately counted unit.
func extractFunctions(root *tree_sitter.Node, src []byte, spec langSpec) []functionNode {
	var out []functionNode
	walkFunctions(root, src, spec, &out)
	return out
}

type functionNode struct {
	name       string
	startLine  int
	endLine    int
	cyclomatic int
	cognitive  int
}

func walkFunctions(node *tree_sitter.Node, src []byte, spec langSpec, out *[]functionNode) {
	if node == nil {
		return
	}

	if spec.isFunction(node.Kind()) {
		*out = append(*out, functionNode{
			name:       functionName(node, src),
			startLine:  int(node.StartPosition().Row) + 1,
			endLine:    int(node.EndPosition().Row) + 1,
			cyclomatic: 1 + countCyclomatic(node, spec),
			cognitive:  countCognitive(node, spec, 0),
		})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkFunctions(node.Child(i), src, spec, out)
	}
}

func functionName(node *tree_sitter.Node, src []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return "anonymous"
	}
	return nodeText(nameNode, src)
}

func nodeText(node *tree_sitter.Node, src []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(src)) {
		end = uint(len(src))
	}
	if start > end {
		return ""
	}
	return string(src[start:end])
}

// countCyclomatic sums decision points within node's subtree, stopping at
// any nested function boundary (that function counts its own).
func countCyclomatic(node *tree_sitter.Node, spec langSpec) int {
	total := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.Kind()

		if spec.isFunction(kind) {
			continue
		}
		if spec.isNesting(kind) || spec.isFlatBranch(kind) || spec.isLogical(kind) {
			total++
		}
		total += countCyclomatic(child, spec)
	}
	return total
}

// countCognitive walks node's subtree accumulating SonarSource-style
// cognitive complexity: nesting control structures add 1 plus the current
// nesting depth and increase depth for their body, flat branches (elif,
// catch, case labels) add a flat 1, and short-circuit boolean operators
// add a flat 1 without affecting nesting.
func countCognitive(node *tree_sitter.Node, spec langSpec, depth int) int {
	total := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.Kind()

		switch {
		case spec.isFunction(kind):
			continue
		case spec.isNesting(kind):
			total += 1 + depth
			total += countCognitive(child, spec, depth+1)
		case spec.isFlatBranch(kind), spec.isLogical(kind):
			total++
			total += countCognitive(child, spec, depth)
		default:
			total += countCognitive(child, spec, depth)
		}
	}
	return total
}
