package uastbridge

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// langSpec binds one grammar to the node kinds that matter for complexity
// extraction: which nodes are function boundaries, which are decision
// points (cyclomatic), which of those also nest for cognitive complexity,
// and which token kinds are short-circuit boolean operators.
type langSpec struct {
	language      func() *tree_sitter.Language
	functionKinds map[string]struct{}
	nestingKinds  map[string]struct{}
	flatKinds     map[string]struct{}
	logicalKinds  map[string]struct{}
}

func kindSet(kinds ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// langSpecs maps each supported file extension to its grammar and node-kind
// tables. The node kinds are the same ones armchr-codeapi's chunk visitor
// dispatches on per language; logicalKinds are the anonymous tokens
// tree-sitter emits for short-circuit boolean operators.
var langSpecs = map[string]langSpec{
	".go": {
		language:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(golang.Language()) },
		functionKinds: kindSet("function_declaration", "method_declaration", "func_literal"),
		nestingKinds: kindSet(
			"if_statement", "for_statement", "switch_statement",
			"type_switch_statement", "select_statement",
		),
		flatKinds: kindSet("expression_case", "type_case", "communication_case"),
		logicalKinds: kindSet("&&", "||"),
	},
	".py": {
		language:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(python.Language()) },
		functionKinds: kindSet("function_definition"),
		nestingKinds: kindSet(
			"if_statement", "for_statement", "while_statement",
			"match_statement", "try_statement",
		),
		flatKinds:    kindSet("elif_clause", "except_clause", "case_clause"),
		logicalKinds: kindSet("and", "or"),
	},
	".java": {
		language:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(java.Language()) },
		functionKinds: kindSet("method_declaration", "constructor_declaration"),
		nestingKinds: kindSet(
			"if_statement", "for_statement", "enhanced_for_statement",
			"while_statement", "do_statement", "switch_expression", "switch_statement",
		),
		flatKinds:    kindSet("catch_clause", "switch_block_statement_group"),
		logicalKinds: kindSet("&&", "||"),
	},
	".js": {
		language:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(javascript.Language()) },
		functionKinds: kindSet("function_declaration", "function_expression", "method_definition", "arrow_function"),
		nestingKinds: kindSet(
			"if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "switch_statement",
		),
		flatKinds:    kindSet("catch_clause", "switch_case"),
		logicalKinds: kindSet("&&", "||"),
	},
	".jsx": {},
	".ts": {
		language:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(typescript.LanguageTypescript()) },
		functionKinds: kindSet("function_declaration", "function_expression", "method_definition", "arrow_function"),
		nestingKinds: kindSet(
			"if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "switch_statement",
		),
		flatKinds:    kindSet("catch_clause", "switch_case"),
		logicalKinds: kindSet("&&", "||"),
	},
	".tsx": {
		language:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(typescript.LanguageTSX()) },
		functionKinds: kindSet("function_declaration", "function_expression", "method_definition", "arrow_function"),
		nestingKinds: kindSet(
			"if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "switch_statement",
		),
		flatKinds:    kindSet("catch_clause", "switch_case"),
		logicalKinds: kindSet("&&", "||"),
	},
}

func init() {
	langSpecs[".jsx"] = langSpecs[".js"]
}

func specFor(path string) (langSpec, bool) {
	ext := strings.ToLower(extOf(path))
	spec, ok := langSpecs[ext]
	if !ok || spec.language == nil {
		return langSpec{}, false
	}
	return spec, true
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}

func (s langSpec) isFunction(kind string) bool {
	_, ok := s.functionKinds[kind]
	return ok
}

func (s langSpec) isNesting(kind string) bool {
	_, ok := s.nestingKinds[kind]
	return ok
}

func (s langSpec) isFlatBranch(kind string) bool {
	_, ok := s.flatKinds[kind]
	return ok
}

func (s langSpec) isLogical(kind string) bool {
	_, ok := s.logicalKinds[kind]
	return ok
}
