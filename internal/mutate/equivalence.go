package mutate

import (
	"strings"

	"github.com/panbanda/omen/internal/model"
)

// Reason explains why a mutant was flagged likely-equivalent.
type Reason string

const (
	// ReasonLoggingStatement: the mutation sits inside logging/debug code
	// that has no effect on program behavior.
	ReasonLoggingStatement Reason = "in_logging_statement"
	// ReasonDeadCode: the mutation is inside unreachable code.
	ReasonDeadCode Reason = "in_dead_code"
	// ReasonSemanticallyEquivalent: the mutation produces code that
	// evaluates identically to the original (identity arithmetic, format
	// equivalence, double negation).
	ReasonSemanticallyEquivalent Reason = "semantically_equivalent"
	// ReasonBoilerplate: the mutation is in generated/boilerplate code or
	// mutates a boilerplate default value.
	ReasonBoilerplate Reason = "in_boilerplate"
	// ReasonNoObservableBehavior: the mutation doesn't affect the function's
	// return value and is deep enough in the tree, or is a non-returned
	// string literal, that no test is likely to observe it.
	ReasonNoObservableBehavior Reason = "no_observable_behavior"
)

// Features is the static context a caller (the source-analyzer bridge, or a
// hand-built fixture in tests) supplies about a mutant's surrounding code,
// used to decide whether it is likely equivalent before spending a worker
// slot building and testing it.
type Features struct {
	InLogging     bool
	InDeadCode    bool
	AffectsReturn bool
	ASTDepth      int
	OperatorType  string
}

// Detector flags mutants as likely-equivalent using ordered pattern-based
// heuristics. Rules are checked in a fixed priority order — the first
// matching rule wins, since a mutant can trigger more than one (e.g. dead
// logging code triggers both InLoggingStatement and InDeadCode).
type Detector struct {
	boilerplatePatterns []string
}

// NewDetector builds a Detector with the default boilerplate pattern list.
func NewDetector() *Detector {
	return &Detector{boilerplatePatterns: defaultBoilerplatePatterns()}
}

// NewDetectorWithPatterns builds a Detector using a caller-supplied
// boilerplate pattern list instead of the default.
func NewDetectorWithPatterns(patterns []string) *Detector {
	return &Detector{boilerplatePatterns: patterns}
}

func defaultBoilerplatePatterns() []string {
	return []string{
		"generated",
		"auto-generated",
		"do not edit",
		".pb.",
		"_generated",
		"mock",
		"stub",
	}
}

// IsLikelyEquivalent reports whether any heuristic rule matches.
func (d *Detector) IsLikelyEquivalent(m model.Mutant, f Features) bool {
	_, ok := d.EquivalenceReason(m, f)
	return ok
}

// EquivalenceReason runs the five heuristic rules in priority order and
// returns the first match:
//  1. logging statement
//  2. dead code
//  3. semantically equivalent rewrite
//  4. boilerplate
//  5. no observable behavior
func (d *Detector) EquivalenceReason(m model.Mutant, f Features) (Reason, bool) {
	if f.InLogging {
		return ReasonLoggingStatement, true
	}

	if f.InDeadCode {
		return ReasonDeadCode, true
	}

	if isSemanticallyEquivalent(m) {
		return ReasonSemanticallyEquivalent, true
	}

	if d.isInBoilerplate(m) {
		return ReasonBoilerplate, true
	}

	if !f.AffectsReturn && isLikelySideEffectFree(m, f) {
		return ReasonNoObservableBehavior, true
	}

	return "", false
}

func (d *Detector) isInBoilerplate(m model.Mutant) bool {
	filePath := strings.ToLower(m.FilePath)
	description := strings.ToLower(m.Description)

	for _, pattern := range d.boilerplatePatterns {
		lower := strings.ToLower(pattern)
		if strings.Contains(filePath, lower) || strings.Contains(description, lower) {
			return true
		}
	}

	return isBoilerplateValue(strings.ToLower(strings.TrimSpace(m.Original)))
}

func isBoilerplateValue(value string) bool {
	switch value {
	case "0", "1", "true", "false", `""`, "''", "none", "null", "nil":
		return true
	default:
		return false
	}
}

func isSemanticallyEquivalent(m model.Mutant) bool {
	original := strings.TrimSpace(m.Original)
	replacement := strings.TrimSpace(m.Replacement)

	if (original == "true" && strings.Contains(replacement, "==")) ||
		(replacement == "true" && strings.Contains(original, "==")) {
		eqSource := original
		if !strings.Contains(original, "==") {
			eqSource = replacement
		}
		if left, right, ok := splitOnce(eqSource, "=="); ok {
			if strings.TrimSpace(left) == strings.TrimSpace(right) {
				return true
			}
		}
	}

	if isIdentityOperation(original, replacement) {
		return true
	}

	if isFormatEquivalent(original, replacement) {
		return true
	}

	if isDoubleNegation(original, replacement) {
		return true
	}

	return false
}

func splitOnce(s, sep string) (string, string, bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

// isIdentityOperation recognizes rewrites that cannot change a numeric
// result: multiplying by 1, or bitwise-or/xor with 0. Adding/subtracting 0
// is deliberately NOT treated as identity here — "original 0, replaced with
// x+something" changes which variable is involved, not just its value.
func isIdentityOperation(original, replacement string) bool {
	if original == "1" && strings.Contains(replacement, "*") {
		return true
	}

	if (original == "0" || replacement == "0") &&
		(strings.Contains(original, "|") || strings.Contains(original, "^") ||
			strings.Contains(replacement, "|") || strings.Contains(replacement, "^")) {
		return true
	}

	return false
}

var emptyStringVariants = map[string]bool{
	`""`: true, "''": true, "String::new()": true, `String::from("")`: true, "str()": true,
}

func isFormatEquivalent(original, replacement string) bool {
	return emptyStringVariants[original] && emptyStringVariants[replacement]
}

func isDoubleNegation(original, replacement string) bool {
	if strings.HasPrefix(original, "!!") && replacement == original[2:] {
		return true
	}
	if strings.HasPrefix(replacement, "!!") && original == replacement[2:] {
		return true
	}
	if strings.HasPrefix(original, "not not ") && replacement == original[8:] {
		return true
	}

	return false
}

// isLikelySideEffectFree flags a mutation as probably unobservable when
// it's buried deep in the AST with no path to the return value, or when it
// rewrites a string literal that isn't used in a returned expression
// (labels, log messages).
func isLikelySideEffectFree(m model.Mutant, f Features) bool {
	if f.ASTDepth > 8 && !f.AffectsReturn {
		return true
	}

	if f.OperatorType == "CRR" && isStringLiteral(m.Original) && !f.AffectsReturn {
		return true
	}

	return false
}

func isStringLiteral(value string) bool {
	return (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
		(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'"))
}
