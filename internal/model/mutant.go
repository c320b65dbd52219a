package model

import "fmt"

// ByteRange is a half-open byte offset range [Start, End) within a source
// buffer.
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two byte ranges intersect.
func (r ByteRange) Overlaps(other ByteRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Mutant is a single syntactic perturbation of source code. Mutants are
// value objects: applying one produces new bytes but never mutates the
// source buffer it was derived from, and a Mutant carries no lifetime tied
// to that buffer.
type Mutant struct {
	ID           string    `json:"id"`
	FilePath     string    `json:"file_path"`
	OperatorTag  string    `json:"operator_tag"`
	Line         int       `json:"line"`
	Column       int       `json:"column"`
	ByteRange    ByteRange `json:"byte_range"`
	Original     string    `json:"original"`
	Replacement  string    `json:"replacement"`
	Description  string    `json:"description"`
}

// Apply produces the mutated bytes: source[:Start] ++ Replacement ++ source[End:].
func (m Mutant) Apply(source []byte) ([]byte, error) {
	if m.ByteRange.Start < 0 || m.ByteRange.End > len(source) || m.ByteRange.Start > m.ByteRange.End {
		return nil, fmt.Errorf("mutant %s: byte range %d:%d out of bounds for %d-byte source",
			m.ID, m.ByteRange.Start, m.ByteRange.End, len(source))
	}

	out := make([]byte, 0, len(source)-(m.ByteRange.End-m.ByteRange.Start)+len(m.Replacement))
	out = append(out, source[:m.ByteRange.Start]...)
	out = append(out, m.Replacement...)
	out = append(out, source[m.ByteRange.End:]...)

	return out, nil
}

// MutantStatus is the terminal (or pending) state of one mutant's execution.
type MutantStatus string

const (
	// StatusPending means the mutant has not yet been scheduled.
	StatusPending MutantStatus = "pending"
	// StatusKilled means a test failed with the mutant applied.
	StatusKilled MutantStatus = "killed"
	// StatusSurvived means all tests passed with the mutant applied.
	StatusSurvived MutantStatus = "survived"
	// StatusTimeout means the build/test run exceeded its time budget.
	StatusTimeout MutantStatus = "timeout"
	// StatusBuildError means the mutated source failed to build.
	StatusBuildError MutantStatus = "build_error"
	// StatusEquivalent means a heuristic flagged the mutant likely-equivalent
	// before or after execution, excluding it from the score.
	StatusEquivalent MutantStatus = "equivalent"
	// StatusSkipped means the mutant was intentionally not evaluated.
	StatusSkipped MutantStatus = "skipped"
)

// CountsTowardScore reports whether a status contributes to the mutation
// score denominator (killed + survived).
func (s MutantStatus) CountsTowardScore() bool {
	return s == StatusKilled || s == StatusSurvived
}

// MutantResult is the outcome of evaluating a single mutant.
type MutantResult struct {
	Mutant Mutant       `json:"mutant"`
	Status MutantStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}
