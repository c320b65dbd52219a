package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/mutate"
)

func testMutant(operator, original, replacement string) model.Mutant {
	return model.Mutant{
		ID:          "test-1",
		FilePath:    "test.go",
		OperatorTag: operator,
		Original:    original,
		Replacement: replacement,
		Description: "test mutation",
		ByteRange:   model.ByteRange{Start: 0, End: len(original)},
	}
}

func TestDetector_InLoggingStatement(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()
	m := testMutant("CRR", "42", "0")
	f := mutate.Features{InLogging: true}

	assert.True(t, d.IsLikelyEquivalent(m, f))
	reason, ok := d.EquivalenceReason(m, f)
	assert.True(t, ok)
	assert.Equal(t, mutate.ReasonLoggingStatement, reason)
}

func TestDetector_InDeadCode(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()
	m := testMutant("CRR", "42", "0")
	f := mutate.Features{InDeadCode: true}

	reason, ok := d.EquivalenceReason(m, f)
	assert.True(t, ok)
	assert.Equal(t, mutate.ReasonDeadCode, reason)
}

// TestEquivalence_LoggingWinsOverDeadCode is the scenario-5 fixture: when a
// mutant triggers multiple heuristic rules at once, the highest-priority
// rule (logging) must win over a lower one (dead code), not whichever the
// implementation happens to check last.
func TestEquivalence_LoggingWinsOverDeadCode(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()
	m := testMutant("CRR", "42", "0")
	f := mutate.Features{InLogging: true, InDeadCode: true}

	reason, ok := d.EquivalenceReason(m, f)
	assert.True(t, ok)
	assert.Equal(t, mutate.ReasonLoggingStatement, reason)
}

func TestDetector_NotEquivalentNormalCode(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()
	m := testMutant("CRR", "42", "0")
	f := mutate.Features{AffectsReturn: true}

	assert.False(t, d.IsLikelyEquivalent(m, f))
}

func TestDetector_SemanticallyEquivalentIdentityOperations(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()

	assert.True(t, d.IsLikelyEquivalent(testMutant("AOR", "1", "x * 1"), mutate.Features{AffectsReturn: true}))
	assert.True(t, d.IsLikelyEquivalent(testMutant("AOR", "0", "x | 0"), mutate.Features{AffectsReturn: true}))
	assert.True(t, d.IsLikelyEquivalent(testMutant("AOR", "0", "x ^ 0"), mutate.Features{AffectsReturn: true}))
}

func TestDetector_FormatEquivalentEmptyStrings(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()

	assert.True(t, d.IsLikelyEquivalent(testMutant("CRR", `""`, "''"), mutate.Features{AffectsReturn: true}))
	assert.False(t, d.IsLikelyEquivalent(testMutant("CRR", `"hello"`, `"world"`), mutate.Features{AffectsReturn: true}))
}

func TestDetector_DoubleNegation(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()

	assert.True(t, d.IsLikelyEquivalent(testMutant("ROR", "!!x", "x"), mutate.Features{AffectsReturn: true}))
	assert.True(t, d.IsLikelyEquivalent(testMutant("ROR", "x", "!!x"), mutate.Features{AffectsReturn: true}))
	assert.False(t, d.IsLikelyEquivalent(testMutant("ROR", "!x", "x"), mutate.Features{AffectsReturn: true}))
}

func TestDetector_BoilerplateDetection(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()

	generated := testMutant("CRR", "42", "0")
	generated.FilePath = "foo.pb.go"
	assert.True(t, d.IsLikelyEquivalent(generated, mutate.Features{AffectsReturn: true}))

	normal := testMutant("CRR", "42", "0")
	normal.FilePath = "user.go"
	assert.False(t, d.IsLikelyEquivalent(normal, mutate.Features{AffectsReturn: true}))
}

func TestDetector_NoObservableBehavior(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetector()
	m := testMutant("CRR", `"label"`, `"other"`)
	f := mutate.Features{AffectsReturn: false, ASTDepth: 10, OperatorType: "CRR"}

	reason, ok := d.EquivalenceReason(m, f)
	assert.True(t, ok)
	assert.Equal(t, mutate.ReasonNoObservableBehavior, reason)
}

func TestDetector_WithCustomBoilerplatePatterns(t *testing.T) {
	t.Parallel()

	d := mutate.NewDetectorWithPatterns([]string{"custom"})
	m := testMutant("CRR", "42", "0")
	m.FilePath = "custom_widget.go"

	assert.True(t, d.IsLikelyEquivalent(m, mutate.Features{AffectsReturn: true}))
}
