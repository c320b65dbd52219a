package anctx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panbanda/omen/internal/anctx"
)

func TestContext_Report_NilProgressIsNoop(t *testing.T) {
	t.Parallel()

	ac := &anctx.Context{}
	assert.NotPanics(t, func() { ac.Report("churn", 1, 10) })
}

func TestContext_Report_InvokesCallback(t *testing.T) {
	t.Parallel()

	var gotStage string
	var gotDone, gotTotal int

	ac := &anctx.Context{Progress: func(stage string, done, total int) {
		gotStage, gotDone, gotTotal = stage, done, total
	}}

	ac.Report("ownership", 3, 9)

	assert.Equal(t, "ownership", gotStage)
	assert.Equal(t, 3, gotDone)
	assert.Equal(t, 9, gotTotal)
}

func TestContext_RequireGit(t *testing.T) {
	t.Parallel()

	ac := &anctx.Context{}
	_, ok := ac.RequireGit()
	assert.False(t, ok)
}
