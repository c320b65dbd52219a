package mutate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/mutate"
)

func writeShellFixture(t *testing.T, content string) (dir, path string) {
	t.Helper()

	dir = t.TempDir()
	path = filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return dir, path
}

func shellItem(path string, source []byte) mutate.WorkItem {
	return mutate.WorkItem{
		Mutant: model.Mutant{
			ID:          "m1",
			FilePath:    path,
			OperatorTag: "CRR",
			ByteRange:   model.ByteRange{Start: 0, End: 0},
			Replacement: "",
		},
		Source: source,
	}
}

func TestShellRunner_SurvivedWhenTestsPass(t *testing.T) {
	t.Parallel()

	dir, path := writeShellFixture(t, "package main\n")
	source, err := os.ReadFile(path)
	require.NoError(t, err)

	run := mutate.ShellRunner(mutate.ShellConfig{
		RepoRoot:    dir,
		TestCommand: "true",
	}, nil)

	status, _, err := run(context.Background(), shellItem(path, source))

	require.NoError(t, err)
	assert.Equal(t, model.StatusSurvived, status)
}

func TestShellRunner_KilledWhenTestsFail(t *testing.T) {
	t.Parallel()

	dir, path := writeShellFixture(t, "package main\n")
	source, err := os.ReadFile(path)
	require.NoError(t, err)

	run := mutate.ShellRunner(mutate.ShellConfig{
		RepoRoot:    dir,
		TestCommand: "false",
	}, nil)

	status, _, err := run(context.Background(), shellItem(path, source))

	require.NoError(t, err)
	assert.Equal(t, model.StatusKilled, status)
}

func TestShellRunner_BuildErrorWhenBuildCommandFails(t *testing.T) {
	t.Parallel()

	dir, path := writeShellFixture(t, "package main\n")
	source, err := os.ReadFile(path)
	require.NoError(t, err)

	run := mutate.ShellRunner(mutate.ShellConfig{
		RepoRoot:     dir,
		BuildCommand: "false",
		TestCommand:  "true",
	}, nil)

	status, _, err := run(context.Background(), shellItem(path, source))

	require.NoError(t, err)
	assert.Equal(t, model.StatusBuildError, status)
}

func TestShellRunner_RestoresOriginalFileAfterRun(t *testing.T) {
	t.Parallel()

	original := "package main\n\nconst N = 1\n"
	dir, path := writeShellFixture(t, original)

	run := mutate.ShellRunner(mutate.ShellConfig{
		RepoRoot:    dir,
		TestCommand: "true",
	}, nil)

	item := mutate.WorkItem{
		Mutant: model.Mutant{
			ID:          "m1",
			FilePath:    path,
			OperatorTag: "CRR",
			ByteRange:   model.ByteRange{Start: 24, End: 25},
			Original:    "1",
			Replacement: "2",
		},
		Source: []byte(original),
	}

	_, _, err := run(context.Background(), item)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(after))
}

func TestShellRunner_SkipsExecutionWhenLikelyEquivalent(t *testing.T) {
	t.Parallel()

	dir, path := writeShellFixture(t, "package main\n")
	source, err := os.ReadFile(path)
	require.NoError(t, err)

	item := shellItem(path, source)
	item.Mutant.Original = "0"
	item.Mutant.Replacement = "0"

	var ran bool

	run := mutate.ShellRunner(mutate.ShellConfig{
		RepoRoot:    dir,
		TestCommand: "sh -c 'exit 1'",
	}, mutate.NewDetector())

	status, reason, err := run(context.Background(), item)

	require.NoError(t, err)
	assert.Equal(t, model.StatusEquivalent, status)
	assert.NotEmpty(t, reason)
	assert.False(t, ran)
}

func TestShellRunner_TimeoutWhenTestCommandExceedsDeadline(t *testing.T) {
	t.Parallel()

	dir, path := writeShellFixture(t, "package main\n")
	source, err := os.ReadFile(path)
	require.NoError(t, err)

	run := mutate.ShellRunner(mutate.ShellConfig{
		RepoRoot:    dir,
		TestCommand: "sleep 2",
		Timeout:     20 * time.Millisecond,
	}, nil)

	status, _, err := run(context.Background(), shellItem(path, source))

	require.NoError(t, err)
	assert.Equal(t, model.StatusTimeout, status)
}
