package mutate

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/panbanda/omen/internal/model"
)

// ShellConfig configures ShellRunner's build/test invocations. BuildCommand
// and TestCommand are run through "sh -c" so callers can pass a full
// pipeline (e.g. "go build ./..." or "make test"), rooted at RepoRoot.
type ShellConfig struct {
	RepoRoot     string
	BuildCommand string
	TestCommand  string
	Timeout      time.Duration
}

// ShellRunner returns a Runner that applies a mutant's bytes over its file
// in place, runs BuildCommand then TestCommand against the mutated tree,
// and always restores the file's original bytes afterward — whether the
// commands succeed, fail, or the context expires. detector runs first so an
// equivalence-heuristic match never pays for a build/test cycle it cannot
// possibly observe.
func ShellRunner(cfg ShellConfig, detector *Detector) Runner {
	return func(ctx context.Context, item WorkItem) (model.MutantStatus, string, error) {
		if detector != nil {
			if reason, ok := detector.EquivalenceReason(item.Mutant, Features{}); ok {
				return model.StatusEquivalent, string(reason), nil
			}
		}

		mutated, err := item.Mutant.Apply(item.Source)
		if err != nil {
			return model.StatusBuildError, "", err
		}

		info, err := os.Stat(item.Mutant.FilePath)
		if err != nil {
			return model.StatusBuildError, "", err
		}

		if err := os.WriteFile(item.Mutant.FilePath, mutated, info.Mode()); err != nil {
			return model.StatusBuildError, "", err
		}

		defer func() {
			_ = os.WriteFile(item.Mutant.FilePath, item.Source, info.Mode())
		}()

		runCtx := ctx
		var cancel context.CancelFunc

		if cfg.Timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		if output, err := runShell(runCtx, cfg.RepoRoot, cfg.BuildCommand); err != nil {
			if runCtx.Err() == context.DeadlineExceeded {
				return model.StatusTimeout, output, nil
			}

			return model.StatusBuildError, output, nil
		}

		output, err := runShell(runCtx, cfg.RepoRoot, cfg.TestCommand)
		if runCtx.Err() == context.DeadlineExceeded {
			return model.StatusTimeout, output, nil
		}

		if err != nil {
			return model.StatusKilled, output, nil
		}

		return model.StatusSurvived, output, nil
	}
}

func runShell(ctx context.Context, dir, command string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()

	return string(out), err
}
