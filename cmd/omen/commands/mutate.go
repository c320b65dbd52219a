package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/panbanda/omen/internal/fileset"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/mutate"
	"github.com/panbanda/omen/internal/uastbridge"
)

// NewMutateCommand builds the `omen mutate` command: generates mutants for
// every file in scope, then drives the worker pool against a configured
// build/test command, reporting the aggregate mutation score.
func NewMutateCommand() *cobra.Command {
	var (
		flags        commonFlags
		buildCommand string
		testCommand  string
		workers      int
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mutate",
		Short: "Run mutation testing against the repository's test suite",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !cobraCmd.Flags().Changed("build-command") {
				buildCommand = cfg.Mutation.BuildCommand
			}

			if !cobraCmd.Flags().Changed("test-command") {
				testCommand = cfg.Mutation.TestCommand
			}

			if !cobraCmd.Flags().Changed("workers") {
				workers = cfg.Mutation.Workers
			}

			if !cobraCmd.Flags().Changed("timeout") {
				timeout = cfg.Mutation.Timeout
			}

			files, err := fileset.Build(flags.repoPath, fileset.Options{
				Includes:     flags.includes,
				Excludes:     flags.excludes,
				UseGitignore: flags.useGitignore,
			})
			if err != nil {
				return err
			}

			bridge := uastbridge.New()
			ctx := cobraCmd.Context()

			var items []mutate.WorkItem

			for _, rel := range files.Paths() {
				if !strings.HasSuffix(rel, ".go") {
					continue
				}

				abs := filepath.Join(flags.repoPath, filepath.FromSlash(rel))

				mutants, genErr := bridge.GenerateMutants(ctx, abs)
				if genErr != nil {
					fmt.Fprintf(cobraCmd.ErrOrStderr(), "skip %s: %v\n", rel, genErr)
					continue
				}

				if len(mutants) == 0 {
					continue
				}

				src, readErr := os.ReadFile(abs)
				if readErr != nil {
					continue
				}

				for _, m := range mutants {
					items = append(items, mutate.WorkItem{Mutant: m, Source: src})
				}
			}

			if _, err := mutate.NewBatch(mutantsOf(items)); err != nil {
				return err
			}

			runner := mutate.ShellRunner(mutate.ShellConfig{
				RepoRoot:     flags.repoPath,
				BuildCommand: buildCommand,
				TestCommand:  testCommand,
				Timeout:      timeout,
			}, mutate.NewDetector())

			var progress mutate.ProgressUpdate

			onProgress := func(p mutate.ProgressUpdate) {
				progress = p
				if !flags.quiet {
					fmt.Fprintf(cobraCmd.ErrOrStderr(), "\rmutants %d/%d  killed=%d survived=%d score=%.3f",
						p.Completed, p.Total, p.Killed, p.Survived, p.Score)
				}
			}

			results := mutate.Pool(ctx, items, mutate.Config{Workers: workers}, runner, onProgress)

			if !flags.quiet {
				fmt.Fprintln(cobraCmd.ErrOrStderr())
			}

			report := model.MutationReport{
				GeneratedAt: time.Now().Unix(),
				Results:     results,
				Summary: model.MutationSummary{
					Total:     progress.Total,
					Completed: progress.Completed,
					Killed:    progress.Killed,
					Survived:  progress.Survived,
					Timeout:   progress.Timeout,
					Error:     progress.Error,
					Score:     progress.Score,
				},
			}

			return printReport(cobraCmd, flags.format, &report)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().StringVar(&buildCommand, "build-command", "go build ./...", "command run to verify the mutated tree still builds")
	cmd.Flags().StringVar(&testCommand, "test-command", "go test ./...", "command run to exercise the mutated tree's test suite")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = available parallelism)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-mutant build+test timeout")

	return cmd
}

func mutantsOf(items []mutate.WorkItem) []model.Mutant {
	out := make([]model.Mutant, 0, len(items))
	for _, item := range items {
		out = append(out, item.Mutant)
	}

	return out
}
