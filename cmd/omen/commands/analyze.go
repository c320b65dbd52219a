package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panbanda/omen/internal/churn"
	"github.com/panbanda/omen/internal/coupling"
	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/hotspot"
	"github.com/panbanda/omen/internal/ownership"
	"github.com/panbanda/omen/internal/render"
	"github.com/panbanda/omen/internal/uastbridge"
)

// NewAnalyzeCommand builds the `omen analyze` command group: one
// subcommand per history/composite analyzer, each sharing the repository-
// scoping flags in commonFlags.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a single analyzer against a repository",
	}

	cmd.AddCommand(
		newChurnCommand(),
		newOwnershipCommand(),
		newCouplingCommand(),
		newHotspotCommand(),
		newDefectCommand(),
	)

	return cmd
}

func newChurnCommand() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Score files by recent commit frequency and line-change volume",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := applyConfigDefaults(cobraCmd, &flags); err != nil {
				return err
			}

			ac, err := buildContext(flags)
			if err != nil {
				return err
			}

			gw, ok := ac.RequireGit()
			if !ok {
				return errkind.ErrRequiresGitHistory
			}

			report, err := churn.Compute(cobraCmd.Context(), gw, ac.Root, ac.Options.PeriodDays)
			if err != nil {
				return err
			}

			return printReport(cobraCmd, flags.format, report)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)

	return cmd
}

func newOwnershipCommand() *cobra.Command {
	var (
		flags    commonFlags
		minLines int
	)

	cmd := &cobra.Command{
		Use:   "ownership",
		Short: "Derive knowledge concentration and bus factor from blame",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := applyConfigDefaults(cobraCmd, &flags); err != nil {
				return err
			}

			ac, err := buildContext(flags)
			if err != nil {
				return err
			}

			gw, ok := ac.RequireGit()
			if !ok {
				return errkind.ErrRequiresGitHistory
			}

			report, err := ownership.Compute(cobraCmd.Context(), gw, ac.Files.Paths(), minLines)
			if err != nil {
				return err
			}

			return printReport(cobraCmd, flags.format, report)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().IntVar(&minLines, "min-lines", 0, "exclude files with fewer blamed lines than this")

	return cmd
}

func newCouplingCommand() *cobra.Command {
	var (
		flags        commonFlags
		excludeTests bool
	)

	cmd := &cobra.Command{
		Use:   "coupling",
		Short: "Find files that repeatedly change together",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := applyConfigDefaults(cobraCmd, &flags); err != nil {
				return err
			}

			ac, err := buildContext(flags)
			if err != nil {
				return err
			}

			gw, ok := ac.RequireGit()
			if !ok {
				return errkind.ErrRequiresGitHistory
			}

			report, err := coupling.Compute(cobraCmd.Context(), gw, coupling.Options{
				PeriodDays:   ac.Options.PeriodDays,
				MinCochanges: ac.Options.MinCochanges,
				ExcludeTests: excludeTests,
			})
			if err != nil {
				return err
			}

			return printReport(cobraCmd, flags.format, report)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&excludeTests, "exclude-tests", true, "exclude test files from co-change pairs")

	return cmd
}

func newHotspotCommand() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "hotspot",
		Short: "Rank files by churn x complexity",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := applyConfigDefaults(cobraCmd, &flags); err != nil {
				return err
			}

			ac, err := buildContext(flags)
			if err != nil {
				return err
			}

			report, err := hotspot.ComputeHotspot(cobraCmd.Context(), ac.Git, uastbridge.New(), ac.Root, ac.Files.Paths(), ac.Options.PeriodDays)
			if err != nil {
				return err
			}

			return printReport(cobraCmd, flags.format, report)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)

	return cmd
}

func newDefectCommand() *cobra.Command {
	var (
		flags    commonFlags
		minLines int
	)

	cmd := &cobra.Command{
		Use:   "defect",
		Short: "Predict defect density from churn, ownership, and complexity",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if err := applyConfigDefaults(cobraCmd, &flags); err != nil {
				return err
			}

			ac, err := buildContext(flags)
			if err != nil {
				return err
			}

			if minLines < 1 {
				minLines = 1
			}

			report, err := hotspot.ComputeDefect(cobraCmd.Context(), ac.Git, uastbridge.New(), ac.Root, ac.Files.Paths(), ac.Options.PeriodDays, minLines)
			if err != nil {
				return err
			}

			return printReport(cobraCmd, flags.format, report)
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().IntVar(&minLines, "min-lines", 1, "exclude files with fewer blamed lines than this")

	return cmd
}

func printReport(cmd *cobra.Command, format string, report any) error {
	out, err := render.Render(render.Format(format), report)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)

	return nil
}
