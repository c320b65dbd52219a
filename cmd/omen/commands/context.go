// Package commands implements omen's CLI command handlers, one cobra
// command per analyzer plus the mutation, semantic-search, and MCP server
// entry points.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/panbanda/omen/internal/anctx"
	"github.com/panbanda/omen/internal/config"
	"github.com/panbanda/omen/internal/content"
	"github.com/panbanda/omen/internal/fileset"
	"github.com/panbanda/omen/internal/gitgw"
	"github.com/panbanda/omen/internal/gitio"
	"github.com/panbanda/omen/internal/progressui"
)

// ConfigPath is bound to the root command's persistent --config flag in
// main.go and read by loadConfig, which the analyze, mutate, and search
// index subcommands call (directly or via applyConfigDefaults); there is
// exactly one configuration file per process invocation, so a package-level
// var avoids threading it through every command constructor.
var ConfigPath string

// loadConfig loads the omen config file (viper search path, or the
// explicit --config path set via ConfigPath). A missing or unreadable
// config file is not an error here: LoadConfig already returns built-in
// defaults when no file is found.
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(ConfigPath)
}

// applyConfigDefaults overwrites any of flags' fields the user did not
// explicitly set on the command line with the loaded config file's values.
func applyConfigDefaults(cmd *cobra.Command, flags *commonFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("since-days") {
		flags.sinceDays = cfg.Analysis.SinceDays
	}

	if !cmd.Flags().Changed("min-cochanges") {
		flags.minCochanges = cfg.Coupling.MinCochanges
	}

	return nil
}

// commonFlags are the repository-scoping and output flags every analysis
// subcommand accepts.
type commonFlags struct {
	repoPath     string
	sinceDays    int
	minCochanges int
	includes     []string
	excludes     []string
	useGitignore bool
	format       string
	noColor      bool
	quiet        bool
}

// buildContext opens the Git Gateway (when the path is inside a repository)
// and the File Set, then binds both into an *anctx.Context. Git access is
// best-effort: a path outside any repository yields a context with Git nil,
// so analyzers that don't need history (complexity-only callers) still
// work, while history analyzers surface errkind.ErrRequiresGitHistory.
func buildContext(flags commonFlags) (*anctx.Context, error) {
	files, err := fileset.Build(flags.repoPath, fileset.Options{
		Includes:     flags.includes,
		Excludes:     flags.excludes,
		UseGitignore: flags.useGitignore,
	})
	if err != nil {
		return nil, err
	}

	var gw gitgw.Gateway
	if gateway, openErr := gitio.Open(flags.repoPath); openErr == nil {
		gw = gateway
	}

	var progress anctx.ProgressFunc
	if !flags.quiet {
		var reporter *progressui.Reporter
		if flags.noColor {
			reporter = progressui.NewNoColor(os.Stderr)
		} else {
			reporter = progressui.New(os.Stderr)
		}

		progress = reporter.Report
	}

	return &anctx.Context{
		Root:    flags.repoPath,
		Files:   files,
		Git:     gw,
		Content: content.NewWorkingTree(flags.repoPath),
		Options: anctx.Options{
			MinCochanges: flags.minCochanges,
			PeriodDays:   periodDays(flags.sinceDays),
		},
		Progress: progress,
	}, nil
}

// periodDays converts a CLI --since-days value into the Options.PeriodDays
// sentinel: 0 (unset) or negative means unlimited history.
func periodDays(days int) uint32 {
	if days <= 0 {
		return 0
	}

	return uint32(days)
}

func addCommonFlags(fs interface {
	StringVar(*string, string, string, string)
	StringArrayVar(*[]string, string, []string, string)
	IntVar(*int, string, int, string)
	BoolVar(*bool, string, bool, string)
}, flags *commonFlags) {
	fs.StringVar(&flags.repoPath, "repo", ".", "path to the repository to analyze")
	fs.IntVar(&flags.sinceDays, "since-days", 0, "limit history to the last N days (0 = unlimited)")
	fs.IntVar(&flags.minCochanges, "min-cochanges", 3, "minimum co-change count for temporal coupling")
	fs.StringArrayVar(&flags.includes, "include", nil, "glob to include (repeatable)")
	fs.StringArrayVar(&flags.excludes, "exclude", nil, "glob to exclude (repeatable)")
	fs.BoolVar(&flags.useGitignore, "gitignore", true, "honor .gitignore rules when building the file set")
	fs.StringVar(&flags.format, "format", "text", "output format: json, markdown, or text")
	fs.BoolVar(&flags.noColor, "no-color", false, "disable progress bar coloring")
	fs.BoolVar(&flags.quiet, "quiet", false, "suppress progress output")
}
