package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/panbanda/omen/internal/fileset"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/semanticindex"
	"github.com/panbanda/omen/internal/semanticstore"
	"github.com/panbanda/omen/internal/uastbridge"
)

// NewSearchCommand builds the `omen search` command group: `index` rebuilds
// the persistent TF-IDF cache, `query` ranks indexed documents against a
// free-text query, optionally scoped to a subset of files.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Build and query the semantic (TF-IDF) search index",
	}

	cmd.AddCommand(newSearchIndexCommand(), newSearchQueryCommand())

	return cmd
}

func newSearchIndexCommand() *cobra.Command {
	var (
		flags    commonFlags
		force    bool
		maxVocab int
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the semantic search index for changed files",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !cobraCmd.Flags().Changed("max-vocab") {
				maxVocab = cfg.Semantic.MaxVocab
			}

			if !cobraCmd.Flags().Changed("force") {
				force = cfg.Semantic.ForceRebuild
			}

			files, err := fileset.Build(flags.repoPath, fileset.Options{
				Includes:     flags.includes,
				Excludes:     flags.excludes,
				UseGitignore: flags.useGitignore,
			})
			if err != nil {
				return err
			}

			store, err := semanticstore.Open(flags.repoPath)
			if err != nil {
				return err
			}

			store.SetMaxVocab(maxVocab)

			bridge := uastbridge.New()
			fileSet := semanticindex.BuildFileSet(flags.repoPath, files)
			extractor := semanticindex.Extractor(flags.repoPath, bridge)

			engine, err := store.Reindex(fileSet, extractor, force)
			if err != nil {
				return err
			}

			if err := store.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cobraCmd.OutOrStdout(), "indexed %d files, %d documents, vocab=%d\n",
				len(fileSet), len(engine.Docs()), engine.VocabSize())

			return nil
		},
	}

	addCommonFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&force, "force", false, "wipe the cache and rebuild from scratch")
	cmd.Flags().IntVar(&maxVocab, "max-vocab", 0, "cap the vocabulary at this many terms (0 = use configured/default)")

	return cmd
}

func newSearchQueryCommand() *cobra.Command {
	var (
		repoPath string
		format   string
		topK     int
		files    []string
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Rank indexed documents against a free-text query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			store, err := semanticstore.Open(repoPath)
			if err != nil {
				return err
			}

			engine := store.Engine()
			if engine == nil {
				engine, err = store.Reindex(semanticstore.FileSet{}, func(string) ([]model.Document, error) { return nil, nil }, false)
				if err != nil {
					return err
				}
			}

			var results []model.SearchResult
			if len(files) > 0 {
				results = engine.SearchInFiles(args[0], files, topK)
			} else {
				results = engine.Search(args[0], topK)
			}

			report := model.SearchReport{
				Query:       args[0],
				GeneratedAt: time.Now().Unix(),
				Results:     results,
			}

			return printReport(cobraCmd, format, &report)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "path to the repository whose index to query")
	cmd.Flags().StringVar(&format, "format", "text", "output format: json, markdown, or text")
	cmd.Flags().IntVar(&topK, "top", 10, "maximum number of results to return")
	cmd.Flags().StringArrayVar(&files, "file", nil, "restrict results to this file (repeatable)")

	return cmd
}
