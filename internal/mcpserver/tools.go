package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/omen/internal/churn"
	"github.com/panbanda/omen/internal/coupling"
	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/fileset"
	"github.com/panbanda/omen/internal/gitio"
	"github.com/panbanda/omen/internal/hotspot"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/mutate"
	"github.com/panbanda/omen/internal/ownership"
	"github.com/panbanda/omen/internal/semanticstore"
	"github.com/panbanda/omen/internal/uastbridge"
)

// Tool name constants.
const (
	ToolNameChurn     = "omen_churn"
	ToolNameOwnership = "omen_ownership"
	ToolNameCoupling  = "omen_coupling"
	ToolNameHotspot   = "omen_hotspot"
	ToolNameDefect    = "omen_defect"
	ToolNameMutate    = "omen_mutate"
	ToolNameSearch    = "omen_semantic_search"
)

// Sentinel errors for tool input validation.
var (
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	ErrEmptyQuery    = errors.New("query parameter is required and must not be empty")
)

// RepoInput is the shared input shape for every repository-scoped tool.
type RepoInput struct {
	RepoPath     string `json:"repo_path"               jsonschema:"absolute path to a Git repository"`
	SinceDays    int    `json:"since_days,omitempty"    jsonschema:"limit history to the last N days (0 = unlimited)"`
	MinCochanges int    `json:"min_cochanges,omitempty" jsonschema:"minimum co-change count for coupling (default 3)"`
}

// MutateInput is the input schema for the omen_mutate tool.
type MutateInput struct {
	RepoPath     string `json:"repo_path"                jsonschema:"absolute path to a Git repository"`
	BuildCommand string `json:"build_command,omitempty"  jsonschema:"command that must succeed against the mutated tree (default: go build ./...)"`
	TestCommand  string `json:"test_command,omitempty"   jsonschema:"command that is expected to fail when a mutant is killed (default: go test ./...)"`
	Workers      int    `json:"workers,omitempty"        jsonschema:"worker count (0 = available parallelism)"`
}

// SearchInput is the input schema for the omen_semantic_search tool.
type SearchInput struct {
	RepoPath string   `json:"repo_path"        jsonschema:"absolute path to a Git repository with a built search index"`
	Query    string   `json:"query"            jsonschema:"free-text search query"`
	Files    []string `json:"files,omitempty"  jsonschema:"restrict results to these repository-relative file paths"`
	TopK     int      `json:"top_k,omitempty"  jsonschema:"maximum number of results (default 10)"`
}

// ToolOutput is a generic wrapper for tool results, mirroring the teacher's
// own structured-output convention for the MCP SDK's AddTool generic.
type ToolOutput struct {
	Data any `json:"data"`
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}

func validateRepoInput(repoPath string) error {
	if repoPath == "" {
		return ErrEmptyRepoPath
	}

	return nil
}

// openRepo builds a File Set and Git Gateway for repoPath, the MCP-tool
// equivalent of the CLI's buildContext helper.
func openRepo(repoPath string) (*fileset.Set, *gitio.Gateway, error) {
	files, err := fileset.Build(repoPath, fileset.Options{UseGitignore: true})
	if err != nil {
		return nil, nil, err
	}

	gw, err := gitio.Open(repoPath)
	if err != nil {
		return nil, nil, err
	}

	return files, gw, nil
}

func periodDays(days int) uint32 {
	if days <= 0 {
		return 0
	}

	return uint32(days)
}

// generateWorkItems mirrors the CLI mutate command's mutant-collection
// loop: generate candidate mutants for every Go file in scope and pair each
// with its file's current source bytes.
func generateWorkItems(ctx context.Context, repoRoot string, paths []string, bridge *uastbridge.Bridge) []mutate.WorkItem {
	var items []mutate.WorkItem

	for _, rel := range paths {
		if !strings.HasSuffix(rel, ".go") {
			continue
		}

		abs := filepath.Join(repoRoot, filepath.FromSlash(rel))

		mutants, err := bridge.GenerateMutants(ctx, abs)
		if err != nil || len(mutants) == 0 {
			continue
		}

		src, err := os.ReadFile(abs)
		if err != nil {
			continue
		}

		for _, m := range mutants {
			items = append(items, mutate.WorkItem{Mutant: m, Source: src})
		}
	}

	return items
}

func (s *Server) registerChurnTool() {
	handler := func(ctx context.Context, _ *mcpsdk.CallToolRequest, in RepoInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		_, gw, err := openRepo(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		report, err := churn.Compute(ctx, gw, in.RepoPath, periodDays(in.SinceDays))
		if err != nil {
			return errorResult(err)
		}

		return jsonResult(report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameChurn,
		Description: "Score files by recent commit frequency and line-change volume (churn analysis).",
	}, withMetrics(s.metrics, ToolNameChurn, withTracing(s.tracer, ToolNameChurn, handler)))
	s.trackTool(ToolNameChurn)
}

func (s *Server) registerOwnershipTool() {
	handler := func(ctx context.Context, _ *mcpsdk.CallToolRequest, in RepoInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		files, gw, err := openRepo(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		report, err := ownership.Compute(ctx, gw, files.Paths(), 0)
		if err != nil {
			return errorResult(err)
		}

		return jsonResult(report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameOwnership,
		Description: "Derive per-file knowledge concentration, risk level, and repository bus factor from git blame.",
	}, withMetrics(s.metrics, ToolNameOwnership, withTracing(s.tracer, ToolNameOwnership, handler)))
	s.trackTool(ToolNameOwnership)
}

func (s *Server) registerCouplingTool() {
	handler := func(ctx context.Context, _ *mcpsdk.CallToolRequest, in RepoInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		_, gw, err := openRepo(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		minCochanges := in.MinCochanges
		if minCochanges <= 0 {
			minCochanges = coupling.DefaultMinCochanges
		}

		report, err := coupling.Compute(ctx, gw, coupling.Options{
			PeriodDays:   periodDays(in.SinceDays),
			MinCochanges: minCochanges,
			ExcludeTests: true,
		})
		if err != nil {
			return errorResult(err)
		}

		return jsonResult(report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameCoupling,
		Description: "Find files that repeatedly change together in the same commit (temporal coupling).",
	}, withMetrics(s.metrics, ToolNameCoupling, withTracing(s.tracer, ToolNameCoupling, handler)))
	s.trackTool(ToolNameCoupling)
}

func (s *Server) registerHotspotTool() {
	handler := func(ctx context.Context, _ *mcpsdk.CallToolRequest, in RepoInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		files, gw, err := openRepo(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		report, err := hotspot.ComputeHotspot(ctx, gw, uastbridge.New(), in.RepoPath, files.Paths(), periodDays(in.SinceDays))
		if err != nil {
			return errorResult(err)
		}

		return jsonResult(report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameHotspot,
		Description: "Rank files by churn x complexity to surface likely maintenance hotspots.",
	}, withMetrics(s.metrics, ToolNameHotspot, withTracing(s.tracer, ToolNameHotspot, handler)))
	s.trackTool(ToolNameHotspot)
}

func (s *Server) registerDefectTool() {
	handler := func(ctx context.Context, _ *mcpsdk.CallToolRequest, in RepoInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		files, gw, err := openRepo(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		report, err := hotspot.ComputeDefect(ctx, gw, uastbridge.New(), in.RepoPath, files.Paths(), periodDays(in.SinceDays), 1)
		if err != nil {
			return errorResult(err)
		}

		return jsonResult(report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameDefect,
		Description: "Predict defect density per file from churn, ownership concentration, and complexity.",
	}, withMetrics(s.metrics, ToolNameDefect, withTracing(s.tracer, ToolNameDefect, handler)))
	s.trackTool(ToolNameDefect)
}

func (s *Server) registerMutateTool() {
	handler := func(ctx context.Context, _ *mcpsdk.CallToolRequest, in MutateInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		files, _, err := openRepo(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		bridge := uastbridge.New()
		items := generateWorkItems(ctx, in.RepoPath, files.Paths(), bridge)

		buildCmd := in.BuildCommand
		if buildCmd == "" {
			buildCmd = "go build ./..."
		}

		testCmd := in.TestCommand
		if testCmd == "" {
			testCmd = "go test ./..."
		}

		runner := mutate.ShellRunner(mutate.ShellConfig{
			RepoRoot:     in.RepoPath,
			BuildCommand: buildCmd,
			TestCommand:  testCmd,
			Timeout:      2 * time.Minute,
		}, mutate.NewDetector())

		results := mutate.Pool(ctx, items, mutate.Config{Workers: in.Workers}, runner, nil)

		var progress mutate.ProgressUpdate
		for _, r := range results {
			progress.Update(r.Status)
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

		return jsonResult(&report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameMutate,
		Description: "Run mutation testing against every Go file in a repository and report the mutation score.",
	}, withMetrics(s.metrics, ToolNameMutate, withTracing(s.tracer, ToolNameMutate, handler)))
	s.trackTool(ToolNameMutate)
}

func (s *Server) registerSearchTool() {
	handler := func(_ context.Context, _ *mcpsdk.CallToolRequest, in SearchInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateRepoInput(in.RepoPath); err != nil {
			return errorResult(err)
		}

		if in.Query == "" {
			return errorResult(ErrEmptyQuery)
		}

		store, err := semanticstore.Open(in.RepoPath)
		if err != nil {
			return errorResult(err)
		}

		engine := store.Engine()
		if engine == nil {
			return errorResult(errkind.New(errkind.Analysis, "no semantic index built for "+in.RepoPath))
		}

		topK := in.TopK
		if topK <= 0 {
			topK = 10
		}

		var results []model.SearchResult
		if len(in.Files) > 0 {
			results = engine.SearchInFiles(in.Query, in.Files, topK)
		} else {
			results = engine.Search(in.Query, topK)
		}

		report := model.SearchReport{
			Query:       in.Query,
			GeneratedAt: time.Now().Unix(),
			Results:     results,
		}

		return jsonResult(&report)
	}

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameSearch,
		Description: "Rank indexed functions/files against a free-text query using the TF-IDF semantic index.",
	}, withMetrics(s.metrics, ToolNameSearch, withTracing(s.tracer, ToolNameSearch, handler)))
	s.trackTool(ToolNameSearch)
}
