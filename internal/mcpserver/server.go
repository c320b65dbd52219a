// Package mcpserver implements a Model Context Protocol server exposing
// omen's analyzers as MCP tools over stdio transport, so an AI assistant
// can request churn, ownership, coupling, hotspot, defect, mutation, and
// semantic-search reports the same way the CLI does.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/panbanda/omen/internal/telemetry"
)

const (
	serverName    = "omen"
	serverVersion = "1.0.0"
	toolCount     = 7
)

// ServerDeps holds injectable dependencies for the MCP server. Zero-value
// fields fall back to production defaults (no logger override, no metrics,
// no tracing).
type ServerDeps struct {
	Logger  *slog.Logger
	Metrics *telemetry.EngineMetrics
	Tracer  trace.Tracer
}

// Server wraps the MCP SDK server with omen's tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *telemetry.EngineMetrics
	tracer  trace.Tracer
}

// NewServer creates an MCP server with every analyzer tool registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{Name: serverName, Version: serverVersion},
		opts,
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport, blocking until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	if err := s.inner.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	s.registerChurnTool()
	s.registerOwnershipTool()
	s.registerCouplingTool()
	s.registerHotspotTool()
	s.registerDefectTool()
	s.registerMutateTool()
	s.registerSearchTool()
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

const mcpSpanPrefix = "mcp."

// withTracing wraps an MCP tool handler to create an OTel span per
// invocation, matching the teacher's per-tool-call span convention.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		return handler(ctx, req, input)
	}
}

// withMetrics wraps an MCP tool handler to record an analyzer-run metric
// per invocation, reusing EngineMetrics.RecordAnalyzerRun rather than a
// separate RED-metrics type.
func withMetrics[Input any](
	metrics *telemetry.EngineMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		result, output, err := handler(ctx, req, input)

		var recordErr error
		if err != nil || (result != nil && result.IsError) {
			recordErr = fmt.Errorf("tool %s failed", toolName)
		}

		metrics.RecordAnalyzerRun(ctx, toolName, recordErr, time.Since(start))

		return result, output, err
	}
}
