package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/panbanda/omen/internal/mcpserver"
	"github.com/panbanda/omen/internal/telemetry"
	"github.com/panbanda/omen/pkg/version"
)

// NewMCPCommand creates the `omen mcp` command, starting the Model Context
// Protocol server on stdio transport.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server exposing omen's analyzers as tools",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes omen's analysis capabilities as tools an AI agent can
discover and invoke: omen_churn, omen_ownership, omen_coupling,
omen_hotspot, omen_defect, omen_mutate, and omen_semantic_search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg := telemetry.DefaultConfig()
			cfg.ServiceVersion = version.Version
			cfg.Mode = telemetry.ModeMCP
			cfg.LogJSON = true

			if debug {
				cfg.LogLevel = slog.LevelDebug
				cfg.DebugTrace = true
			}

			providers, err := telemetry.Init(cfg)
			if err != nil {
				return err
			}

			defer func() {
				if shutdownErr := providers.Shutdown(cobraCmd.Context()); shutdownErr != nil {
					providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
				}
			}()

			metrics, err := telemetry.NewEngineMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.ServerDeps{
				Logger:  providers.Logger,
				Metrics: metrics,
				Tracer:  providers.Tracer,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging and always-on tracing")

	return cmd
}
