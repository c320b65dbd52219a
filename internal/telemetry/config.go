package telemetry

import "log/slog"

// AppMode identifies which surface the process is running as, recorded as
// a resource attribute (app.mode) on every span and log line.
type AppMode string

const (
	// ModeCLI is a one-shot `omen <subcommand>` invocation.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP tool server (internal/mcpserver).
	ModeMCP AppMode = "mcp"
	// ModeServe labels a long-running HTTP process exposing /metrics; no
	// command in this module runs in this mode.
	ModeServe AppMode = "serve"
)

const defaultShutdownTimeoutSec = 5

// Config controls logging, metrics, and tracing initialization.
type Config struct {
	// ServiceName is the OTel resource service.name.
	ServiceName string
	// ServiceVersion is the OTel resource service.version (pkg/version.Version).
	ServiceVersion string
	// Environment is the OTel resource deployment.environment (e.g. "prod").
	Environment string
	// Mode records which surface (cli/mcp/serve) is running.
	Mode AppMode

	// LogLevel is the minimum slog level emitted.
	LogLevel slog.Level
	// LogJSON selects JSON log output over human-readable text.
	LogJSON bool

	// MetricsNamespace prefixes every Prometheus metric name
	// (e.g. "omen" -> "omen_analyzer_runs_total").
	MetricsNamespace string

	// DebugTrace forces an always-on sampler regardless of SampleRatio or
	// the standard OTEL_TRACES_SAMPLER environment variable.
	DebugTrace bool
	// SampleRatio is the trace-ID-ratio sampling rate used when DebugTrace
	// is false and no OTEL_TRACES_SAMPLER environment variable is set.
	// Zero means "parent-based always-on" (sample everything).
	SampleRatio float64
	// TraceVerbose disables the attribute allow-list filter on spans,
	// useful for local debugging of what a span would otherwise strip.
	TraceVerbose bool

	// ShutdownTimeoutSec bounds how long Shutdown waits for telemetry to
	// flush before giving up.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the configuration used when internal/config has no
// override: CLI mode, info-level text logs, a 5-second shutdown budget.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "omen",
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		MetricsNamespace:   "omen",
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
