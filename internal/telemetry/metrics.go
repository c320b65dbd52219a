package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricAnalyzerRunsTotal    = "analyzer.runs.total"
	metricAnalyzerDuration     = "analyzer.run.duration.seconds"
	metricMutationKilledTotal  = "mutation.killed.total"
	metricMutationSurviveTotal = "mutation.survived.total"
	metricMutationTimeoutTotal = "mutation.timeout.total"
	metricSemanticQueryLatency = "semantic.query.duration.seconds"
	metricCacheHitsTotal       = "cache.hits.total"
	metricCacheMissesTotal     = "cache.misses.total"

	attrAnalyzer = "analyzer"
	attrStatus   = "status"
	attrCache    = "cache"

	statusOK    = "ok"
	statusError = "error"
)

// durationBucketBoundaries covers 10ms to 600s, spanning a single-file
// complexity scan up to a full-repository mutation run.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// EngineMetrics holds the OTel instruments for every counter
// SPEC_FULL.md's ambient stack names: analyzer invocations, mutation
// kill/survive/timeout, semantic query latency, and cache hit/miss.
type EngineMetrics struct {
	analyzerRuns     metric.Int64Counter
	analyzerDuration metric.Float64Histogram

	mutationKilled   metric.Int64Counter
	mutationSurvived metric.Int64Counter
	mutationTimeout  metric.Int64Counter

	semanticQueryDuration metric.Float64Histogram

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// NewEngineMetrics creates every instrument from the given meter.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	runs, err := mt.Int64Counter(metricAnalyzerRunsTotal,
		metric.WithDescription("Total analyzer invocations by name and outcome"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricAnalyzerRunsTotal, err)
	}

	runDuration, err := mt.Float64Histogram(metricAnalyzerDuration,
		metric.WithDescription("Analyzer run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricAnalyzerDuration, err)
	}

	killed, err := mt.Int64Counter(metricMutationKilledTotal,
		metric.WithDescription("Mutants killed by the test suite"),
		metric.WithUnit("{mutant}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMutationKilledTotal, err)
	}

	survived, err := mt.Int64Counter(metricMutationSurviveTotal,
		metric.WithDescription("Mutants that survived the test suite"),
		metric.WithUnit("{mutant}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMutationSurviveTotal, err)
	}

	timedOut, err := mt.Int64Counter(metricMutationTimeoutTotal,
		metric.WithDescription("Mutants whose test run exceeded the timeout"),
		metric.WithUnit("{mutant}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMutationTimeoutTotal, err)
	}

	queryDuration, err := mt.Float64Histogram(metricSemanticQueryLatency,
		metric.WithDescription("Semantic search query latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSemanticQueryLatency, err)
	}

	hits, err := mt.Int64Counter(metricCacheHitsTotal,
		metric.WithDescription("Cache hits by cache name"),
		metric.WithUnit("{hit}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheHitsTotal, err)
	}

	misses, err := mt.Int64Counter(metricCacheMissesTotal,
		metric.WithDescription("Cache misses by cache name"),
		metric.WithUnit("{miss}"))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCacheMissesTotal, err)
	}

	return &EngineMetrics{
		analyzerRuns:          runs,
		analyzerDuration:      runDuration,
		mutationKilled:        killed,
		mutationSurvived:      survived,
		mutationTimeout:       timedOut,
		semanticQueryDuration: queryDuration,
		cacheHits:             hits,
		cacheMisses:           misses,
	}, nil
}

// RecordAnalyzerRun records one analyzer invocation's outcome and duration.
// Safe to call on a nil receiver (no-op), so callers need not guard every
// call site behind a metrics-enabled check.
func (m *EngineMetrics) RecordAnalyzerRun(ctx context.Context, name string, err error, duration time.Duration) {
	if m == nil {
		return
	}

	status := statusOK
	if err != nil {
		status = statusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrAnalyzer, name),
		attribute.String(attrStatus, status),
	)

	m.analyzerRuns.Add(ctx, 1, attrs)
	m.analyzerDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMutationOutcome records one mutant's verdict: killed, survived, or
// timed out.
func (m *EngineMetrics) RecordMutationOutcome(ctx context.Context, killed, timedOut bool) {
	if m == nil {
		return
	}

	switch {
	case timedOut:
		m.mutationTimeout.Add(ctx, 1)
	case killed:
		m.mutationKilled.Add(ctx, 1)
	default:
		m.mutationSurvived.Add(ctx, 1)
	}
}

// RecordSemanticQuery records one search query's latency.
func (m *EngineMetrics) RecordSemanticQuery(ctx context.Context, duration time.Duration) {
	if m == nil {
		return
	}

	m.semanticQueryDuration.Record(ctx, duration.Seconds())
}

// RecordCacheAccess records a hit or miss against the named cache (e.g.
// "blob" for internal/cache's LRU content cache).
func (m *EngineMetrics) RecordCacheAccess(ctx context.Context, cacheName string, hit bool) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrCache, cacheName))

	if hit {
		m.cacheHits.Add(ctx, 1, attrs)
		return
	}

	m.cacheMisses.Add(ctx, 1, attrs)
}
