package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the pipeline's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	UpstreamRequestsTotal   metric.Int64Counter
	UpstreamDurationSeconds metric.Float64Histogram
	MirrorRotationsTotal    metric.Int64Counter
	CacheHitsTotal          metric.Int64Counter
	CacheMissesTotal        metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// GetAppMetrics initializes the global metric instruments ONLY ONCE and
// returns them. The Meter comes from the globally configured MeterProvider;
// before tracer setup runs (and in tests) the instruments are no-ops.
func GetAppMetrics() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CityExplorerAPI")
		var err error
		m := &AppMetrics{}

		m.UpstreamRequestsTotal, err = meter.Int64Counter(
			"upstream_requests_total",
			metric.WithDescription("Total number of upstream geodata requests dispatched"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_requests_total: %v", err)
		}

		m.UpstreamDurationSeconds, err = meter.Float64Histogram(
			"upstream_duration_seconds",
			metric.WithDescription("Duration of upstream geodata requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_duration_seconds: %v", err)
		}

		m.MirrorRotationsTotal, err = meter.Int64Counter(
			"mirror_rotations_total",
			metric.WithDescription("Times the Overpass mirror pointer rotated after a transient failure"),
			metric.WithUnit("{rotation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create mirror_rotations_total: %v", err)
		}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"result_cache_hits_total",
			metric.WithDescription("Result cache hits keyed by query parameters"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create result_cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"result_cache_misses_total",
			metric.WithDescription("Result cache misses keyed by query parameters"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create result_cache_misses_total: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}
