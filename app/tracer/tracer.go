package tracer

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitTracingAndMetrics wires the global tracer and meter providers and
// exposes Prometheus metrics on the given port.
func InitTracingAndMetrics(port string, logger *slog.Logger) {
	// Set up Tracer Provider
	tp := trace.NewTracerProvider(
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("CityExplorerAPI"),
		)),
	)
	otel.SetTracerProvider(tp)

	// Set up Metrics Provider with Prometheus Exporter
	exporter, err := prometheus.New()
	if err != nil {
		log.Fatal(err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	// Expose Prometheus metrics at /metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("Starting metrics server", slog.String("port", port))
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			logger.Error("Metrics server stopped", slog.Any("error", err))
		}
	}()
}
