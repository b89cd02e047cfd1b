package observability

import (
	"fmt"
	"net"
	"strconv"

	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/fulmenhq/gofulmen/telemetry/exporters"
)

// DefaultMetricsPort is used by serve when --metrics-port is not given.
const DefaultMetricsPort = 9090

var (
	// TelemetrySystem receives every metric. Nil disables emission.
	TelemetrySystem *telemetry.System

	// PrometheusExporter serves the scrape endpoint when metrics are enabled.
	PrometheusExporter *exporters.PrometheusExporter

	metricsPort int
)

// InitMetrics starts a Prometheus exporter on port (0 picks a free port) and
// installs a telemetry system that emits to it.
func InitMetrics(namespace string, port int) error {
	if port < 0 {
		port = 0
	}
	metricsPort = port

	exporter := exporters.NewPrometheusExporter(namespace, fmt.Sprintf(":%d", port))
	if err := exporter.Start(); err != nil {
		return fmt.Errorf("start prometheus exporter: %w", err)
	}
	if actual, err := resolvePort(exporter.GetAddr()); err == nil {
		metricsPort = actual
	}

	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: exporter})
	if err != nil {
		_ = exporter.Stop()
		return fmt.Errorf("create telemetry system: %w", err)
	}

	PrometheusExporter = exporter
	TelemetrySystem = sys
	return nil
}

// ShutdownMetrics stops the exporter started by InitMetrics.
func ShutdownMetrics() {
	if PrometheusExporter != nil {
		_ = PrometheusExporter.Stop()
	}
	PrometheusExporter = nil
	TelemetrySystem = nil
	metricsPort = 0
}

// GetMetricsPort returns the port the Prometheus exporter is listening on,
// or DefaultMetricsPort when it was not started through InitMetrics.
func GetMetricsPort() int {
	if metricsPort == 0 {
		return DefaultMetricsPort
	}
	return metricsPort
}

func resolvePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}
