// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reposense_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reposense_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// RunsTotal counts assembled organization runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reposense_runs_total",
			Help: "Total number of organization runs assembled",
		},
		[]string{"outcome"},
	)

	GraphNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reposense_component_graph_nodes",
			Help:    "Node count of each component graph built",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	ImpactRiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reposense_impact_risk_score",
			Help:    "Risk scores produced by change impact analysis",
			Buckets: []float64{10, 25, 50, 80, 100},
		},
	)

	BreakingChanges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reposense_breaking_changes",
			Help: "Breaking changes detected in the most recent run",
		},
	)
)
