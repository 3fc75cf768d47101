// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permitcheck_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "permitcheck_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route"},
	)

	AICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permitcheck_ai_calls_total",
			Help: "Total number of model API calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ZoningLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permitcheck_zoning_lookups_total",
			Help: "Total number of zoning resolutions by source",
		},
		[]string{"source"},
	)

	DocumentExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permitcheck_document_exports_total",
			Help: "Total number of exported documents by type",
		},
		[]string{"type"},
	)
)
