// Package observability provides Prometheus metrics for translations served
// by the CLI and the HTTP service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Translation directions used as the "direction" label.
const (
	DirectionRequest  = "request"
	DirectionResponse = "response"
)

var (
	// TranslationsTotal counts conversions by provider, direction and outcome.
	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptbridge_translations_total",
			Help: "Schema translations",
		},
		[]string{"provider", "direction", "status"},
	)

	// TranslationDuration records conversion time in seconds, decoding and encoding included.
	TranslationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "promptbridge_translation_duration_seconds",
			Help:    "Translation duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"provider", "direction"},
	)

	// RequestsTotal counts HTTP requests by method, route and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptbridge_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		TranslationsTotal,
		TranslationDuration,
		RequestsTotal,
	)
}

// StatusClass maps an HTTP status code to a label such as "2xx".
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
