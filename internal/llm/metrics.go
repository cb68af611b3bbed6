package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_llm_requests_total",
			Help: "Total number of model requests.",
		},
		[]string{"model", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_llm_request_duration_seconds",
			Help:    "Duration of model requests.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
		[]string{"model"},
	)
	completionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_llm_completion_tokens",
			Help:    "Completion tokens per model request.",
			Buckets: prometheus.LinearBuckets(100, 100, 20), // 100 .. 2000
		},
		[]string{"model"},
	)
)

func observe(model, status string, seconds float64, usage Usage) {
	requestsTotal.WithLabelValues(model, status).Inc()
	if status != "success" {
		return
	}
	requestDuration.WithLabelValues(model).Observe(seconds)
	if usage.CompletionTokens > 0 {
		completionTokens.WithLabelValues(model).Observe(float64(usage.CompletionTokens))
	}
}
