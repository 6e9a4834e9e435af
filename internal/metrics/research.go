package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline Prometheus metrics.
var (
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researcher",
			Name:      "tool_calls_total",
			Help:      "Total number of pipeline tool calls",
		},
		[]string{"tool", "status"},
	)

	ToolLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "researcher",
			Name:      "tool_latency_seconds",
			Help:      "Pipeline tool latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"tool"},
	)

	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researcher",
			Name:      "model_requests_total",
			Help:      "Total number of generative model requests",
		},
		[]string{"provider", "model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "researcher",
			Name:      "model_request_duration_seconds",
			Help:      "Generative model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researcher",
			Name:      "model_tokens_total",
			Help:      "Total model tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "researcher",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits, misses and evictions",
		},
		[]string{"result"}, // "hit" / "miss" / "evicted"
	)

	ReflectionRounds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "researcher",
			Name:      "reflection_rounds",
			Help:      "Search expansion rounds per pipeline run",
			Buckets:   []float64{0, 1, 2, 3, 5},
		},
	)
)

var registerResearchOnce sync.Once

// RegisterResearchMetrics registers pipeline metrics. Safe to call more than once.
func RegisterResearchMetrics() {
	registerResearchOnce.Do(func() {
		prometheus.MustRegister(ToolCallsTotal)
		prometheus.MustRegister(ToolLatency)
		prometheus.MustRegister(ModelRequestsTotal)
		prometheus.MustRegister(ModelRequestDuration)
		prometheus.MustRegister(ModelTokensTotal)
		prometheus.MustRegister(AnswerCacheTotal)
		prometheus.MustRegister(ReflectionRounds)
	})
}
