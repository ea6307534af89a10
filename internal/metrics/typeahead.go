package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search backend and suggest pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typeahead",
			Name:      "search_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"operation", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "typeahead",
			Name:      "search_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	TemplateCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typeahead",
			Name:      "template_cache_total",
			Help:      "Query template cache hits and misses",
		},
		[]string{"tier", "result"}, // "local"/"shared", "hit"/"miss"
	)

	StopWordLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typeahead",
			Name:      "stopword_loads_total",
			Help:      "Stop-word file load attempts",
		},
		[]string{"result"}, // "loaded" / "missing"
	)

	SuggestResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typeahead",
			Name:      "suggest_results_total",
			Help:      "Suggest requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "backend_error"
	)
)

var suggestMetricsRegistered bool

// RegisterSuggestMetrics registers the suggest pipeline metrics. Must be called once from main.
func RegisterSuggestMetrics() {
	if suggestMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(TemplateCacheTotal)
	prometheus.MustRegister(StopWordLoadsTotal)
	prometheus.MustRegister(SuggestResultsTotal)
	suggestMetricsRegistered = true
}
