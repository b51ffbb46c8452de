package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dost_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dost_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dost_http_requests_in_flight",
			Help: "HTTP requests currently being served, including chat turns still running after a client disconnect.",
		},
	)

	HTTPResponseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dost_http_response_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 7),
		},
		[]string{"path"},
	)

	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dost_chat_requests_total",
			Help: "Chat requests by outcome (reply, search, client_tool, search_empty, model_error, tool_error, unavailable, storage_error).",
		},
		[]string{"outcome"},
	)

	ModelCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dost_model_calls_total",
			Help: "Language model calls by round (first, summary) and status.",
		},
		[]string{"round", "status"},
	)

	ModelCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dost_model_call_duration_seconds",
			Help:    "Language model call latency in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"round"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dost_tool_calls_total",
			Help: "Tool invocations requested by the model, by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dost_search_results",
			Help:    "Number of results returned per web search.",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestsInFlight,
		HTTPResponseBytes,
		ChatRequestsTotal,
		ModelCallsTotal,
		ModelCallDuration,
		ToolCallsTotal,
		SearchResults,
	)
}
