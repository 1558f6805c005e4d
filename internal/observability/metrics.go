package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	matchComputations     prometheus.Counter
	matchCacheLookups     *prometheus.CounterVec
	matchScoreSpread      prometheus.Histogram
	domainEventsPublished *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimatch_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unimatch_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimatch_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		matchComputations = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unimatch_match_computations_total",
			Help: "Total number of full catalog match computations.",
		})

		matchCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimatch_match_cache_lookups_total",
			Help: "Match list cache lookups partitioned by outcome.",
		}, []string{"outcome"})

		matchScoreSpread = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "unimatch_match_score",
			Help:    "Distribution of match scores returned in ranked results.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		})

		domainEventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimatch_domain_events_published_total",
			Help: "Domain events published to the fan-out brokers.",
		}, []string{"name"})

		prometheus.MustRegister(
			httpRequestsTotal, httpLatencySeconds, httpErrorsTotal,
			matchComputations, matchCacheLookups, matchScoreSpread,
			domainEventsPublished,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// MatchComputations exposes the counter for full match computations.
func MatchComputations() prometheus.Counter {
	RegisterMetrics()
	return matchComputations
}

// MatchCacheLookups exposes the counter for match cache lookups.
func MatchCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return matchCacheLookups
}

// MatchScores exposes the histogram of returned match scores.
func MatchScores() prometheus.Histogram {
	RegisterMetrics()
	return matchScoreSpread
}

// DomainEventsPublished exposes the counter for published domain events.
func DomainEventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return domainEventsPublished
}
