// Package metrics defines the Prometheus collectors exported on /metrics.
// All collectors are registered with the default registry at init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBuckets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Number of client rate limiter buckets",
		},
	)

	CatalogFoods = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_foods",
			Help: "Food records in the active catalog snapshot",
		},
	)

	CatalogLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog load and reload attempts by result",
		},
		[]string{"result"},
	)

	MealEstimates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_estimates_total",
			Help: "Meal estimates by resulting risk level",
		},
		[]string{"risk"},
	)

	UnresolvedItems = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "meal_unresolved_items_total",
			Help: "Meal items excluded from totals because they could not be resolved",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBuckets)
	prometheus.MustRegister(CatalogFoods)
	prometheus.MustRegister(CatalogLoads)
	prometheus.MustRegister(MealEstimates)
	prometheus.MustRegister(UnresolvedItems)
}
