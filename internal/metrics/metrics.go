package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	conversionFallback = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storehours",
			Name:      "conversion_fallback_total",
			Help:      "Count of civil-time operations that degraded to their fallback value.",
		},
		[]string{"op"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storehours",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	sourceFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storehours",
			Name:      "source_fetch_total",
			Help:      "Count of hours source fetches by resource and result.",
		},
		[]string{"resource", "result"},
	)

	slotsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storehours",
			Name:      "slots_served_total",
			Help:      "Count of bookable slots returned by meal period.",
		},
		[]string{"meal"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(conversionFallback, httpRequests, sourceFetch, slotsServed)
	})
}

func IncConversionFallback(op string) {
	conversionFallback.WithLabelValues(op).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncSourceFetch records a fetch; result is "ok", "cache", "invalid" or "error".
func IncSourceFetch(resource, result string) {
	sourceFetch.WithLabelValues(resource, result).Inc()
}

func AddSlotsServed(meal string, n int) {
	slotsServed.WithLabelValues(meal).Add(float64(n))
}
