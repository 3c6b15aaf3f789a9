package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// RouteRebuilds counts stop-list rebuilds by trigger (create, update, reoptimize).
	RouteRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_rebuilds_total", Help: "Route stop-list rebuilds by trigger."},
		[]string{"trigger"},
	)

	// RouteStopsSequenced observes how many stops each rebuild sequences.
	RouteStopsSequenced = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_stops_sequenced", Help: "Stops per sequencing run.", Buckets: []float64{1, 2, 5, 10, 20, 50, 100}},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the package registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RouteRebuilds)
		Registry.MustRegister(RouteStopsSequenced)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
