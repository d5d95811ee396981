// Package metrics exposes the Prometheus counters the netlistpaths CLI
// updates as it serves queries: how many of each query type have run and
// how many vertices the path engine's traversals have visited in total.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the counters a single process updates, registered
// against their own prometheus.Registry rather than the global default so
// a process (or a test) can build more than one without a duplicate-
// registration panic.
type Registry struct {
	reg             *prometheus.Registry
	QueriesTotal    *prometheus.CounterVec
	VerticesVisited prometheus.Counter
}

// New registers and returns a fresh Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netlistpaths_queries_total",
			Help: "Number of path queries served, labelled by query type.",
		}, []string{"type"}),
		VerticesVisited: factory.NewCounter(prometheus.CounterOpts{
			Name: "netlistpaths_vertices_visited_total",
			Help: "Total number of vertices visited across all path-engine traversals.",
		}),
	}
}

// ObserveQuery records one query of the given type.
func (r *Registry) ObserveQuery(queryType string) {
	r.QueriesTotal.WithLabelValues(queryType).Inc()
}

// Handler returns the HTTP handler that serves the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ListenAndServe starts a metrics-only HTTP server on addr. It blocks until
// the server stops or errors; callers typically run it in its own goroutine.
func ListenAndServe(addr string, r *Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
