// Package metrics exposes prometheus instruments for the order workflow
// and the HTTP layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics records order workflow events.
type OrderMetrics interface {
	IncOrderCreated(lensType string)
	IncStatusChange(status string)
	IncQuickDeliver(result string)
	IncMetricsImport(result string)
	IncRestore()
}

// HTTPMetrics records request latency.
type HTTPMetrics interface {
	ObserveRequest(route string, status int, elapsed time.Duration)
}

// Registry bundles the instruments with the registry serving them.
type Registry struct {
	reg *prometheus.Registry

	ordersCreated  *prometheus.CounterVec
	statusChanges  *prometheus.CounterVec
	quickDeliver   *prometheus.CounterVec
	metricsImports *prometheus.CounterVec
	restores       prometheus.Counter
	httpLatency    *prometheus.HistogramVec
}

// New registers every instrument on a fresh registry together with the Go
// runtime and process collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		ordersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lens_orders_created_total",
			Help: "Orders created, by lens type",
		}, []string{"lens_type"}),
		statusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lens_order_status_changes_total",
			Help: "Order status changes, by target status",
		}, []string{"status"}),
		quickDeliver: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lens_quick_deliver_total",
			Help: "Quick deliver attempts, by result",
		}, []string{"result"}),
		metricsImports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lens_monthly_metrics_imports_total",
			Help: "Monthly metrics imports, by result",
		}, []string{"result"}),
		restores: f.NewCounter(prometheus.CounterOpts{
			Name: "lens_backup_restores_total",
			Help: "Backup restores performed",
		}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lens_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

func (r *Registry) IncOrderCreated(lensType string) { r.ordersCreated.WithLabelValues(lensType).Inc() }
func (r *Registry) IncStatusChange(status string)   { r.statusChanges.WithLabelValues(status).Inc() }
func (r *Registry) IncQuickDeliver(result string)   { r.quickDeliver.WithLabelValues(result).Inc() }
func (r *Registry) IncMetricsImport(result string)  { r.metricsImports.WithLabelValues(result).Inc() }
func (r *Registry) IncRestore()                     { r.restores.Inc() }

func (r *Registry) ObserveRequest(route string, status int, elapsed time.Duration) {
	r.httpLatency.WithLabelValues(route, statusClass(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the registry to tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func statusClass(code int) string {
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

// Nop discards every observation.
type Nop struct{}

func (Nop) IncOrderCreated(string)                    {}
func (Nop) IncStatusChange(string)                    {}
func (Nop) IncQuickDeliver(string)                    {}
func (Nop) IncMetricsImport(string)                   {}
func (Nop) IncRestore()                               {}
func (Nop) ObserveRequest(string, int, time.Duration) {}
