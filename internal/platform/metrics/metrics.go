package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	PatientsCreatedTotal prometheus.Counter
	BillsCreatedTotal    prometheus.Counter
	BillStatusChanges    *prometheus.CounterVec
	BillNumberFallbacks  prometheus.Counter
	BillNumberRetries    prometheus.Counter
	OrphanedBillsSkipped prometheus.Counter
}

// NewCollector registers every metric on a fresh registry together with the
// Go runtime and process collectors.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		PatientsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "patients_created_total",
			Help:      "Total number of patient records created.",
		}),

		BillsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "bills_created_total",
			Help:      "Total number of bills created.",
		}),

		BillStatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "status_changes_total",
			Help:      "Bill status updates by new status.",
		}, []string{"status"}),

		BillNumberFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "bill_number_fallbacks_total",
			Help:      "Bill numbers generated from the timestamp fallback. Alert if non-zero.",
		}),

		BillNumberRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "bill_number_conflict_retries_total",
			Help:      "Bill creations retried after a bill number collision.",
		}),

		OrphanedBillsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "orphaned_bills_skipped_total",
			Help:      "Bills left out of reads because their patient no longer exists.",
		}),
	}
}

// RegisterGaugeFunc exposes a value computed at scrape time, such as pool
// connection counts.
func (c *Collector) RegisterGaugeFunc(subsystem, name, help string, fn func() float64) {
	promauto.With(c.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn)
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) PatientCreated() { c.PatientsCreatedTotal.Inc() }

func (c *Collector) BillCreated() { c.BillsCreatedTotal.Inc() }

func (c *Collector) BillStatusChanged(status string) { c.BillStatusChanges.WithLabelValues(status).Inc() }

func (c *Collector) BillNumberFallback() { c.BillNumberFallbacks.Inc() }

func (c *Collector) BillNumberRetry() { c.BillNumberRetries.Inc() }

func (c *Collector) OrphanedBillSkipped() { c.OrphanedBillsSkipped.Inc() }
