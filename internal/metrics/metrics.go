// Package metrics defines the Prometheus collectors for both services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generator holds the alert generator's collectors
type Generator struct {
	Requests        *prometheus.CounterVec
	AlertsGenerated *prometheus.CounterVec
	BatchSize       prometheus.Histogram
}

// NewGenerator registers the generator collectors on reg
func NewGenerator(reg prometheus.Registerer) *Generator {
	m := &Generator{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leo_alertgen_requests_total",
				Help: "HTTP requests served by the alert generator",
			},
			[]string{"route", "code"},
		),
		AlertsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leo_alertgen_alerts_generated_total",
				Help: "Synthetic conjunction alerts generated, by FIR",
			},
			[]string{"fir"},
		),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leo_alertgen_batch_size",
			Help:    "Number of alerts per generated batch",
			Buckets: prometheus.LinearBuckets(8, 1, 5),
		}),
	}
	reg.MustRegister(m.Requests, m.AlertsGenerated, m.BatchSize)
	return m
}

// Dashboard holds the polling dashboard's collectors
type Dashboard struct {
	Fetches     *prometheus.CounterVec
	LastSuccess prometheus.Gauge
	AlertsShown prometheus.Gauge
}

// NewDashboard registers the dashboard collectors on reg
func NewDashboard(reg prometheus.Registerer) *Dashboard {
	m := &Dashboard{
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leo_dashboard_fetches_total",
				Help: "Alert batch fetches, by result",
			},
			[]string{"result"},
		),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leo_dashboard_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch",
		}),
		AlertsShown: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leo_dashboard_alerts",
			Help: "Alerts in the current batch",
		}),
	}
	reg.MustRegister(m.Fetches, m.LastSuccess, m.AlertsShown)
	return m
}

// NewRegistry returns a registry preloaded with the Go and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes reg in the text exposition format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
