// ABOUTME: Prometheus instrumentation for the web dashboard
// ABOUTME: Overview gauges refreshed on scrape plus per-route request counters
package web

import (
	"net/http"

	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry so several servers can coexist.
type Metrics struct {
	registry *prometheus.Registry

	contacts      prometheus.Gauge
	active        prometheus.Gauge
	overdueTasks  prometheus.Gauge
	touches       prometheus.Gauge
	upcoming      prometheus.Gauge
	stageContacts *prometheus.GaugeVec

	// RequestsTotal counts HTTP requests by route pattern and status.
	RequestsTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		contacts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "touchbase_contacts",
			Help: "Number of contacts",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Name: "touchbase_active_contacts",
			Help: "Contacts in any stage other than Waiting",
		}),
		overdueTasks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "touchbase_overdue_tasks",
			Help: "Open tasks due before today",
		}),
		touches: factory.NewGauge(prometheus.GaugeOpts{
			Name: "touchbase_touches_last_7_days",
			Help: "Interactions dated within 7 calendar days of today, either direction",
		}),
		upcoming: factory.NewGauge(prometheus.GaugeOpts{
			Name: "touchbase_upcoming_follow_ups",
			Help: "Contacts with an open task due within the next 7 days",
		}),
		stageContacts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "touchbase_stage_contacts",
			Help: "Number of contacts per pipeline stage",
		}, []string{"stage"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "touchbase_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
	}
}

// Observe sets the gauges from an overview.
func (m *Metrics) Observe(ov crm.Overview) {
	m.contacts.Set(float64(ov.ContactCount))
	m.active.Set(float64(ov.ActiveCount))
	m.overdueTasks.Set(float64(ov.OverdueTaskCount))
	m.touches.Set(float64(ov.TouchesLast7Days))
	m.upcoming.Set(float64(ov.UpcomingFollowUpCount))
	for _, stage := range models.Stages {
		m.stageContacts.WithLabelValues(string(stage)).Set(float64(ov.StageCounts[stage]))
	}
}

// Handler refreshes the gauges from the session and serves the registry.
func (m *Metrics) Handler(session *crm.Session) http.Handler {
	inner := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Observe(session.Overview())
		inner.ServeHTTP(w, r)
	})
}
