// AngelaMos | 2026
// metrics.go

package core

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal        *prometheus.CounterVec
	RegistrationsTotal *prometheus.CounterVec
	FavoritesToggled   *prometheus.CounterVec
	ProfilesOpened     prometheus.Counter
	ProfilesEvicted    *prometheus.CounterVec
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),

		RegistrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by result",
		}, []string{"result"}),

		FavoritesToggled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorites_toggled_total",
			Help:      "Favorite toggles by action",
		}, []string{"action"}),

		ProfilesOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_opened_total",
			Help:      "Profile workspaces constructed",
		}),

		ProfilesEvicted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_evicted_total",
			Help:      "Profile workspaces dropped from memory by reason",
		}, []string{"reason"}),

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveLogin(ok bool) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(resultLabel(ok)).Inc()
}

func (m *Metrics) ObserveRegistration(ok bool) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(resultLabel(ok)).Inc()
}

func (m *Metrics) ObserveFavorite(added bool) {
	if m == nil {
		return
	}
	action := "removed"
	if added {
		action = "added"
	}
	m.FavoritesToggled.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveProfileOpened() {
	if m == nil {
		return
	}
	m.ProfilesOpened.Inc()
}

func (m *Metrics) ObserveProfileEvicted(reason string) {
	if m == nil {
		return
	}
	m.ProfilesEvicted.WithLabelValues(reason).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
