// Package metrics holds Prometheus instruments that are used across the
// backend.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenants",
			Help: "Number of tenant database connections currently cached.",
		})

	TenantOpenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_open_total",
			Help: "Cumulative number of tenant connections successfully opened.",
		})

	TenantOpenErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_open_errors_total",
			Help: "Cumulative number of tenant connection open failures.",
		})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of broken tenant connections evicted from the cache.",
		})

	AuthDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_decisions_total",
			Help: "Authentication and authorization outcomes by decision label.",
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(
		ActiveTenants,
		TenantOpenTotal,
		TenantOpenErrorsTotal,
		TenantEvictTotal,
		AuthDecisionsTotal,
	)
}
