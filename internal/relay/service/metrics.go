package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	userLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_user_logins_total",
			Help: "User login attempts by result",
		},
		[]string{"result"},
	)

	sessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_sessions_purged_total",
		Help: "Expired sessions removed by housekeeping",
	})

	tenantsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_tenants",
		Help: "Number of feed sessions held by the tenant registry",
	})
)
