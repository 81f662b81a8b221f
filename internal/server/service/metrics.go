package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_clients_registered_total",
		Help: "Client applications registered",
	})

	tokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_token_requests_total",
			Help: "Client credentials exchanges by outcome",
		},
		[]string{"result"},
	)

	tokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_token_verifications_total",
			Help: "Bearer token verifications by outcome",
		},
		[]string{"result"},
	)

	marketTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_market_ticks_total",
		Help: "Completed market simulation ticks",
	})
)
