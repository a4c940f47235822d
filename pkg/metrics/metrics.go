package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "mutations_total",
		Help:      "Admin mutations by entity, action and outcome.",
	}, []string{"entity", "action", "outcome"})
)

// ObserveMutation counts one admin mutation. Outcome is "ok" or the name of
// the error kind that rejected it.
func ObserveMutation(entity, action, outcome string) {
	Mutations.WithLabelValues(entity, action, outcome).Inc()
}

var ConsumedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "catalog",
	Name:      "consumed_events_total",
	Help:      "Broker events handled by the worker, by event and outcome.",
}, []string{"event", "outcome"})

func ObserveConsumed(event, outcome string) {
	ConsumedEvents.WithLabelValues(event, outcome).Inc()
}
