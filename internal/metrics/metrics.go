package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crm_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	DepositsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_deposits_classified_total",
		Help: "Deposits classified, labelled NDP or RDP",
	}, []string{"class"})

	AlertsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_risk_alerts_computed_total",
		Help: "Risk alerts produced per tier across all alert queries",
	}, []string{"tier"})

	BriefingsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_briefings_dispatched_total",
		Help: "Daily briefing digests pushed to the notification channel",
	})
)
