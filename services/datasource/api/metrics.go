package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "datasource"

type serverMetrics struct {
	registry         *prometheus.Registry
	tableRequests    *prometheus.CounterVec
	readingsIngested prometheus.Counter
	reportsRejected  prometheus.Counter
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		tableRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "table_requests_total",
				Help:      "Number of table requests by view and response status",
			},
			[]string{"view", "status"},
		),
		readingsIngested: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "readings_ingested_total",
				Help:      "Number of new readings stored from agent reports",
			},
		),
		reportsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "reports_rejected_total",
				Help:      "Number of agent reports rejected for a bad key or payload",
			},
		),
	}

	m.registry.MustRegister(m.tableRequests, m.readingsIngested, m.reportsRejected)

	return m
}
