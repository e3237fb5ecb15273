package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trusto_graph_queries_total",
		Help: "Composed graph queries executed, by operation and outcome",
	}, []string{"operation", "outcome"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trusto_graph_query_duration_seconds",
		Help:    "Latency of composed graph queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)
