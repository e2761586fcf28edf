package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var syncOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "financas_sync_operations_total",
		Help: "Sync transfers against the remote document by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func recordSync(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	syncOperations.WithLabelValues(operation, outcome).Inc()
}
