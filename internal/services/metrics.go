package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ledgerMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "financas_ledger_mutations_total",
		Help: "Successful ledger mutations by kind.",
	},
	[]string{"kind"},
)
