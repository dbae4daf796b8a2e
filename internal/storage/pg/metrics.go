package pg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resultsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "results_saved_total",
			Help: "Extraction results successfully upserted.",
		})
	resultsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "results_failed_total",
			Help: "Extraction results that could not be saved.",
		})
)
