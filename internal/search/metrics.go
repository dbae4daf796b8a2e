package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_searches_total",
			Help: "Total number of cascade searches performed",
		},
	)

	brandsFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_brands_found_total",
			Help: "Total number of distinct brands found across searches",
		},
	)

	articlesFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_articles_found_total",
			Help: "Total number of article matches found across searches",
		},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cascade_search_duration_seconds",
			Help:    "Cascade search duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)
