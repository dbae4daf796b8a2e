package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dictionaryBrands = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dictionary_brands",
			Help: "Brands in the currently built dictionary.",
		})
	dictionaryArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dictionary_articles",
			Help: "Article codes in the currently built dictionary.",
		})
	adsProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ads_processed_total",
			Help: "Advertisements run through the cascade search.",
		})
)
