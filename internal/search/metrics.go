package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts pipeline runs by outcome: ok, invalid, unavailable.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbase_searches_total",
			Help: "Total number of searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kbase_search_duration_seconds",
			Help:    "Duration of search pipeline runs",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// HistoryWrites counts history appends by status: ok, failed.
	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbase_search_history_writes_total",
			Help: "Total number of search history writes by status",
		},
		[]string{"status"},
	)
)
