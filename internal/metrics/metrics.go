package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openshelf_searches_total",
		Help: "Total number of catalog searches by outcome",
	}, []string{"outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "openshelf_search_duration_seconds",
		Help:    "Duration of catalog search requests in seconds",
		Buckets: prometheus.DefBuckets,
	})

	StaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openshelf_stale_responses_total",
		Help: "Responses discarded because a newer search superseded them",
	})

	FavoriteMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openshelf_favorite_mutations_total",
		Help: "Favorites list mutations by operation",
	}, []string{"op"})

	FavoriteWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openshelf_favorite_write_failures_total",
		Help: "Failed rewrites of the persisted favorites list",
	})
)
