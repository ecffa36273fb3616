package metrics

import (
	"net/http"

	"github.com/mofussil/mofussil/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// RouteSearches counts resolveRoutes calls by outcome
	// (ok, unknown-place, partial, error)
	RouteSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mofussil_route_searches_total",
		Help: "Total route searches by outcome.",
	}, []string{"outcome"})

	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mofussil_route_search_duration_seconds",
		Help:    "End to end duration of one route search.",
		Buckets: prometheus.DefBuckets,
	})

	FanoutPairs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mofussil_fanout_pairs",
		Help:    "Stand pairs evaluated per route search.",
		Buckets: []float64{1, 2, 4, 8, 16, 32},
	})

	PartialResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mofussil_partial_results_total",
		Help: "Route searches that hit the query deadline.",
	})

	ConnectionCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mofussil_connection_candidates_total",
		Help: "Two-leg connection candidates produced.",
	})

	SearchEventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mofussil_search_events_published_total",
		Help: "Search events published onto the stats queue.",
	})
)

// StartListener serves /metrics on a side listener when
// MOFUSSIL_METRICS_LISTEN is set. Off by default.
func StartListener() {
	listen := util.GetEnvDefault("MOFUSSIL_METRICS_LISTEN", "")
	if listen == "" {
		return
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		log.Info().Str("listen", listen).Msg("Starting metrics listener")
		if err := http.ListenAndServe(listen, mux); err != nil {
			log.Error().Err(err).Msg("Metrics listener failed")
		}
	}()
}
