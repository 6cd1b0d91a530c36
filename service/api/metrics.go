package api

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

type metrics struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracks_api_queries_total",
				Help: "Total number of track queries by filter and outcome",
			},
			[]string{"filter", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracks_api_query_duration_seconds",
				Help:    "Duration of track queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"filter"},
		),
	}
	for _, c := range []prometheus.Collector{m.queries, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return m, nil
}

// observe records one query. An empty result counts as not_found only for filtered queries.
func (m *metrics) observe(filter string, start time.Time, n int, err error, filtered bool) {
	m.duration.WithLabelValues(filter).Observe(time.Since(start).Seconds())

	outcome := outcomeFound
	switch {
	case err != nil:
		outcome = outcomeError
	case n == 0 && filtered:
		outcome = outcomeNotFound
	}
	m.queries.WithLabelValues(filter, outcome).Inc()
}
