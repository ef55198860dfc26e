package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	JourneysStartedTotal prometheus.Counter
	JourneysTotal        *prometheus.CounterVec
	DecisionsTotal       *prometheus.CounterVec
	SanctionsIssuedTotal prometheus.Counter
	SessionsSweptTotal   prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "origination_engine_db_query_duration_seconds",
				Help:    "Histogram of catalog query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		JourneysStartedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "origination_engine_journeys_started_total",
				Help: "Total number of loan journeys started.",
			},
		),
		JourneysTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "origination_engine_journeys_terminal_total",
				Help: "Total number of loan journeys reaching a terminal state.",
			},
			[]string{"state"},
		),
		DecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "origination_engine_decisions_total",
				Help: "Total number of underwriting decisions by outcome.",
			},
			[]string{"outcome"},
		),
		SanctionsIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "origination_engine_sanctions_issued_total",
				Help: "Total number of sanction records issued.",
			},
		),
		SessionsSweptTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "origination_engine_sessions_swept_total",
				Help: "Total number of expired journey sessions removed by the sweep job.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordJourneyStarted() {
	Business.JourneysStartedTotal.Inc()
}

func RecordJourneyTerminal(state string) {
	Business.JourneysTotal.WithLabelValues(state).Inc()
}

func RecordDecision(outcome string) {
	Business.DecisionsTotal.WithLabelValues(outcome).Inc()
}

func RecordSanctionIssued() {
	Business.SanctionsIssuedTotal.Inc()
}

func RecordSessionsSwept(n int) {
	Business.SessionsSweptTotal.Add(float64(n))
}
