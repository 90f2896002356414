package engine

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics updated by the monitor loop, served at /metrics when
// runtime.metrics_addr is set.
var (
	mtxCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailbot_cycles_total",
			Help: "Monitoring cycles completed",
		},
	)

	mtxFetchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailbot_fetch_errors_total",
			Help: "Position snapshot fetches that failed",
		},
	)

	mtxDecisionErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailbot_decision_errors_total",
			Help: "Per-symbol evaluations aborted by a panic",
		},
	)

	mtxCloses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trailbot_closes_total",
			Help: "Close orders accepted, split by cause",
		},
		[]string{"cause"}, // trailing_stop | hard_stop
	)

	mtxCloseErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailbot_close_errors_total",
			Help: "Close orders that failed",
		},
	)

	mtxOpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trailbot_open_positions",
			Help: "Open positions in the latest snapshot",
		},
	)

	mtxDrift = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trailbot_cycle_overruns_total",
			Help: "Cycles that ran longer than the monitor interval",
		},
	)
)

func init() {
	prometheus.MustRegister(
		mtxCycles,
		mtxFetchErrors,
		mtxDecisionErrors,
		mtxCloses,
		mtxCloseErrors,
		mtxOpenPositions,
		mtxDrift,
	)
}
