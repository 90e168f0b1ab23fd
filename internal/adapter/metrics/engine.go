package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/fxpulse/internal/domain"
)

// EngineMetrics holds Prometheus metrics for the scorecard store and event analyzer.
type EngineMetrics struct {
	ScorecardUpdates  *prometheus.CounterVec
	CurrentBias       *prometheus.GaugeVec
	EventAnalyses     *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	RecomputeChanged  prometheus.Counter
}

// NewEngineMetrics creates and registers engine metrics on the given registry.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		ScorecardUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scorecard",
			Name:      "updates_total",
			Help:      "Total number of scorecard updates, by currency and resulting bias.",
		}, []string{"currency", "bias"}),
		CurrentBias: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scorecard",
			Name:      "bias",
			Help:      "Latest bias per currency (1=bullish, 0=neutral, -1=bearish).",
		}, []string{"currency"}),
		EventAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "analyses_total",
			Help:      "Total number of analyzed economic events, by currency and sentiment.",
		}, []string{"currency", "sentiment"}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scorecard",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of a full scorecard recompute in seconds.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		RecomputeChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scorecard",
			Name:      "recompute_changed_total",
			Help:      "Total number of scorecards whose derived fields moved during a recompute.",
		}),
	}

	reg.MustRegister(m.ScorecardUpdates, m.CurrentBias, m.EventAnalyses, m.RecomputeDuration, m.RecomputeChanged)
	return m
}

func (m *EngineMetrics) ScorecardUpdated(currency domain.Currency, bias domain.Direction) {
	m.ScorecardUpdates.WithLabelValues(string(currency), string(bias)).Inc()
	m.CurrentBias.WithLabelValues(string(currency)).Set(directionValue(bias))
}

func (m *EngineMetrics) EventAnalyzed(currency domain.Currency, sentiment domain.Direction) {
	m.EventAnalyses.WithLabelValues(string(currency), string(sentiment)).Inc()
}

func (m *EngineMetrics) RecomputeCompleted(duration time.Duration, changed int) {
	m.RecomputeDuration.Observe(duration.Seconds())
	m.RecomputeChanged.Add(float64(changed))
}

func directionValue(d domain.Direction) float64 {
	switch d {
	case domain.Bullish:
		return 1
	case domain.Bearish:
		return -1
	default:
		return 0
	}
}
