// Package metrics exports Prometheus collectors for generation calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder holds the generation collectors. A nil *Recorder records nothing.
type Recorder struct {
	generations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	promptRunes *prometheus.HistogramVec
}

// NewRecorder registers the collectors with reg. Pass prometheus.DefaultRegisterer to expose
// them on the default /metrics handler, or a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xogen_generations_total",
				Help: "Total number of generation calls by provider, outcome and error kind",
			},
			[]string{"provider", "model", "outcome", "kind"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xogen_generation_duration_seconds",
				Help:    "Wall time of generation calls",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "outcome"},
		),
		promptRunes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xogen_prompt_length_runes",
				Help:    "Prompt length in runes",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"provider"},
		),
	}
}

// Observe records one finished generation call. kind is empty on success.
func (r *Recorder) Observe(provider, model string, success bool, kind string, promptLength int, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeError
	}
	r.generations.WithLabelValues(provider, model, outcome, kind).Inc()
	r.duration.WithLabelValues(provider, outcome).Observe(elapsed.Seconds())
	r.promptRunes.WithLabelValues(provider).Observe(float64(promptLength))
}
