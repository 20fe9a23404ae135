// Package metrics exports run results for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/homestack/internal/domain/execution"
)

// Recorder holds the gauges describing the most recent run.
type Recorder struct {
	registry     *prometheus.Registry
	stepOutcome  *prometheus.GaugeVec
	stepDuration *prometheus.GaugeVec
	runDuration  prometheus.Gauge
	runSuccess   prometheus.Gauge
	runTimestamp prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepOutcome: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "homestack",
				Name:      "step_outcome",
				Help:      "Outcome of each step in the last run (1 for the outcome that occurred)",
			},
			[]string{"step", "outcome"},
		),
		stepDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "homestack",
				Name:      "step_duration_seconds",
				Help:      "Time spent checking and applying each step in the last run",
			},
			[]string{"step"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "homestack",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "homestack",
			Name:      "run_success",
			Help:      "Whether the last run completed without a fatal failure (1) or not (0)",
		}),
		runTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "homestack",
			Name:      "run_last_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	r.registry.MustRegister(r.stepOutcome, r.stepDuration, r.runDuration, r.runSuccess, r.runTimestamp)
	return r
}

// Record loads the gauges from a finished run.
func (r *Recorder) Record(ledger *execution.Ledger, took time.Duration, finished time.Time, success bool) {
	r.stepOutcome.Reset()
	r.stepDuration.Reset()

	for _, res := range ledger.Results() {
		id := res.StepID().String()
		r.stepOutcome.WithLabelValues(id, res.Outcome().String()).Set(1)
		r.stepDuration.WithLabelValues(id).Set(res.Duration().Seconds())
	}

	r.runDuration.Set(took.Seconds())
	r.runTimestamp.Set(float64(finished.Unix()))
	if success {
		r.runSuccess.Set(1)
	} else {
		r.runSuccess.Set(0)
	}
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes the metrics in exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
