// Package metrics exports run outcomes in the Prometheus text format for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/baseline/internal/domain/execution"
	"github.com/felixgeelhaar/baseline/internal/domain/preflight"
)

const namespace = "baseline"

// RunMetrics holds the gauges describing the most recent run.
type RunMetrics struct {
	registry *prometheus.Registry

	runSuccess      *prometheus.GaugeVec
	runTimestamp    *prometheus.GaugeVec
	runDuration     *prometheus.GaugeVec
	stepsTotal      *prometheus.GaugeVec
	stepExitCode    *prometheus.GaugeVec
	stepDuration    *prometheus.GaugeVec
	stepAttempts    *prometheus.GaugeVec
	preflightPassed *prometheus.GaugeVec
}

// New creates the gauges on a private registry.
func New() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),

		runSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "success",
				Help:      "Whether the last run succeeded (1) or not (0)",
			},
			[]string{"role"},
		),
		runTimestamp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "last_timestamp_seconds",
				Help:      "Unix time the last run finished",
			},
			[]string{"role"},
		),
		runDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "duration_seconds",
				Help:      "Wall time of the last run in seconds",
			},
			[]string{"role"},
		),
		stepsTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "steps",
				Help:      "Number of steps in the last run by status",
			},
			[]string{"role", "status"},
		),
		stepExitCode: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "step",
				Name:      "exit_code",
				Help:      "Exit code of each step that ran",
			},
			[]string{"role", "step"},
		),
		stepDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "step",
				Name:      "duration_seconds",
				Help:      "Duration of each step in seconds",
			},
			[]string{"role", "step"},
		),
		stepAttempts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "step",
				Name:      "attempts",
				Help:      "Invocations of each step, including wait retries",
			},
			[]string{"role", "step"},
		),
		preflightPassed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "preflight",
				Name:      "passed",
				Help:      "Whether each preflight check passed (1), failed (0) or was skipped (-1)",
			},
			[]string{"role", "check"},
		),
	}

	m.registry.MustRegister(
		m.runSuccess,
		m.runTimestamp,
		m.runDuration,
		m.stepsTotal,
		m.stepExitCode,
		m.stepDuration,
		m.stepAttempts,
		m.preflightPassed,
	)
	return m
}

// Registry returns the registry the gauges live on.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe sets every gauge from report.
func (m *RunMetrics) Observe(report *execution.Report) {
	role := report.Role()

	m.runSuccess.WithLabelValues(role).Set(boolGauge(report.OverallSuccess()))
	finished := report.Finished()
	if finished.IsZero() {
		finished = time.Now()
	}
	m.runTimestamp.WithLabelValues(role).Set(float64(finished.Unix()))
	if started := report.Started(); !started.IsZero() {
		m.runDuration.WithLabelValues(role).Set(finished.Sub(started).Seconds())
	}

	counts := map[execution.StepStatus]int{
		execution.StepSucceeded: 0,
		execution.StepFailed:    0,
		execution.StepSkipped:   0,
		execution.StepMissing:   0,
	}
	for _, r := range report.Results() {
		counts[r.Status()]++
		if code, ok := r.ExitCode(); ok {
			m.stepExitCode.WithLabelValues(role, r.Name()).Set(float64(code))
		}
		m.stepDuration.WithLabelValues(role, r.Name()).Set(r.Duration().Seconds())
		m.stepAttempts.WithLabelValues(role, r.Name()).Set(float64(r.Attempts()))
	}
	for status, n := range counts {
		m.stepsTotal.WithLabelValues(role, string(status)).Set(float64(n))
	}

	for _, c := range report.Preflight().Checks {
		value := boolGauge(c.Err == nil)
		if c.Status == preflight.StatusSkipped {
			value = -1
		}
		m.preflightPassed.WithLabelValues(role, string(c.Check)).Set(value)
	}
}

// WriteTextfile writes the registry to path atomically. The directory must
// exist; node_exporter only reads files ending in .prom.
func (m *RunMetrics) WriteTextfile(path string) error {
	if filepath.Ext(path) != ".prom" {
		return fmt.Errorf("metrics textfile %s must end in .prom", path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("metrics textfile directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
