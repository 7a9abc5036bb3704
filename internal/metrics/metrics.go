package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"osptest/internal/domain"
	"osptest/internal/xunit"
)

const (
	MetricsNamespace = "osptest"
)

// Recorder counts case outcomes and suite durations. It is a Listener and
// may be shared by several runners.
type Recorder struct {
	xunit.NopListener

	project  string
	registry *prometheus.Registry

	casesTotal    *prometheus.CounterVec
	caseDuration  *prometheus.HistogramVec
	suitesTotal   prometheus.Counter
	suiteDuration *prometheus.GaugeVec
	runResults    *prometheus.GaugeVec
	fixtureErrors prometheus.Counter
}

// NewRecorder creates a recorder with its own registry
func NewRecorder(project string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		project:  project,
		registry: reg,
		casesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "cases_total",
			Help:      "Count of completed test cases by outcome",
		}, []string{
			"project",
			"suite",
			"outcome",
		}),
		caseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "case_duration_seconds",
			Help:      "Duration of executed test cases",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{
			"project",
			"outcome",
		}),
		suitesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "suites_total",
			Help:      "Count of finished test suites",
		}),
		suiteDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "suite_duration_seconds",
			Help:      "Duration of the last execution of a test suite",
		}, []string{
			"project",
			"suite",
		}),
		runResults: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_results",
			Help:      "Case counts of the last finished run by outcome",
		}, []string{
			"project",
			"run_id",
			"outcome",
		}),
		fixtureErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "fixture_errors_total",
			Help:      "Count of fixture setup and teardown errors",
		}),
	}
}

// Registry exposes the recorder's registry, e.g. for an HTTP handler
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) CaseCompleted(rec domain.CaseRecord) {
	outcome := rec.Outcome.String()
	r.casesTotal.WithLabelValues(r.project, rec.Suite, outcome).Inc()
	if rec.Outcome.Ran() {
		r.caseDuration.WithLabelValues(r.project, outcome).Observe(rec.Elapsed.Seconds())
	}
}

func (r *Recorder) SuiteFinished(name string, elapsed time.Duration) {
	r.suitesTotal.Inc()
	r.suiteDuration.WithLabelValues(r.project, name).Set(elapsed.Seconds())
}

func (r *Recorder) RunFinished(result *xunit.TestResult) {
	r.fixtureErrors.Add(float64(len(result.FixtureErrors())))
}

// RecordRun sets the run result gauges from a finished, possibly merged, result
func (r *Recorder) RecordRun(result *xunit.TestResult) {
	id := result.RunID()
	r.runResults.WithLabelValues(r.project, id, domain.OutcomeSuccess.String()).Set(float64(result.NumberOfSuccesses()))
	r.runResults.WithLabelValues(r.project, id, domain.OutcomeFail.String()).Set(float64(result.NumberOfFailures()))
	r.runResults.WithLabelValues(r.project, id, domain.OutcomeError.String()).Set(float64(result.NumberOfErrors()))
	r.runResults.WithLabelValues(r.project, id, domain.OutcomeNotRun.String()).Set(float64(result.NumberOfNotRun()))
}

// WriteTextfile writes the metrics in the node exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
