// Package metrics provides Prometheus metrics for a settlement run.
//
// Metrics live on a private registry. A run has no listener; the registry is
// written once to a textfile when the run ends.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	OutcomeSuccess            = "success"
	OutcomeValidationError    = "validation_error"
	OutcomeConfigurationError = "configuration_error"
	OutcomeError              = "error"
)

// Default histogram buckets for run duration, in milliseconds.
var defaultDurationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for a settlement run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Outcome metrics
	runs               *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	runDuration        prometheus.Histogram

	// Settlement figures of the last run
	participants prometheus.Gauge
	eligible     prometheus.Gauge
	payouts      prometheus.Gauge
	poolUnits    prometheus.Gauge
	dustUnits    prometheus.Gauge
	attested     prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shadowsettle",
		subsystem:        "settlement",
		histogramBuckets: defaultDurationBuckets,
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of settlement runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_failures_total",
		Help:        "Total number of rejected datasets by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_milliseconds",
		Help:        "Duration of a settlement run from read to write, in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.participants = m.gauge(auto, "participants", "Number of participant rows in the dataset")
	m.eligible = m.gauge(auto, "eligible_participants", "Number of participants that passed the eligibility filter")
	m.payouts = m.gauge(auto, "payouts", "Number of payouts emitted")
	m.poolUnits = m.gauge(auto, "pool_units", "Whole units distributed")
	m.dustUnits = m.gauge(auto, "dust_units", "Truncation dust credited to the first eligible participant")
	m.attested = m.gauge(auto, "attested", "1 when the result carries an attestation digest, 0 otherwise")
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// Registry returns the registry the manager writes to.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordRun counts a run with the given outcome and its duration.
func (m *Manager) RecordRun(outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(durationMs)
}

// RecordValidationFailure counts a rejected dataset.
func (m *Manager) RecordValidationFailure(reason string) {
	if !m.enabled {
		return
	}
	m.validationFailures.WithLabelValues(reason).Inc()
}

// Figures is the per-run settlement summary exported as gauges.
type Figures struct {
	Participants int
	Eligible     int
	Payouts      int
	PoolUnits    int64
	DustUnits    int64
	Attested     bool
}

// RecordSettlement sets the settlement gauges.
func (m *Manager) RecordSettlement(f Figures) {
	if !m.enabled {
		return
	}
	m.participants.Set(float64(f.Participants))
	m.eligible.Set(float64(f.Eligible))
	m.payouts.Set(float64(f.Payouts))
	m.poolUnits.Set(float64(f.PoolUnits))
	m.dustUnits.Set(float64(f.DustUnits))
	if f.Attested {
		m.attested.Set(1)
	} else {
		m.attested.Set(0)
	}
}

// WriteTextfile writes the registry in the Prometheus text format to path.
// A disabled manager writes nothing.
func (m *Manager) WriteTextfile(path string) error {
	if !m.enabled {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// Default returns the global manager.
func Default() *Manager { return globalManager }
