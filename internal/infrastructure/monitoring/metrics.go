package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phases label rule metrics.
const (
	PhaseDetect = "detect"
	PhaseFix    = "fix"
)

// Metrics holds the engine's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ScansTotal        *prometheus.CounterVec
	RemediationsTotal prometheus.Counter
	RuleDuration      *prometheus.HistogramVec
	IssuesTotal       *prometheus.CounterVec
	RuleFailures      *prometheus.CounterVec
	FixesTotal        *prometheus.CounterVec
	DocumentBytes     prometheus.Histogram

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for console summaries.
type Snapshot struct {
	Scans        int64 `json:"scans"`
	Remediations int64 `json:"remediations"`
	Issues       int64 `json:"issues"`
	Fixes        int64 `json:"fixes"`
	Failures     int64 `json:"failures"`
}

// NewMetrics creates a collector set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "a11y_scans_total",
				Help: "Total number of scans by outcome",
			},
			[]string{"outcome"},
		),
		RemediationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "a11y_remediations_total",
				Help: "Total number of remediation runs",
			},
		),
		RuleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "a11y_rule_duration_seconds",
				Help:    "Time spent in a single rule",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"rule", "phase"},
		),
		IssuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "a11y_issues_total",
				Help: "Issues reported by rule and severity",
			},
			[]string{"rule", "severity"},
		),
		RuleFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "a11y_rule_failures_total",
				Help: "Rule evaluation failures, including quarantined skips",
			},
			[]string{"rule", "phase"},
		),
		FixesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "a11y_fixes_total",
				Help: "Instances repaired by rule",
			},
			[]string{"rule"},
		),
		DocumentBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "a11y_document_bytes",
				Help:    "Size of scanned documents in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
	}
}

// Registry exposes the private registry for gathering or HTTP export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordScan records a finished scan.
func (m *Metrics) RecordScan(outcome string, size int) {
	m.ScansTotal.WithLabelValues(outcome).Inc()
	m.DocumentBytes.Observe(float64(size))

	m.mu.Lock()
	m.snapshot.Scans++
	m.mu.Unlock()
}

// RecordRemediation records a finished remediation run.
func (m *Metrics) RecordRemediation() {
	m.RemediationsTotal.Inc()

	m.mu.Lock()
	m.snapshot.Remediations++
	m.mu.Unlock()
}

// RecordRule records how long one rule took.
func (m *Metrics) RecordRule(rule, phase string, duration time.Duration) {
	m.RuleDuration.WithLabelValues(rule, phase).Observe(duration.Seconds())
}

// RecordIssues adds count issues for a rule at a severity.
func (m *Metrics) RecordIssues(rule, severity string, count int) {
	if count <= 0 {
		return
	}
	m.IssuesTotal.WithLabelValues(rule, severity).Add(float64(count))

	m.mu.Lock()
	m.snapshot.Issues += int64(count)
	m.mu.Unlock()
}

// RecordFailure records a failed or quarantined rule.
func (m *Metrics) RecordFailure(rule, phase string) {
	m.RuleFailures.WithLabelValues(rule, phase).Inc()

	m.mu.Lock()
	m.snapshot.Failures++
	m.mu.Unlock()
}

// RecordFixes adds count repaired instances for a rule.
func (m *Metrics) RecordFixes(rule string, count int) {
	if count <= 0 {
		return
	}
	m.FixesTotal.WithLabelValues(rule).Add(float64(count))

	m.mu.Lock()
	m.snapshot.Fixes += int64(count)
	m.mu.Unlock()
}

// Snapshot returns the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// WriteTextfile writes every metric in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Timer measures one rule run.
type Timer struct {
	metrics *Metrics
	rule    string
	phase   string
	start   time.Time
}

// NewTimer starts timing a rule. A nil Metrics yields a no-op timer.
func NewTimer(m *Metrics, rule, phase string) *Timer {
	return &Timer{metrics: m, rule: rule, phase: phase, start: time.Now()}
}

// Stop records the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.metrics != nil {
		t.metrics.RecordRule(t.rule, t.phase, elapsed)
	}
	return elapsed
}
