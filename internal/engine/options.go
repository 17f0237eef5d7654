package engine

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

type options struct {
	log          *logging.Logger
	metrics      *monitoring.Metrics
	policy       FailPolicy
	breakers     *resilience.Set
	maxHTMLBytes int
	sanitizer    *bluemonday.Policy
}

// Option configures a Scanner or Remediator.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		log:          logging.NewNop(),
		maxHTMLBytes: utils.DefaultMaxHTMLBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. Rule failures are logged at warn.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records rule timings, issues, fixes and failures.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithFailPolicy sets what a rule fault does to the run.
func WithFailPolicy(p FailPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithMaxHTMLBytes caps input size. Zero or less keeps the default.
func WithMaxHTMLBytes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxHTMLBytes = n
		}
	}
}

// WithQuarantine skips a rule for cooldown after threshold consecutive
// failures. A zero threshold disables quarantine.
func WithQuarantine(threshold uint32, cooldown time.Duration) Option {
	return func(o *options) {
		if threshold == 0 {
			o.breakers = nil
			return
		}
		o.breakers = resilience.NewSet(resilience.Settings{
			Threshold: threshold,
			Cooldown:  cooldown,
			OnStateChange: func(name string, from, to resilience.State) {
				o.log.Info("rule quarantine state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
}

// WithBreakers shares an existing breaker set, so a Scanner and a
// Remediator quarantine against the same history.
func WithBreakers(set *resilience.Set) Option {
	return func(o *options) { o.breakers = set }
}

// WithSanitizer runs remediated content through policy whenever at least
// one instance was fixed.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(o *options) { o.sanitizer = policy }
}
