package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/resilience"
)

// runRule executes fn for one rule with panic recovery, timing, quarantine
// and logging. It returns a non-nil failure when the rule did not complete.
func (o *options) runRule(ruleID, phase string, fn func() error) *RuleFailure {
	log := o.log.WithRule(ruleID, phase)

	var breaker *resilience.Breaker
	if o.breakers != nil {
		breaker = o.breakers.Get(phase + ":" + ruleID)
		if err := breaker.Allow(); err != nil {
			log.Debug("rule skipped while quarantined")
			o.recordFailure(ruleID, phase)
			f := newRuleFailure(ruleID, phase, ErrRuleQuarantined)
			return &f
		}
	}

	timer := monitoring.NewTimer(o.metrics, ruleID, phase)
	err := call(fn)
	elapsed := timer.Stop()

	if breaker != nil {
		breaker.Record(err == nil)
	}
	if err == nil {
		return nil
	}

	var pe *PanicError
	if errors.As(err, &pe) {
		log.Error("rule panicked", zap.Any("panic", pe.Value), zap.Duration("elapsed", elapsed))
	} else {
		log.Warn("rule failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	}
	o.recordFailure(ruleID, phase)
	f := newRuleFailure(ruleID, phase, err)
	return &f
}

func (o *options) recordFailure(ruleID, phase string) {
	if o.metrics != nil {
		o.metrics.RecordFailure(ruleID, phase)
	}
}

// call runs fn, converting a panic into a *PanicError.
func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}
