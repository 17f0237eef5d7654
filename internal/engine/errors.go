package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRuleFailed wraps the cause of a rule fault under FailClosed.
	ErrRuleFailed = errors.New("rule failed")
	// ErrRuleQuarantined marks a rule skipped by its circuit breaker.
	ErrRuleQuarantined = errors.New("rule quarantined")
)

// Phases of a rule run.
const (
	PhaseDetect = "detect"
	PhaseFix    = "fix"
)

// FailPolicy decides what a rule fault does to the rest of the run.
type FailPolicy int

const (
	// FailOpen records the failure and keeps going.
	FailOpen FailPolicy = iota
	// FailClosed records the failure and stops.
	FailClosed
)

// String returns "open" or "closed".
func (p FailPolicy) String() string {
	if p == FailClosed {
		return "closed"
	}
	return "open"
}

// ParseFailPolicy parses "open" or "closed".
func ParseFailPolicy(s string) (FailPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "open":
		return FailOpen, nil
	case "closed":
		return FailClosed, nil
	}
	return FailOpen, fmt.Errorf("unknown fail policy %q", s)
}

// RuleFailure records one rule that did not complete.
type RuleFailure struct {
	RuleID  string `json:"rule_id"`
	Phase   string `json:"phase"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func newRuleFailure(ruleID, phase string, err error) RuleFailure {
	return RuleFailure{RuleID: ruleID, Phase: phase, Message: err.Error(), Err: err}
}

func (f RuleFailure) Error() string {
	return fmt.Sprintf("%s %s: %s", f.RuleID, f.Phase, f.Message)
}

func (f RuleFailure) Unwrap() error {
	return f.Err
}

// Quarantined reports whether the rule was skipped rather than run.
func (f RuleFailure) Quarantined() bool {
	return errors.Is(f.Err, ErrRuleQuarantined)
}

// PanicError is the cause recorded when a rule panics.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
