package engine

import (
	"errors"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
)

type stubDetector struct {
	id       string
	severity a11y.Severity
	count    int
	panics   bool
	calls    *int
}

func (s stubDetector) ID() string { return s.id }

func (s stubDetector) Describe() a11y.RuleInfo {
	return a11y.RuleInfo{ID: s.id, DefaultSeverity: s.severity}
}

func (s stubDetector) Detect(*dom.Document, *a11y.Env) []a11y.Issue {
	if s.calls != nil {
		*s.calls++
	}
	if s.panics {
		panic("detector exploded")
	}
	issues := make([]a11y.Issue, s.count)
	for i := range issues {
		issues[i] = a11y.Issue{RuleID: s.id, Severity: s.severity}
	}
	return issues
}

type stubFixer struct {
	id    string
	kind  a11y.FixKind
	apply func(string) (a11y.FixResult, error)
}

func (s stubFixer) ID() string         { return s.id }
func (s stubFixer) Kind() a11y.FixKind { return s.kind }

func (s stubFixer) Apply(content string) (a11y.FixResult, error) {
	return s.apply(content)
}

// appendFixer appends suffix once.
func appendFixer(id, suffix string) stubFixer {
	return stubFixer{id: id, kind: a11y.FixAutomatic, apply: func(c string) (a11y.FixResult, error) {
		if strings.HasSuffix(c, suffix) {
			return a11y.FixResult{Content: c}, nil
		}
		return a11y.FixResult{FixedCount: 1, Content: c + suffix}, nil
	}}
}

func failingFixer(id string) stubFixer {
	return stubFixer{id: id, kind: a11y.FixAutomatic, apply: func(c string) (a11y.FixResult, error) {
		return a11y.FixResult{FixedCount: 5, Content: "garbage"}, errors.New("cannot fix")
	}}
}

func manualFixer(id string) stubFixer {
	return stubFixer{id: id, kind: a11y.FixManual, apply: func(c string) (a11y.FixResult, error) {
		return a11y.FixResult{Content: c}, nil
	}}
}
