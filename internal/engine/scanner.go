package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

// ScanOptions narrows a single scan.
type ScanOptions struct {
	// RuleIDs selects detectors. Nil means all, in registry order; a
	// non-nil empty slice selects nothing.
	RuleIDs []string
	// Env carries the site URL. Nil means an empty Env.
	Env *a11y.Env
	// SeverityOverrides replaces the severity of every issue of a rule.
	SeverityOverrides map[string]a11y.Severity
}

// Scanner runs detectors. It is safe for concurrent use.
type Scanner struct {
	registry *a11y.Registry
	opts     options
}

// NewScanner creates a scanner over reg.
func NewScanner(reg *a11y.Registry, opts ...Option) *Scanner {
	return &Scanner{registry: reg, opts: newOptions(opts)}
}

// Scan parses content once and runs the selected detectors over it.
//
// Unknown rule ids and oversized input fail before any rule runs. Under
// FailClosed the first rule failure stops the scan and the partial report
// comes back with an error wrapping ErrRuleFailed. Cancellation is checked
// between rules; the partial report is returned with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, content string, so ScanOptions) (*Report, error) {
	if err := utils.ValidateHTML(content, s.opts.maxHTMLBytes); err != nil && !errors.Is(err, utils.ErrEmptyHTML) {
		return nil, err
	}
	detectors, err := s.selectDetectors(so.RuleIDs)
	if err != nil {
		return nil, err
	}
	env := so.Env
	if env == nil {
		env = &a11y.Env{}
	}

	start := time.Now()
	report := &Report{
		ID:          id.NewScanID().String(),
		ContentHash: utils.ContentHash(content),
		Issues:      []a11y.Issue{},
		RulesRun:    make([]string, 0, len(detectors)),
	}
	log := s.opts.log.WithRun(report.ID)

	doc := dom.Parse(content)
	runErr := s.run(ctx, doc, env, detectors, so.SeverityOverrides, report)

	report.Duration = time.Since(start)
	report.Summary = summarize(report.Issues)
	report.ManualRules, report.FixableRules = s.classify(report.Issues)

	if s.opts.metrics != nil {
		s.opts.metrics.RecordScan(scanOutcome(runErr, report), len(content))
	}
	log.Debug("scan finished",
		zap.Int("issues", len(report.Issues)),
		zap.Int("rules", len(report.RulesRun)),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("duration", report.Duration))

	return report, runErr
}

func (s *Scanner) run(ctx context.Context, doc *dom.Document, env *a11y.Env, detectors []a11y.Detector, overrides map[string]a11y.Severity, report *Report) error {
	for _, d := range detectors {
		if err := ctx.Err(); err != nil {
			return err
		}

		ruleID := d.ID()
		var issues []a11y.Issue
		failure := s.opts.runRule(ruleID, PhaseDetect, func() error {
			issues = d.Detect(doc, env)
			return nil
		})
		if failure != nil {
			report.Failures = append(report.Failures, *failure)
			if s.opts.policy == FailClosed {
				return fmt.Errorf("%w: %w", ErrRuleFailed, failure)
			}
			continue
		}

		report.RulesRun = append(report.RulesRun, ruleID)
		if sev, ok := overrides[ruleID]; ok {
			for i := range issues {
				issues[i] = issues[i].WithSeverity(sev)
			}
		}
		s.recordIssues(ruleID, issues)
		report.Issues = append(report.Issues, issues...)
	}
	return nil
}

// selectDetectors keeps registry order whatever order ids come in.
func (s *Scanner) selectDetectors(ids []string) ([]a11y.Detector, error) {
	all := s.registry.Detectors()
	if ids == nil {
		return all, nil
	}
	if err := s.registry.Validate(ids); err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, ruleID := range ids {
		want[ruleID] = true
	}
	out := make([]a11y.Detector, 0, len(want))
	for _, d := range all {
		if want[d.ID()] {
			out = append(out, d)
		}
	}
	return out, nil
}

// classify splits the rules that reported issues by the kind of their fixer.
// Rules without a fixer count as manual.
func (s *Scanner) classify(issues []a11y.Issue) (manual, fixable []string) {
	seen := make(map[string]bool)
	for _, issue := range issues {
		if seen[issue.RuleID] {
			continue
		}
		seen[issue.RuleID] = true
		if f, ok := s.registry.Fixer(issue.RuleID); ok && f.Kind() == a11y.FixAutomatic {
			fixable = append(fixable, issue.RuleID)
		} else {
			manual = append(manual, issue.RuleID)
		}
	}
	return manual, fixable
}

func (s *Scanner) recordIssues(ruleID string, issues []a11y.Issue) {
	if s.opts.metrics == nil || len(issues) == 0 {
		return
	}
	counts := make(map[a11y.Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	for sev, n := range counts {
		s.opts.metrics.RecordIssues(ruleID, sev.String(), n)
	}
}

func scanOutcome(err error, report *Report) string {
	switch {
	case err != nil:
		return "aborted"
	case len(report.Failures) > 0:
		return "partial"
	case len(report.Issues) > 0:
		return "issues"
	default:
		return "clean"
	}
}
