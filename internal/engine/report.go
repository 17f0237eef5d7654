package engine

import (
	"sort"
	"time"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
)

// Report is the result of one scan.
type Report struct {
	ID           string         `json:"id"`
	ContentHash  string         `json:"content_hash"`
	Issues       []a11y.Issue   `json:"issues"`
	Failures     []RuleFailure  `json:"failures,omitempty"`
	RulesRun     []string       `json:"rules_run"`
	Duration     time.Duration  `json:"duration"`
	Summary      map[string]int `json:"summary"`
	ManualRules  []string       `json:"manual_rules,omitempty"`
	FixableRules []string       `json:"fixable_rules,omitempty"`
}

// SortBySeverity orders issues most severe first, then by rule id. Issues
// that tie keep their document order.
func (r *Report) SortBySeverity() {
	sort.SliceStable(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		return a.RuleID < b.RuleID
	})
}

// Filter returns the issues at or above min, in report order.
func (r *Report) Filter(min a11y.Severity) []a11y.Issue {
	var out []a11y.Issue
	for _, issue := range r.Issues {
		if issue.Severity.AtLeast(min) {
			out = append(out, issue)
		}
	}
	return out
}

// HasIssuesAtLeast reports whether any issue is at or above min.
func (r *Report) HasIssuesAtLeast(min a11y.Severity) bool {
	for _, issue := range r.Issues {
		if issue.Severity.AtLeast(min) {
			return true
		}
	}
	return false
}

// Count returns the number of issues at exactly s.
func (r *Report) Count(s a11y.Severity) int {
	return r.Summary[s.String()]
}

func summarize(issues []a11y.Issue) map[string]int {
	summary := make(map[string]int, len(a11y.Severities()))
	for _, s := range a11y.Severities() {
		summary[s.String()] = 0
	}
	for _, issue := range issues {
		summary[issue.Severity.String()]++
	}
	return summary
}

// FixOutcome is what one fixer did during a remediation run.
type FixOutcome struct {
	RuleID     string `json:"rule_id"`
	FixedCount int    `json:"fixed_count"`
}

// Remediation is the result of one remediation run.
type Remediation struct {
	ID         string        `json:"id"`
	FixedCount int           `json:"fixed_count"`
	Content    string        `json:"content"`
	Applied    []FixOutcome  `json:"applied"`
	Manual     []string      `json:"manual,omitempty"`
	Failures   []RuleFailure `json:"failures,omitempty"`
	Sanitized  bool          `json:"sanitized,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Changed reports whether any fixer repaired something.
func (r *Remediation) Changed() bool {
	return r.FixedCount > 0
}
