package a11y

// Issue is a single finding. Selector and HTMLSnippet are captured as
// strings so an Issue never references the Document it came from.
type Issue struct {
	RuleID         string            `json:"rule_id"`
	Severity       Severity          `json:"severity"`
	WCAGCriterion  string            `json:"wcag_criterion"`
	WCAGLevel      Level             `json:"wcag_level"`
	Message        string            `json:"message"`
	Description    string            `json:"description"`
	Selector       string            `json:"selector"`
	HTMLSnippet    string            `json:"html_snippet"`
	Recommendation string            `json:"recommendation"`
	Context        map[string]string `json:"context,omitempty"`
}

// WithSeverity returns a copy of the issue with a different severity.
func (i Issue) WithSeverity(s Severity) Issue {
	i.Severity = s
	return i
}

// FixResult is what a Fixer hands to the next fixer or the caller.
type FixResult struct {
	FixedCount int    `json:"fixed_count"`
	Content    string `json:"content"`
}
