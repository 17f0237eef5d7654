package rules

import (
	"fmt"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

// rule carries the static description shared by every detector.
type rule struct {
	info a11y.RuleInfo
}

// ID returns the rule id.
func (r rule) ID() string { return r.info.ID }

// Describe returns the rule metadata.
func (r rule) Describe() a11y.RuleInfo { return r.info }

// issue captures n as strings and fills the rule's defaults.
func (r rule) issue(n *html.Node, context map[string]string) a11y.Issue {
	return a11y.Issue{
		RuleID:         r.info.ID,
		Severity:       r.info.DefaultSeverity,
		WCAGCriterion:  r.info.WCAGCriterion,
		WCAGLevel:      r.info.WCAGLevel,
		Message:        r.info.Message,
		Description:    r.info.Description,
		Selector:       dom.Selector(n),
		HTMLSnippet:    dom.Snippet(n),
		Recommendation: r.info.Recommendation,
		Context:        context,
	}
}

// issuef is issue with a formatted message.
func (r rule) issuef(n *html.Node, context map[string]string, format string, args ...any) a11y.Issue {
	is := r.issue(n, context)
	is.Message = fmt.Sprintf(format, args...)
	return is
}

// fixFunc mutates doc and returns how many instances it fixed.
type fixFunc func(doc *dom.Document) int

// autoFixer is a real fixer: parse, mutate, serialize.
type autoFixer struct {
	id  string
	fix fixFunc
}

func (f autoFixer) ID() string         { return f.id }
func (f autoFixer) Kind() a11y.FixKind { return a11y.FixAutomatic }

// Apply returns content untouched unless something was fixed.
func (f autoFixer) Apply(content string) (a11y.FixResult, error) {
	doc := dom.Parse(content)
	n := f.fix(doc)
	if n == 0 {
		return a11y.FixResult{Content: content}, nil
	}
	return a11y.FixResult{FixedCount: n, Content: doc.Serialize()}, nil
}

// manualFixer is inert: the defect cannot be corrected from markup alone.
type manualFixer struct {
	id string
}

func (f manualFixer) ID() string         { return f.id }
func (f manualFixer) Kind() a11y.FixKind { return a11y.FixManual }

func (f manualFixer) Apply(content string) (a11y.FixResult, error) {
	return a11y.FixResult{Content: content}, nil
}

func auto(id string, fix fixFunc) a11y.Fixer { return autoFixer{id: id, fix: fix} }
func manual(id string) a11y.Fixer            { return manualFixer{id: id} }
