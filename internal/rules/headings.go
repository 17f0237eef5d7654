package rules

import (
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

var skippedHeadingLevelInfo = a11y.RuleInfo{
	ID:              "skipped-heading-level",
	Message:         "Heading level is skipped",
	Description:     "Heading levels should only increase by one so the outline of the content stays navigable.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Use the next heading level down instead of skipping levels.",
}

type skippedHeadingLevel struct{ rule }

func (r skippedHeadingLevel) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	prev := 0
	for _, h := range visibleHeadings(doc) {
		level := headingLevel(h)
		if prev > 0 && level > prev+1 {
			ctx := map[string]string{
				"previous_level": strconv.Itoa(prev),
				"level":          strconv.Itoa(level),
			}
			issues = append(issues, r.issuef(h, ctx, "Heading level jumps from h%d to h%d", prev, level))
		}
		prev = level
	}
	return issues
}

func visibleHeadings(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, h := range doc.Elements(headingTags...) {
		if !dom.IsHidden(h) {
			out = append(out, h)
		}
	}
	return out
}

// fixSkippedHeadingLevel renames each out-of-sequence heading to one level
// below the last accepted heading and continues from the corrected level.
func fixSkippedHeadingLevel(doc *dom.Document) int {
	fixed, last := 0, 0
	for _, h := range visibleHeadings(doc) {
		level := headingLevel(h)
		if last > 0 && level > last+1 {
			level = last + 1
			dom.Rename(h, fmt.Sprintf("h%d", level))
			fixed++
		}
		last = level
	}
	return fixed
}

var emptyHeadingInfo = a11y.RuleInfo{
	ID:              "empty-heading",
	Message:         "Heading has no text",
	Description:     "Empty headings appear in screen reader heading lists with nothing to announce.",
	WCAGCriterion:   "2.4.6",
	WCAGLevel:       a11y.LevelAA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Give the heading descriptive text or remove it.",
}

type emptyHeading struct{ rule }

func (r emptyHeading) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, h := range visibleHeadings(doc) {
		if accessibleName(doc, h) == "" {
			issues = append(issues, r.issue(h, map[string]string{"level": h.Data}))
		}
	}
	return issues
}

// fixEmptyHeading removes empty headings that hold nothing but whitespace.
// Headings wrapping elements (an icon, an empty anchor target) are left for
// a human.
func fixEmptyHeading(doc *dom.Document) int {
	fixed := 0
	for _, h := range visibleHeadings(doc) {
		if accessibleName(doc, h) == "" && len(dom.ChildElements(h)) == 0 {
			dom.Remove(h)
			fixed++
		}
	}
	return fixed
}
