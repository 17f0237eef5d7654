package rules

import (
	"strconv"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

// landmarkRole returns the explicit or implicit landmark role of n, or "".
func landmarkRole(n *html.Node) string {
	role := primaryRole(n)
	if role == "" {
		role = implicitRole(n)
	}
	if landmarkRoles[role] {
		return role
	}
	return ""
}

func visibleMains(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.Elements() {
		if landmarkRole(n) == "main" && !dom.IsHidden(n) {
			out = append(out, n)
		}
	}
	return out
}

var missingMainLandmarkInfo = a11y.RuleInfo{
	ID:              "missing-main-landmark",
	Message:         "Page regions are marked up but there is no main landmark",
	Description:     "When content uses banner, navigation or contentinfo landmarks, the primary content should be in a main landmark so users can jump straight to it.",
	WCAGCriterion:   "2.4.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Wrap the primary content in a <main> element.",
}

type missingMainLandmark struct{ rule }

func (r missingMainLandmark) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	if len(visibleMains(doc)) > 0 {
		return nil
	}
	for _, n := range doc.Elements() {
		switch role := landmarkRole(n); role {
		case "banner", "navigation", "contentinfo":
			return []a11y.Issue{r.issue(n, map[string]string{"landmark": role})}
		}
	}
	return nil
}

var duplicateMainLandmarkInfo = a11y.RuleInfo{
	ID:              "duplicate-main-landmark",
	Message:         "More than one main landmark",
	Description:     "A page has exactly one primary content region. Multiple visible main landmarks make it unclear where the content starts.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Keep one visible main landmark and turn the others into sections or hide them.",
}

type duplicateMainLandmark struct{ rule }

func (r duplicateMainLandmark) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	mains := visibleMains(doc)
	if len(mains) < 2 {
		return nil
	}
	var issues []a11y.Issue
	for i, n := range mains[1:] {
		ctx := map[string]string{"index": strconv.Itoa(i + 2), "count": strconv.Itoa(len(mains))}
		issues = append(issues, r.issue(n, ctx))
	}
	return issues
}
