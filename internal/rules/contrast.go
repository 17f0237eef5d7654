package rules

import (
	"strconv"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
)

var insufficientColorContrastInfo = a11y.RuleInfo{
	ID:              "insufficient-color-contrast",
	Message:         "Text color contrast is too low",
	Description:     "Text needs a contrast ratio of at least 4.5:1 against its background. Only explicit inline colors are checked.",
	WCAGCriterion:   "1.4.3",
	WCAGLevel:       a11y.LevelAA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Darken the text or lighten the background until the ratio reaches 4.5:1.",
}

type insufficientColorContrast struct{ rule }

func (r insufficientColorContrast) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.XPath("//*[@style]") {
		if dom.IsHidden(n) || dom.Text(n) == "" {
			continue
		}
		fg, bg, ok := inlineColors(dom.AttrOr(n, "style", ""))
		if !ok {
			continue
		}
		ratio := contrastRatio(fg, bg)
		if ratio >= minContrastRatio {
			continue
		}
		ctx := map[string]string{
			"foreground": fg.String(),
			"background": bg.String(),
			"ratio":      strconv.FormatFloat(ratio, 'f', 2, 64),
		}
		issues = append(issues, r.issuef(n, ctx, "Contrast ratio %.2f:1 is below %.1f:1", ratio, minContrastRatio))
	}
	return issues
}
