package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

var (
	refocusCall = regexp.MustCompile(`\.focus\s*\(`)
	tabKeyCheck = regexp.MustCompile(`(?i)(keycode|which)\s*={2,3}\s*9\b|key\s*={2,3}\s*['"]tab['"]`)
	swallowKey  = regexp.MustCompile(`(?i)preventdefault\s*\(|return\s+false`)
)

var (
	gestureHandlers = []string{
		"ontouchstart", "ontouchmove", "ontouchend", "ongesturestart",
		"ongesturechange", "ongestureend", "ondragstart", "ondrag", "ondragend",
	}
	keyboardHandlers = []string{"onclick", "onkeydown", "onkeyup", "onkeypress"}
)

func hasAnyAttr(n *html.Node, keys ...string) bool {
	for _, k := range keys {
		if dom.HasAttr(n, k) {
			return true
		}
	}
	return false
}

var missingKeyboardAccessInfo = a11y.RuleInfo{
	ID:              "missing-keyboard-access",
	Message:         "Clickable element cannot be reached by keyboard",
	Description:     "Elements with click handlers that are not natively interactive cannot be focused or activated without a mouse.",
	WCAGCriterion:   "2.1.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Use a <button> or <a href>, or add tabindex=\"0\", a role and key handlers.",
}

type missingKeyboardAccess struct{ rule }

func (r missingKeyboardAccess) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range clickOnly(doc) {
		issues = append(issues, r.issue(n, map[string]string{"element": n.Data}))
	}
	return issues
}

// clickOnly returns visible, non-interactive elements with onclick and no
// tabindex.
func clickOnly(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.XPath("//*[@onclick]") {
		if isNativelyInteractive(n) || dom.HasAttr(n, "tabindex") || dom.IsHidden(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func fixMissingKeyboardAccess(doc *dom.Document) int {
	nodes := clickOnly(doc)
	for _, n := range nodes {
		dom.SetAttr(n, "tabindex", "0")
		if !dom.HasAttr(n, "role") {
			dom.SetAttr(n, "role", "button")
		}
	}
	return len(nodes)
}

var keyboardTrapInfo = a11y.RuleInfo{
	ID:              "keyboard-trap",
	Message:         "Element may trap keyboard focus",
	Description:     "Handlers that pull focus back on blur or swallow the Tab key keep keyboard users from leaving the element.",
	WCAGCriterion:   "2.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityCritical,
	Recommendation:  "Let focus leave the element with Tab and Shift+Tab.",
}

type keyboardTrap struct{ rule }

func (r keyboardTrap) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements() {
		if handler := trapHandler(n); handler != "" {
			issues = append(issues, r.issue(n, map[string]string{"handler": handler}))
		}
	}
	return issues
}

// trapHandler names the inline handler that traps focus, or "".
func trapHandler(n *html.Node) string {
	for _, attr := range []string{"onblur", "onfocusout"} {
		if refocusCall.MatchString(dom.AttrOr(n, attr, "")) {
			return attr
		}
	}
	for _, attr := range []string{"onkeydown", "onkeypress"} {
		js := dom.AttrOr(n, attr, "")
		if tabKeyCheck.MatchString(js) && swallowKey.MatchString(js) {
			return attr
		}
	}
	return ""
}

var positiveTabindexInfo = a11y.RuleInfo{
	ID:              "positive-tabindex",
	Message:         "Positive tabindex changes the focus order",
	Description:     "tabindex values above zero move the element ahead of the natural reading order, which is confusing and hard to maintain.",
	WCAGCriterion:   "2.4.3",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Use tabindex=\"0\" and arrange the DOM in a logical order.",
}

type positiveTabindex struct{ rule }

func (r positiveTabindex) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.XPath("//*[@tabindex]") {
		v := dom.TrimmedAttr(n, "tabindex")
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			issues = append(issues, r.issuef(n, map[string]string{"tabindex": v}, "tabindex=%q overrides the natural focus order", v))
		}
	}
	return issues
}

var pointerGestureAlternativeInfo = a11y.RuleInfo{
	ID:              "pointer-gesture-alternative",
	Message:         "Gesture handler has no single-pointer or keyboard alternative",
	Description:     "Touch and drag interactions need an equivalent that works with a single click or the keyboard.",
	WCAGCriterion:   "2.5.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Provide a click or keyboard way to perform the same action.",
}

type pointerGestureAlternative struct{ rule }

func (r pointerGestureAlternative) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements() {
		if !hasAnyAttr(n, gestureHandlers...) || hasAnyAttr(n, keyboardHandlers...) || isNativelyInteractive(n) {
			continue
		}
		var handlers []string
		for _, h := range gestureHandlers {
			if dom.HasAttr(n, h) {
				handlers = append(handlers, h)
			}
		}
		issues = append(issues, r.issue(n, map[string]string{"handlers": strings.Join(handlers, " ")}))
	}
	return issues
}
