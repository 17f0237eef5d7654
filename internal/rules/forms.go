package rules

import (
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
	"golang.org/x/net/html"
)

// unlabelledInputTypes get their name from value or are not user-editable.
var unlabelledInputTypes = toSet("hidden", "submit", "reset", "button", "image")

// formControls returns visible inputs, selects and textareas that need a
// label.
func formControls(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.Elements("input", "select", "textarea") {
		if n.Data == "input" && unlabelledInputTypes[strings.ToLower(dom.TrimmedAttr(n, "type"))] {
			continue
		}
		if dom.IsHidden(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

var missingFormLabelInfo = a11y.RuleInfo{
	ID:              "missing-form-label",
	Message:         "Form field has no label",
	Description:     "Every form field needs a programmatic label: a label element, aria-label, aria-labelledby or title.",
	WCAGCriterion:   "3.3.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityCritical,
	Recommendation:  "Associate a visible <label> with the field.",
}

type missingFormLabel struct{ rule }

func (r missingFormLabel) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range formControls(doc) {
		if controlName(doc, n) != "" {
			continue
		}
		ctx := map[string]string{"element": n.Data}
		if typ := dom.TrimmedAttr(n, "type"); typ != "" {
			ctx["type"] = typ
		}
		if name := dom.TrimmedAttr(n, "name"); name != "" {
			ctx["name"] = name
		}
		issues = append(issues, r.issue(n, ctx))
	}
	return issues
}

// fixMissingFormLabel sets aria-label from the placeholder, then the
// field's name or id.
func fixMissingFormLabel(doc *dom.Document) int {
	fixed := 0
	for _, n := range formControls(doc) {
		if controlName(doc, n) != "" {
			continue
		}
		label := dom.NormalizeSpace(dom.AttrOr(n, "placeholder", ""))
		if label == "" {
			label = utils.Humanize(dom.TrimmedAttr(n, "name"))
		}
		if label == "" {
			label = utils.Humanize(dom.TrimmedAttr(n, "id"))
		}
		if label == "" {
			continue
		}
		dom.SetAttr(n, "aria-label", label)
		fixed++
	}
	return fixed
}

var emptyButtonInfo = a11y.RuleInfo{
	ID:              "empty-button",
	Message:         "Button has no accessible name",
	Description:     "Buttons without text or a label are announced only as \"button\". Icon-only buttons are the usual cause.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityCritical,
	Recommendation:  "Give the button text, or an aria-label describing its action.",
}

type emptyButton struct{ rule }

func (r emptyButton) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, b := range emptyButtons(doc) {
		issues = append(issues, r.issue(b, nil))
	}
	return issues
}

func emptyButtons(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.Elements("button", "input") {
		if dom.IsHidden(n) {
			continue
		}
		switch n.Data {
		case "button":
			if accessibleName(doc, n) == "" {
				out = append(out, n)
			}
		case "input":
			if !strings.EqualFold(dom.TrimmedAttr(n, "type"), "button") {
				continue
			}
			if dom.TrimmedAttr(n, "value") == "" && controlName(doc, n) == "" {
				out = append(out, n)
			}
		}
	}
	return out
}

// fixEmptyButton labels buttons from title or an icon class. Buttons with
// neither are left for a human.
func fixEmptyButton(doc *dom.Document) int {
	fixed := 0
	for _, b := range emptyButtons(doc) {
		label := dom.NormalizeSpace(dom.AttrOr(b, "title", ""))
		if label == "" {
			label = iconLabel(b)
		}
		if label == "" {
			continue
		}
		dom.SetAttr(b, "aria-label", label)
		fixed++
	}
	return fixed
}

var invalidAutocompleteInfo = a11y.RuleInfo{
	ID:              "invalid-autocomplete",
	Message:         "Autocomplete value is not a valid autofill token",
	Description:     "Fields collecting personal data should use standard autocomplete tokens so browsers and assistive tools can fill and identify them.",
	WCAGCriterion:   "1.3.5",
	WCAGLevel:       a11y.LevelAA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Use a token from the HTML autofill field list, such as \"email\" or \"given-name\".",
}

type invalidAutocomplete struct{ rule }

func (r invalidAutocomplete) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements("input", "select", "textarea") {
		val, ok := dom.Attr(n, "autocomplete")
		if !ok || strings.TrimSpace(val) == "" || validAutocomplete(val) {
			continue
		}
		ctx := map[string]string{"autocomplete": val}
		for _, t := range strings.Fields(strings.ToLower(val)) {
			if !knownAutocompleteToken(t) {
				if s, ok := suggest(t, autocompleteList); ok {
					ctx["suggestion"] = s
				}
				break
			}
		}
		issues = append(issues, r.issuef(n, ctx, "Invalid autocomplete value %q", val))
	}
	return issues
}

func knownAutocompleteToken(t string) bool {
	return autocompleteFields[t] || autocompleteModifiers[t] || strings.HasPrefix(t, "section-")
}

// validAutocomplete accepts "on", "off" or modifiers around exactly one
// field name.
func validAutocomplete(val string) bool {
	tokens := strings.Fields(strings.ToLower(val))
	if len(tokens) == 1 && (tokens[0] == "on" || tokens[0] == "off") {
		return true
	}
	fields := 0
	for _, t := range tokens {
		if !knownAutocompleteToken(t) {
			return false
		}
		if autocompleteFields[t] {
			fields++
		}
	}
	return fields == 1
}

func fixInvalidAutocomplete(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.Elements("input", "select", "textarea") {
		val, ok := dom.Attr(n, "autocomplete")
		if !ok || strings.TrimSpace(val) == "" || validAutocomplete(val) {
			continue
		}
		tokens := strings.Fields(strings.ToLower(val))
		changed := false
		for i, t := range tokens {
			if knownAutocompleteToken(t) || t == "on" || t == "off" {
				continue
			}
			if s, ok := suggest(t, autocompleteList); ok {
				tokens[i] = s
				changed = true
			}
		}
		if !changed {
			continue
		}
		dom.SetAttr(n, "autocomplete", strings.Join(tokens, " "))
		fixed++
	}
	return fixed
}

var fieldsetMissingLegendInfo = a11y.RuleInfo{
	ID:              "fieldset-missing-legend",
	Message:         "Fieldset has no legend",
	Description:     "A fieldset groups related controls. Without a legend the group has no name and the grouping is lost on screen readers.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Add a <legend> as the first child of the fieldset describing the group.",
}

type fieldsetMissingLegend struct{ rule }

func (r fieldsetMissingLegend) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, fs := range doc.Elements("fieldset") {
		if dom.IsHidden(fs) {
			continue
		}
		children := dom.ChildElements(fs)
		if len(children) > 0 && children[0].Data == "legend" && visibleText(children[0]) != "" {
			continue
		}
		issues = append(issues, r.issue(fs, nil))
	}
	return issues
}
