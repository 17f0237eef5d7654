package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
	"golang.org/x/net/html"
)

var invalidAriaRoleInfo = a11y.RuleInfo{
	ID:              "invalid-aria-role",
	Message:         "Element has an invalid ARIA role",
	Description:     "Role values must be concrete WAI-ARIA roles. Unknown or abstract roles are ignored by assistive technology.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Use a valid WAI-ARIA role or remove the role attribute.",
}

type invalidAriaRole struct{ rule }

func (r invalidAriaRole) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Select("[role]") {
		tokens := roleTokens(n)
		var invalid []string
		hasValid := false
		for _, t := range tokens {
			if ariaRoles[t] {
				hasValid = true
			} else {
				invalid = append(invalid, t)
			}
		}
		if len(invalid) == 0 {
			continue
		}

		ctx := map[string]string{"invalid_roles": strings.Join(invalid, " ")}
		if s, ok := suggest(invalid[0], ariaRoleList); ok {
			ctx["suggestion"] = s
		}
		is := r.issuef(n, ctx, "Invalid ARIA role %q", strings.Join(invalid, " "))
		// a valid fallback token keeps the element usable
		if hasValid {
			is = is.WithSeverity(a11y.SeverityModerate)
		}
		issues = append(issues, is)
	}
	return issues
}

// fixInvalidAriaRole corrects typos, and drops unrecognized tokens when a
// valid role remains. Tokens that can neither be corrected nor dropped are
// left alone.
func fixInvalidAriaRole(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.Select("[role]") {
		tokens := roleTokens(n)
		repl := make([]string, len(tokens))
		hasValid := false
		for i, t := range tokens {
			switch s, ok := suggest(t, ariaRoleList); {
			case ariaRoles[t]:
				repl[i] = t
			case ok:
				repl[i] = s
			}
			if repl[i] != "" {
				hasValid = true
			}
		}

		var out []string
		for i, t := range tokens {
			switch {
			case repl[i] != "":
				out = append(out, repl[i])
			case !hasValid:
				out = append(out, t)
			}
		}
		out = utils.Deduplicate(out)
		if strings.Join(out, " ") == strings.Join(tokens, " ") {
			continue
		}
		dom.SetAttr(n, "role", strings.Join(out, " "))
		fixed++
	}
	return fixed
}

var redundantAriaInfo = a11y.RuleInfo{
	ID:              "redundant-aria",
	Message:         "ARIA role duplicates the element's implicit role",
	Description:     "Setting a role the element already has adds noise and risks drifting out of sync with the markup.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  "Remove the redundant role attribute.",
}

type redundantAria struct{ rule }

func (r redundantAria) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Select("[role]") {
		if role, ok := redundantRole(n); ok {
			issues = append(issues, r.issuef(n, map[string]string{"role": role},
				"Role %q is implicit on <%s>", role, n.Data))
		}
	}
	return issues
}

func redundantRole(n *html.Node) (string, bool) {
	tokens := roleTokens(n)
	if len(tokens) != 1 {
		return "", false
	}
	implicit := implicitRole(n)
	return tokens[0], implicit != "" && tokens[0] == implicit
}

func fixRedundantAria(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.Select("[role]") {
		if _, ok := redundantRole(n); ok {
			dom.RemoveAttr(n, "role")
			fixed++
		}
	}
	return fixed
}

var ariaHiddenFocusableInfo = a11y.RuleInfo{
	ID:              "aria-hidden-focusable",
	Message:         "Focusable element is hidden from assistive technology",
	Description:     "Elements inside aria-hidden=\"true\" must not receive keyboard focus, or users land on content their screen reader cannot describe.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Remove the element from the tab order with tabindex=\"-1\" or drop aria-hidden.",
}

type ariaHiddenFocusable struct{ rule }

func (r ariaHiddenFocusable) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range hiddenFocusables(doc) {
		issues = append(issues, r.issue(n, nil))
	}
	return issues
}

func hiddenFocusables(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, hidden := range doc.XPath(`//*[@aria-hidden]`) {
		if !strings.EqualFold(dom.TrimmedAttr(hidden, "aria-hidden"), "true") {
			continue
		}
		if isFocusable(hidden) {
			out = append(out, hidden)
		}
		for _, n := range dom.Descendants(hidden) {
			if isFocusable(n) {
				out = append(out, n)
			}
		}
	}
	return dedupeNodes(out)
}

// dedupeNodes drops repeats from nested aria-hidden subtrees.
func dedupeNodes(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func fixAriaHiddenFocusable(doc *dom.Document) int {
	nodes := hiddenFocusables(doc)
	for _, n := range nodes {
		dom.SetAttr(n, "tabindex", "-1")
	}
	return len(nodes)
}

var invalidAriaAttributeInfo = a11y.RuleInfo{
	ID:              "invalid-aria-attribute",
	Message:         "Unknown ARIA attribute",
	Description:     "Attributes starting with aria- must be WAI-ARIA states or properties; misspelled ones are silently ignored.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Correct the attribute name or remove it.",
}

type invalidAriaAttribute struct{ rule }

func (r invalidAriaAttribute) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements() {
		for _, attr := range unknownAriaAttrs(n) {
			ctx := map[string]string{"attribute": attr}
			if s, ok := suggest(attr, ariaAttributeList); ok {
				ctx["suggestion"] = s
			}
			issues = append(issues, r.issuef(n, ctx, "Unknown ARIA attribute %q", attr))
		}
	}
	return issues
}

func unknownAriaAttrs(n *html.Node) []string {
	var out []string
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if a.Namespace == "" && strings.HasPrefix(key, "aria-") && !ariaAttributes[key] {
			out = append(out, key)
		}
	}
	return out
}

// fixInvalidAriaAttribute renames misspelled attributes when exactly one
// known attribute is close and the element does not already carry it.
func fixInvalidAriaAttribute(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.Elements() {
		for _, attr := range unknownAriaAttrs(n) {
			target, ok := suggest(attr, ariaAttributeList)
			if !ok || dom.HasAttr(n, target) {
				continue
			}
			dom.RenameAttr(n, attr, target)
			fixed++
		}
	}
	return fixed
}

var invalidAriaValueInfo = a11y.RuleInfo{
	ID:              "invalid-aria-value",
	Message:         "ARIA attribute has an invalid value",
	Description:     "Boolean, tristate, token and integer ARIA attributes only accept specific values.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Use one of the values the attribute allows.",
}

var (
	ariaIntegerAttrs = toSet(
		"aria-level", "aria-posinset", "aria-setsize", "aria-colcount",
		"aria-rowcount", "aria-colindex", "aria-rowindex", "aria-colspan", "aria-rowspan",
	)
	ariaNumberAttrs = toSet("aria-valuenow", "aria-valuemin", "aria-valuemax")
)

type invalidAriaValue struct{ rule }

func (r invalidAriaValue) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements() {
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if ariaValueValid(key, a.Val) {
				continue
			}
			ctx := map[string]string{"attribute": key, "value": a.Val}
			if allowed, ok := ariaValueTokens[key]; ok {
				ctx["allowed"] = strings.Join(sortedKeys(allowed), " ")
			}
			issues = append(issues, r.issuef(n, ctx, "Invalid value %q for %s", a.Val, key))
		}
	}
	return issues
}

// ariaValueValid reports whether val is acceptable for key. Attributes
// without a value constraint and empty values always pass.
func ariaValueValid(key, val string) bool {
	if val == "" {
		return true
	}
	if allowed, ok := ariaValueTokens[key]; ok {
		return allowed[val]
	}
	if ariaIntegerAttrs[key] {
		_, err := strconv.Atoi(val)
		return err == nil
	}
	if ariaNumberAttrs[key] {
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	}
	return true
}

// fixInvalidAriaValue normalizes case and whitespace where that yields a
// valid value.
func fixInvalidAriaValue(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.Elements() {
		for i, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if ariaValueValid(key, a.Val) {
				continue
			}
			norm := strings.ToLower(strings.TrimSpace(a.Val))
			if norm == "" || !ariaValueValid(key, norm) {
				continue
			}
			n.Attr[i].Val = norm
			fixed++
		}
	}
	return fixed
}

var brokenAriaReferenceInfo = a11y.RuleInfo{
	ID:              "broken-aria-reference",
	Message:         "Reference points to a missing id",
	Description:     "aria-labelledby, aria-describedby, aria-controls, aria-owns and label[for] must reference ids present in the document.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Point the reference at an existing element id or remove it.",
}

type brokenAriaReference struct{ rule }

func (r brokenAriaReference) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements() {
		attrs := ariaIDRefAttributes
		if n.Data == "label" {
			attrs = append([]string{"for"}, attrs...)
		}
		for _, attr := range attrs {
			val, ok := dom.Attr(n, attr)
			if !ok {
				continue
			}
			var missing []string
			for _, id := range strings.Fields(val) {
				if doc.ByID(id) == nil {
					missing = append(missing, id)
				}
			}
			if len(missing) == 0 {
				continue
			}
			sort.Strings(missing)
			ctx := map[string]string{"attribute": attr, "missing_ids": strings.Join(missing, " ")}
			issues = append(issues, r.issuef(n, ctx, "%s references missing id(s): %s", attr, strings.Join(missing, ", ")))
		}
	}
	return issues
}

var preferSemanticElementInfo = a11y.RuleInfo{
	ID:              "prefer-semantic-element",
	Message:         "Generic element used with a role a native element provides",
	Description:     "Native HTML elements carry their semantics and behavior without ARIA. A div with role=\"navigation\" should be a nav.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  "Replace the generic element with the matching native element.",
}

// semanticTags maps a role to the native element that implies it.
var semanticTags = map[string]string{
	"main":          "main",
	"navigation":    "nav",
	"banner":        "header",
	"contentinfo":   "footer",
	"complementary": "aside",
	"article":       "article",
	"region":        "section",
}

type preferSemanticElement struct{ rule }

func (r preferSemanticElement) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements("div", "span") {
		if tag := semanticReplacement(n); tag != "" {
			issues = append(issues, r.issuef(n, map[string]string{"suggested_element": tag},
				"Use <%s> instead of <%s role=%q>", tag, n.Data, dom.TrimmedAttr(n, "role")))
		}
	}
	return issues
}

// semanticReplacement returns the native tag for n, or "".
func semanticReplacement(n *html.Node) string {
	tokens := roleTokens(n)
	if len(tokens) != 1 {
		return ""
	}
	role := tokens[0]
	switch role {
	case "banner", "contentinfo":
		if dom.HasAncestor(n, sectioningElements...) {
			return ""
		}
	case "region":
		if dom.TrimmedAttr(n, "aria-label") == "" && dom.TrimmedAttr(n, "aria-labelledby") == "" {
			return ""
		}
	case "heading":
		level := 2
		if v, ok := dom.Attr(n, "aria-level"); ok {
			l, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || l < 1 || l > 6 {
				return ""
			}
			level = l
		}
		return fmt.Sprintf("h%d", level)
	}
	return semanticTags[role]
}

func fixPreferSemanticElement(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.Elements("div", "span") {
		tag := semanticReplacement(n)
		if tag == "" {
			continue
		}
		skip := []string{"role"}
		if primaryRole(n) == "heading" {
			skip = append(skip, "aria-level")
		}
		dom.Rename(n, tag, skip...)
		fixed++
	}
	return fixed
}
