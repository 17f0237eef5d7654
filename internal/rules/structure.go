package rules

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

var invalidLangInfo = a11y.RuleInfo{
	ID:              "invalid-lang",
	Message:         "Language code is not valid",
	Description:     "lang attributes must hold well-formed BCP 47 tags so screen readers switch to the right pronunciation.",
	WCAGCriterion:   "3.1.2",
	WCAGLevel:       a11y.LevelAA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Use a BCP 47 tag such as \"en\" or \"pt-BR\".",
}

type invalidLang struct{ rule }

func (r invalidLang) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.XPath("//*[@lang]") {
		val := dom.TrimmedAttr(n, "lang")
		if val == "" || validLang(val) {
			continue
		}
		ctx := map[string]string{"lang": val}
		if repaired, ok := repairLang(val); ok {
			ctx["suggestion"] = repaired
		}
		issues = append(issues, r.issuef(n, ctx, "Invalid language code %q", val))
	}
	return issues
}

func validLang(val string) bool {
	if strings.Contains(val, "_") {
		return false
	}
	_, err := language.Parse(val)
	return err == nil
}

// repairLang swaps underscores for hyphens and returns the canonical tag.
func repairLang(val string) (string, bool) {
	tag, err := language.Parse(strings.ReplaceAll(val, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

func fixInvalidLang(doc *dom.Document) int {
	fixed := 0
	for _, n := range doc.XPath("//*[@lang]") {
		val := dom.TrimmedAttr(n, "lang")
		if val == "" || validLang(val) {
			continue
		}
		repaired, ok := repairLang(val)
		if !ok || repaired == val {
			continue
		}
		dom.SetAttr(n, "lang", repaired)
		fixed++
	}
	return fixed
}

var duplicateIDInfo = a11y.RuleInfo{
	ID:              "duplicate-id",
	Message:         "Duplicate id",
	Description:     "ids must be unique. Labels, ARIA references and fragment links resolve to the first match only.",
	WCAGCriterion:   "4.1.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Give every element a unique id.",
}

type duplicateID struct{ rule }

func (r duplicateID) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range duplicateIDs(doc) {
		id, _ := dom.Attr(n, "id")
		issues = append(issues, r.issuef(n, map[string]string{"id": id}, "id %q is already used", id))
	}
	return issues
}

// duplicateIDs returns every element reusing an id seen earlier.
func duplicateIDs(doc *dom.Document) []*html.Node {
	seen := make(map[string]bool)
	var out []*html.Node
	for _, n := range doc.XPath("//*[@id]") {
		id, _ := dom.Attr(n, "id")
		if id == "" {
			continue
		}
		if seen[id] {
			out = append(out, n)
		}
		seen[id] = true
	}
	return out
}

// referencedIDs collects ids pointed at by labels, ARIA id references,
// fragment links, table headers, datalists and image maps.
func referencedIDs(doc *dom.Document) map[string]bool {
	refs := make(map[string]bool)
	for _, n := range doc.Elements() {
		for _, attr := range append([]string{"for", "headers", "list", "form"}, ariaIDRefAttributes...) {
			for _, id := range strings.Fields(dom.AttrOr(n, attr, "")) {
				refs[id] = true
			}
		}
		for _, attr := range []string{"href", "usemap"} {
			if v := dom.TrimmedAttr(n, attr); strings.HasPrefix(v, "#") && len(v) > 1 {
				refs[v[1:]] = true
			}
		}
	}
	return refs
}

// fixDuplicateID renames later duplicates to id-2, id-3, ... unless
// something references the id, since the right target is then ambiguous.
func fixDuplicateID(doc *dom.Document) int {
	dups := duplicateIDs(doc)
	if len(dups) == 0 {
		return 0
	}
	refs := referencedIDs(doc)
	used := make(map[string]bool)
	for _, n := range doc.XPath("//*[@id]") {
		used[dom.AttrOr(n, "id", "")] = true
	}

	fixed := 0
	for _, n := range dups {
		id := dom.AttrOr(n, "id", "")
		if refs[id] {
			continue
		}
		next := id
		for i := 2; used[next]; i++ {
			next = fmt.Sprintf("%s-%d", id, i)
		}
		used[next] = true
		dom.SetAttr(n, "id", next)
		fixed++
	}
	return fixed
}

var invalidListStructureInfo = a11y.RuleInfo{
	ID:              "invalid-list-structure",
	Message:         "List contains elements other than list items",
	Description:     "ul and ol may only contain li (and script-supporting) elements. Other children break the item count screen readers announce.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Wrap each child of the list in an <li>.",
}

type invalidListStructure struct{ rule }

func (r invalidListStructure) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, c := range strayListChildren(doc) {
		issues = append(issues, r.issuef(c, map[string]string{"element": c.Data, "list": c.Parent.Data},
			"<%s> is a direct child of <%s>", c.Data, c.Parent.Data))
	}
	return issues
}

func strayListChildren(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, list := range doc.Elements("ul", "ol") {
		if hasRole(list, "presentation", "none") {
			continue
		}
		for _, c := range dom.ChildElements(list) {
			if !dom.IsElement(c, "li", "script", "template") {
				out = append(out, c)
			}
		}
	}
	return out
}

func fixInvalidListStructure(doc *dom.Document) int {
	stray := strayListChildren(doc)
	for _, c := range stray {
		dom.Wrap(c, "li")
	}
	return len(stray)
}
