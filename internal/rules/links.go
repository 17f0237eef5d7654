package rules

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

const newWindowHint = " (opens in a new tab)"

var genericLinkPhrases = toSet(
	"click here", "click", "here", "read more", "more", "learn more",
	"link", "this link", "more info", "more information", "details",
	"continue", "go", "this", "see more", "view more", "click this",
)

var newWindowMarkers = []string{"new window", "new tab", "opens in", "external"}

// links returns visible anchors with an href.
func links(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, a := range doc.Select("a[href]") {
		if !dom.IsHidden(a) {
			out = append(out, a)
		}
	}
	return out
}

// normalizeName folds a link name for comparison: NFKC, lower case,
// collapsed whitespace, no trailing punctuation.
func normalizeName(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	s = dom.NormalizeSpace(s)
	return strings.TrimRightFunc(s, unicode.IsPunct)
}

var emptyLinkInfo = a11y.RuleInfo{
	ID:              "empty-link",
	Message:         "Link has no accessible name",
	Description:     "Links without text, alt text or a label are announced only as \"link\", giving no hint of their destination.",
	WCAGCriterion:   "2.4.4",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Add link text, or an aria-label describing the destination.",
}

type emptyLink struct{ rule }

func (r emptyLink) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, a := range links(doc) {
		if accessibleName(doc, a) == "" {
			issues = append(issues, r.issue(a, map[string]string{"href": dom.TrimmedAttr(a, "href")}))
		}
	}
	return issues
}

// fixEmptyLink labels a link from its title, else from its destination.
func fixEmptyLink(doc *dom.Document) int {
	fixed := 0
	for _, a := range links(doc) {
		if accessibleName(doc, a) != "" {
			continue
		}
		label := dom.NormalizeSpace(dom.AttrOr(a, "title", ""))
		if label == "" {
			label = hrefLabel(dom.AttrOr(a, "href", ""))
		}
		if label == "" {
			continue
		}
		dom.SetAttr(a, "aria-label", label)
		fixed++
	}
	return fixed
}

var genericLinkTextInfo = a11y.RuleInfo{
	ID:              "generic-link-text",
	Message:         "Link text does not describe its destination",
	Description:     "Phrases like \"click here\" or \"read more\" are meaningless when links are listed out of context.",
	WCAGCriterion:   "2.4.4",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Rewrite the link text to say where the link goes.",
}

type genericLinkText struct{ rule }

func (r genericLinkText) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, a := range links(doc) {
		if name, ok := genericLinkName(doc, a); ok {
			issues = append(issues, r.issuef(a, map[string]string{"text": name}, "Link text %q is not descriptive", name))
		}
	}
	return issues
}

// genericLinkName returns the link's name when it is a generic phrase and
// no descriptive aria label overrides it.
func genericLinkName(doc *dom.Document, a *html.Node) (string, bool) {
	name := accessibleName(doc, a)
	if !genericLinkPhrases[normalizeName(name)] {
		return "", false
	}
	for _, override := range []string{dom.NormalizeSpace(dom.AttrOr(a, "aria-label", "")), labelledByText(doc, a)} {
		if override != "" && !genericLinkPhrases[normalizeName(override)] {
			return "", false
		}
	}
	return name, true
}

func fixGenericLinkText(doc *dom.Document) int {
	fixed := 0
	for _, a := range links(doc) {
		if _, ok := genericLinkName(doc, a); !ok {
			continue
		}
		title := dom.NormalizeSpace(dom.AttrOr(a, "title", ""))
		if title == "" || genericLinkPhrases[normalizeName(title)] {
			continue
		}
		dom.SetAttr(a, "aria-label", title)
		fixed++
	}
	return fixed
}

var duplicateLinkTextInfo = a11y.RuleInfo{
	ID:              "duplicate-link-text",
	Message:         "Links with the same text go to different places",
	Description:     "Links that share a name must lead to the same destination, otherwise users cannot tell them apart.",
	WCAGCriterion:   "2.4.4",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Give each link text that distinguishes its destination.",
}

type duplicateLinkText struct{ rule }

type linkGroup struct {
	name  string
	dests []string
	first map[string]*html.Node
}

// Detect emits one issue per distinct destination inside every name group
// that points to more than one place.
func (r duplicateLinkText) Detect(doc *dom.Document, env *a11y.Env) []a11y.Issue {
	var site *url.URL
	if env != nil {
		site = env.SiteURL
	}

	groups := make(map[string]*linkGroup)
	var order []string
	for _, a := range links(doc) {
		name := accessibleName(doc, a)
		key := normalizeName(name)
		dest, ok := normalizeDestination(dom.AttrOr(a, "href", ""), site)
		if key == "" || !ok {
			continue
		}
		g, exists := groups[key]
		if !exists {
			g = &linkGroup{name: name, first: make(map[string]*html.Node)}
			groups[key] = g
			order = append(order, key)
		}
		if _, seen := g.first[dest]; !seen {
			g.first[dest] = a
			g.dests = append(g.dests, dest)
		}
	}

	var issues []a11y.Issue
	for _, key := range order {
		g := groups[key]
		if len(g.dests) < 2 {
			continue
		}
		for _, dest := range g.dests {
			ctx := map[string]string{
				"text":         g.name,
				"destination":  dest,
				"destinations": strconv.Itoa(len(g.dests)),
			}
			issues = append(issues, r.issuef(g.first[dest], ctx,
				"Link text %q is used for %d different destinations", g.name, len(g.dests)))
		}
	}
	return issues
}

// normalizeDestination strips the fragment and trailing slash from href and
// reduces same-site absolute URLs to their path. Script and empty targets
// report ok=false.
func normalizeDestination(href string, site *url.URL) (string, bool) {
	href = strings.TrimSpace(href)
	u, err := url.Parse(href)
	if err != nil || strings.EqualFold(u.Scheme, "javascript") {
		return "", false
	}
	u.Fragment, u.RawFragment = "", ""
	if site != nil {
		u = site.ResolveReference(u)
		if strings.EqualFold(u.Host, site.Host) {
			u = &url.URL{Path: u.Path, RawQuery: u.RawQuery}
		}
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	out := u.String()
	if out == "" {
		return "", false
	}
	return out, true
}

var linkOpensNewWindowInfo = a11y.RuleInfo{
	ID:              "link-opens-new-window",
	Message:         "Link opens a new window without warning",
	Description:     "Opening a new window or tab is a change of context users should be told about in advance.",
	WCAGCriterion:   "3.2.5",
	WCAGLevel:       a11y.LevelAAA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  "Mention that the link opens in a new tab in its text or label.",
}

type linkOpensNewWindow struct{ rule }

func (r linkOpensNewWindow) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, a := range newWindowLinks(doc) {
		issues = append(issues, r.issue(a, map[string]string{"target": dom.TrimmedAttr(a, "target")}))
	}
	return issues
}

// newWindowLinks returns target=_blank links that give no warning.
func newWindowLinks(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, a := range links(doc) {
		if !strings.EqualFold(dom.TrimmedAttr(a, "target"), "_blank") {
			continue
		}
		hint := strings.ToLower(accessibleName(doc, a) + " " + dom.AttrOr(a, "aria-label", "") + " " + dom.AttrOr(a, "title", ""))
		warned := false
		for _, marker := range newWindowMarkers {
			if strings.Contains(hint, marker) {
				warned = true
				break
			}
		}
		if !warned {
			out = append(out, a)
		}
	}
	return out
}

func fixLinkOpensNewWindow(doc *dom.Document) int {
	fixed := 0
	for _, a := range newWindowLinks(doc) {
		base := dom.NormalizeSpace(dom.AttrOr(a, "aria-label", ""))
		if base == "" {
			base = accessibleName(doc, a)
		}
		if base == "" {
			continue
		}
		dom.SetAttr(a, "aria-label", base+newWindowHint)
		fixed++
	}
	return fixed
}

var redundantTitleAttributeInfo = a11y.RuleInfo{
	ID:              "redundant-title-attribute",
	Message:         "Title attribute repeats the visible text",
	Description:     "A title identical to the element's text or alt is announced twice by some screen readers and adds nothing.",
	WCAGCriterion:   "2.4.4",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  "Remove the title attribute or use it for supplementary information.",
}

type redundantTitleAttribute struct{ rule }

func (r redundantTitleAttribute) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range redundantTitles(doc) {
		issues = append(issues, r.issue(n, map[string]string{"title": dom.TrimmedAttr(n, "title")}))
	}
	return issues
}

func redundantTitles(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.XPath("//*[@title]") {
		title := normalizeName(dom.AttrOr(n, "title", ""))
		if title == "" {
			continue
		}
		text := visibleText(n)
		if alt, ok := dom.Attr(n, "alt"); ok {
			text = alt
		}
		if normalizeName(text) == title {
			out = append(out, n)
		}
	}
	return out
}

func fixRedundantTitleAttribute(doc *dom.Document) int {
	nodes := redundantTitles(doc)
	for _, n := range nodes {
		dom.RemoveAttr(n, "title")
	}
	return len(nodes)
}
