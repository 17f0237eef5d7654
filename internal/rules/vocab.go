package rules

import (
	"sort"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

// ariaRoles are the concrete WAI-ARIA 1.2, Graphics ARIA and DPUB-ARIA roles.
// Abstract roles (command, landmark, widget, ...) are absent because
// authors may not use them.
var ariaRoles = toSet(
	"alert", "alertdialog", "application", "article", "banner", "blockquote",
	"button", "caption", "cell", "checkbox", "code", "columnheader", "combobox",
	"complementary", "contentinfo", "definition", "deletion", "dialog",
	"directory", "document", "emphasis", "feed", "figure", "form", "generic",
	"grid", "gridcell", "group", "heading", "img", "insertion", "link", "list",
	"listbox", "listitem", "log", "main", "marquee", "math", "meter", "menu",
	"menubar", "menuitem", "menuitemcheckbox", "menuitemradio", "navigation",
	"none", "note", "option", "paragraph", "presentation", "progressbar",
	"radio", "radiogroup", "region", "row", "rowgroup", "rowheader",
	"scrollbar", "search", "searchbox", "separator", "slider", "spinbutton",
	"status", "strong", "subscript", "superscript", "switch", "tab", "table",
	"tablist", "tabpanel", "term", "textbox", "time", "timer", "toolbar",
	"tooltip", "tree", "treegrid", "treeitem",
	"graphics-document", "graphics-object", "graphics-symbol",
	"doc-abstract", "doc-acknowledgments", "doc-afterword", "doc-appendix",
	"doc-backlink", "doc-biblioentry", "doc-bibliography", "doc-biblioref",
	"doc-chapter", "doc-colophon", "doc-conclusion", "doc-cover", "doc-credit",
	"doc-credits", "doc-dedication", "doc-endnote", "doc-endnotes",
	"doc-epigraph", "doc-epilogue", "doc-errata", "doc-example", "doc-footnote",
	"doc-foreword", "doc-glossary", "doc-glossref", "doc-index",
	"doc-introduction", "doc-noteref", "doc-notice", "doc-pagebreak",
	"doc-pagelist", "doc-part", "doc-preface", "doc-prologue", "doc-pullquote",
	"doc-qna", "doc-subtitle", "doc-tip", "doc-toc",
)

// ariaAttributes are the states and properties defined by WAI-ARIA 1.2.
var ariaAttributes = toSet(
	"aria-activedescendant", "aria-atomic", "aria-autocomplete",
	"aria-braillelabel", "aria-brailleroledescription", "aria-busy",
	"aria-checked", "aria-colcount", "aria-colindex", "aria-colindextext",
	"aria-colspan", "aria-controls", "aria-current", "aria-describedby",
	"aria-description", "aria-details", "aria-disabled", "aria-dropeffect",
	"aria-errormessage", "aria-expanded", "aria-flowto", "aria-grabbed",
	"aria-haspopup", "aria-hidden", "aria-invalid", "aria-keyshortcuts",
	"aria-label", "aria-labelledby", "aria-level", "aria-live", "aria-modal",
	"aria-multiline", "aria-multiselectable", "aria-orientation", "aria-owns",
	"aria-placeholder", "aria-posinset", "aria-pressed", "aria-readonly",
	"aria-relevant", "aria-required", "aria-roledescription", "aria-rowcount",
	"aria-rowindex", "aria-rowindextext", "aria-rowspan", "aria-selected",
	"aria-setsize", "aria-sort", "aria-valuemax", "aria-valuemin",
	"aria-valuenow", "aria-valuetext",
)

// ariaIDRefAttributes hold one or more element ids.
var ariaIDRefAttributes = []string{
	"aria-activedescendant", "aria-controls", "aria-describedby",
	"aria-details", "aria-errormessage", "aria-flowto", "aria-labelledby",
	"aria-owns",
}

// ariaValueTokens lists the allowed values of enumerated aria attributes.
var ariaValueTokens = map[string]map[string]bool{
	"aria-atomic":          toSet("true", "false"),
	"aria-busy":            toSet("true", "false"),
	"aria-disabled":        toSet("true", "false"),
	"aria-modal":           toSet("true", "false"),
	"aria-multiline":       toSet("true", "false"),
	"aria-multiselectable": toSet("true", "false"),
	"aria-readonly":        toSet("true", "false"),
	"aria-required":        toSet("true", "false"),
	"aria-hidden":          toSet("true", "false", "undefined"),
	"aria-expanded":        toSet("true", "false", "undefined"),
	"aria-grabbed":         toSet("true", "false", "undefined"),
	"aria-selected":        toSet("true", "false", "undefined"),
	"aria-checked":         toSet("true", "false", "mixed", "undefined"),
	"aria-pressed":         toSet("true", "false", "mixed", "undefined"),
	"aria-live":            toSet("off", "polite", "assertive"),
	"aria-current":         toSet("page", "step", "location", "date", "time", "true", "false"),
	"aria-autocomplete":    toSet("inline", "list", "both", "none"),
	"aria-haspopup":        toSet("false", "true", "menu", "listbox", "tree", "grid", "dialog"),
	"aria-invalid":         toSet("grammar", "false", "spelling", "true"),
	"aria-orientation":     toSet("horizontal", "vertical", "undefined"),
	"aria-sort":            toSet("ascending", "descending", "none", "other"),
}

// autocompleteFields are the autofill field names of the HTML standard.
var autocompleteFields = toSet(
	"name", "honorific-prefix", "given-name", "additional-name", "family-name",
	"honorific-suffix", "nickname", "username", "new-password",
	"current-password", "one-time-code", "organization-title", "organization",
	"street-address", "address-line1", "address-line2", "address-line3",
	"address-level4", "address-level3", "address-level2", "address-level1",
	"country", "country-name", "postal-code", "cc-name", "cc-given-name",
	"cc-additional-name", "cc-family-name", "cc-number", "cc-exp",
	"cc-exp-month", "cc-exp-year", "cc-csc", "cc-type", "transaction-currency",
	"transaction-amount", "language", "bday", "bday-day", "bday-month",
	"bday-year", "sex", "url", "photo", "tel", "tel-country-code",
	"tel-national", "tel-area-code", "tel-local", "tel-local-prefix",
	"tel-local-suffix", "tel-extension", "email", "impp",
)

// autocompleteModifiers may precede or follow a field name.
var autocompleteModifiers = toSet(
	"shipping", "billing", "home", "work", "mobile", "fax", "pager", "webauthn",
)

// sectioningElements scope header and footer away from banner/contentinfo.
var sectioningElements = []string{"article", "aside", "main", "nav", "section"}

// landmarkRoles are the page-region roles.
var landmarkRoles = toSet(
	"banner", "navigation", "main", "contentinfo", "complementary", "search", "form", "region",
)

func toSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	ariaRoleList      = sortedKeys(ariaRoles)
	ariaAttributeList = sortedKeys(ariaAttributes)
	autocompleteList  = append(sortedKeys(autocompleteFields), sortedKeys(autocompleteModifiers)...)
)

// roleTokens splits a role attribute into lower-cased tokens.
func roleTokens(n *html.Node) []string {
	v, ok := dom.Attr(n, "role")
	if !ok {
		return nil
	}
	return strings.Fields(strings.ToLower(v))
}

// primaryRole is the first recognized role token, or "".
func primaryRole(n *html.Node) string {
	for _, t := range roleTokens(n) {
		if ariaRoles[t] {
			return t
		}
	}
	return ""
}

// hasRole reports whether the element's primary role is one of roles.
func hasRole(n *html.Node, roles ...string) bool {
	pr := primaryRole(n)
	if pr == "" {
		return false
	}
	for _, r := range roles {
		if pr == r {
			return true
		}
	}
	return false
}

// implicitRole returns the role the element carries without a role attribute.
func implicitRole(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	switch n.Data {
	case "a", "area":
		if dom.HasAttr(n, "href") {
			return "link"
		}
	case "article":
		return "article"
	case "aside":
		return "complementary"
	case "button":
		return "button"
	case "datalist":
		return "listbox"
	case "dd":
		return "definition"
	case "details":
		return "group"
	case "dialog":
		return "dialog"
	case "dt":
		return "term"
	case "fieldset":
		return "group"
	case "figure":
		return "figure"
	case "footer":
		if !dom.HasAncestor(n, sectioningElements...) {
			return "contentinfo"
		}
	case "form":
		return "form"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "header":
		if !dom.HasAncestor(n, sectioningElements...) {
			return "banner"
		}
	case "hr":
		return "separator"
	case "img":
		if alt, ok := dom.Attr(n, "alt"); !ok || alt != "" {
			return "img"
		}
	case "input":
		return inputRole(n)
	case "li":
		return "listitem"
	case "main":
		return "main"
	case "math":
		return "math"
	case "menu", "ol", "ul":
		return "list"
	case "meter":
		return "meter"
	case "nav":
		return "navigation"
	case "optgroup":
		return "group"
	case "option":
		return "option"
	case "output":
		return "status"
	case "progress":
		return "progressbar"
	case "search":
		return "search"
	case "select":
		if dom.HasAttr(n, "multiple") {
			return "listbox"
		}
		if size, err := strconv.Atoi(dom.TrimmedAttr(n, "size")); err == nil && size > 1 {
			return "listbox"
		}
		return "combobox"
	case "table":
		return "table"
	case "tbody", "tfoot", "thead":
		return "rowgroup"
	case "td":
		return "cell"
	case "textarea":
		return "textbox"
	case "tr":
		return "row"
	}
	return ""
}

func inputRole(n *html.Node) string {
	typ := strings.ToLower(dom.TrimmedAttr(n, "type"))
	switch typ {
	case "button", "image", "reset", "submit":
		return "button"
	case "checkbox":
		return "checkbox"
	case "radio":
		return "radio"
	case "range":
		return "slider"
	case "number":
		return "spinbutton"
	case "search":
		if !dom.HasAttr(n, "list") {
			return "searchbox"
		}
		return "combobox"
	case "", "text", "email", "tel", "url":
		if dom.HasAttr(n, "list") {
			return "combobox"
		}
		return "textbox"
	}
	return ""
}

// isFocusable reports whether the element takes keyboard focus from markup.
func isFocusable(n *html.Node) bool {
	if n.Type != html.ElementNode || isDisabled(n) {
		return false
	}
	if v, ok := dom.Attr(n, "tabindex"); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i >= 0
		}
	}
	if isNativelyInteractive(n) {
		return true
	}
	if v, ok := dom.Attr(n, "contenteditable"); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		return v == "" || v == "true" || v == "plaintext-only"
	}
	return false
}

// isDisabled reports whether n is a form control disabled by its own
// attribute or by a disabled fieldset outside that fieldset's first legend.
// disabled on any other element has no effect.
func isDisabled(n *html.Node) bool {
	if !dom.IsElement(n, "button", "input", "select", "textarea", "fieldset") {
		return false
	}
	if dom.HasAttr(n, "disabled") {
		return true
	}
	for fs := dom.Closest(n, "fieldset"); fs != nil; fs = dom.Closest(fs, "fieldset") {
		if !dom.HasAttr(fs, "disabled") {
			continue
		}
		if legend := firstLegend(fs); legend == nil || !isWithin(n, legend) {
			return true
		}
	}
	return false
}

func firstLegend(fieldset *html.Node) *html.Node {
	for c := fieldset.FirstChild; c != nil; c = c.NextSibling {
		if dom.IsElement(c, "legend") {
			return c
		}
	}
	return nil
}

func isWithin(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// isNativelyInteractive covers elements browsers make operable by keyboard.
func isNativelyInteractive(n *html.Node) bool {
	switch n.Data {
	case "a", "area":
		return dom.HasAttr(n, "href")
	case "button", "select", "textarea", "iframe":
		return true
	case "input":
		return !strings.EqualFold(dom.TrimmedAttr(n, "type"), "hidden")
	case "summary":
		return dom.Closest(n, "details") != nil
	case "audio", "video":
		return dom.HasAttr(n, "controls")
	}
	return false
}

// headingLevel returns 1..6 for h1..h6, 0 otherwise.
func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode || len(n.Data) != 2 || n.Data[0] != 'h' {
		return 0
	}
	level := int(n.Data[1] - '0')
	if level < 1 || level > 6 {
		return 0
	}
	return level
}
