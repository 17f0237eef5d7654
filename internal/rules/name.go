package rules

import (
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

// accessibleName resolves the name assistive technology would announce for
// n: visible text content first, then aria-label, then aria-labelledby,
// then an associated label element.
func accessibleName(doc *dom.Document, n *html.Node) string {
	if name := visibleText(n); name != "" {
		return name
	}
	if name := dom.NormalizeSpace(dom.AttrOr(n, "aria-label", "")); name != "" {
		return name
	}
	if name := labelledByText(doc, n); name != "" {
		return name
	}
	return labelText(doc, n)
}

// controlName resolves the name of a form control. Controls have no text
// content of their own, so the sources are attribute and label based.
func controlName(doc *dom.Document, n *html.Node) string {
	if name := dom.NormalizeSpace(dom.AttrOr(n, "aria-label", "")); name != "" {
		return name
	}
	if name := labelledByText(doc, n); name != "" {
		return name
	}
	if name := labelText(doc, n); name != "" {
		return name
	}
	return dom.NormalizeSpace(dom.AttrOr(n, "title", ""))
}

// visibleText is the text content of n including image alternatives and
// aria-labels of descendants, skipping hidden subtrees.
func visibleText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				parts = append(parts, c.Data)
				continue
			case html.ElementNode:
			default:
				continue
			}
			if dom.IsElement(c, "script", "style", "template") || dom.IsHidden(c) {
				continue
			}
			if label := strings.TrimSpace(dom.AttrOr(c, "aria-label", "")); label != "" {
				parts = append(parts, label)
				continue
			}
			if dom.IsElement(c, "img", "area") || (dom.IsElement(c, "input") && strings.EqualFold(dom.TrimmedAttr(c, "type"), "image")) {
				parts = append(parts, dom.AttrOr(c, "alt", ""))
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return dom.NormalizeSpace(strings.Join(parts, " "))
}

// labelledByText joins the text of every element aria-labelledby names.
func labelledByText(doc *dom.Document, n *html.Node) string {
	ids := strings.Fields(dom.AttrOr(n, "aria-labelledby", ""))
	var parts []string
	for _, id := range ids {
		target := doc.ByID(id)
		if target == nil {
			continue
		}
		text := dom.NormalizeSpace(dom.AttrOr(target, "aria-label", ""))
		if text == "" {
			text = visibleText(target)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// labelText returns the text of a label[for] pointing at n, or of a label
// wrapping it.
func labelText(doc *dom.Document, n *html.Node) string {
	if id := dom.TrimmedAttr(n, "id"); id != "" {
		for _, label := range doc.Elements("label") {
			if dom.TrimmedAttr(label, "for") == id {
				if text := visibleText(label); text != "" {
					return text
				}
			}
		}
	}
	if label := dom.Closest(n, "label"); label != nil {
		return visibleText(label)
	}
	return ""
}
