package dom

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxSnippetLength bounds the outer HTML captured for an Issue.
const MaxSnippetLength = 200

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Attr returns the value of an attribute (case-insensitive key).
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.ToLower(a.Key) == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when absent.
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// HasAttr reports whether the attribute is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// TrimmedAttr returns the whitespace-trimmed attribute value.
func TrimmedAttr(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return strings.TrimSpace(v)
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.ToLower(a.Key) == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present and reports whether it did.
func RemoveAttr(n *html.Node, key string) bool {
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.ToLower(a.Key) == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// RenameAttr moves an attribute value to a new key, keeping its position.
func RenameAttr(n *html.Node, from, to string) bool {
	from = strings.ToLower(from)
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.ToLower(a.Key) == from {
			n.Attr[i].Key = strings.ToLower(to)
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with one of the given tags.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Closest returns the nearest ancestor (excluding n) with one of tags.
func Closest(n *html.Node, tags ...string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if IsElement(p, tags...) {
			return p
		}
	}
	return nil
}

// HasAncestor reports whether any ancestor of n has one of tags.
func HasAncestor(n *html.Node, tags ...string) bool {
	return Closest(n, tags...) != nil
}

// ChildElements returns the direct element children of n.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns element descendants of n with one of tags, in order.
func Descendants(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if IsElement(c, tags...) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Text returns the whitespace-normalized text content of n, skipping
// script, style and template subtrees.
func Text(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		switch {
		case p.Type == html.TextNode:
			buf.WriteString(p.Data)
			buf.WriteByte(' ')
			return
		case IsElement(p, "script", "style", "template"):
			return
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return NormalizeSpace(buf.String())
}

// NormalizeSpace collapses runs of whitespace into single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsHidden reports whether n or an ancestor is removed from the
// accessibility tree by markup alone.
func IsHidden(n *html.Node) bool {
	if IsElement(n, "input") && strings.EqualFold(TrimmedAttr(n, "type"), "hidden") {
		return true
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if HasAttr(p, "hidden") {
			return true
		}
		if strings.EqualFold(TrimmedAttr(p, "aria-hidden"), "true") {
			return true
		}
		if style, ok := Attr(p, "style"); ok && hiddenByStyle(style) {
			return true
		}
	}
	return false
}

func hiddenByStyle(style string) bool {
	compact := strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden")
}

// Selector builds a CSS path for n, anchored at the nearest ancestor with a
// plain id. It is captured as a string so Issues never hold live nodes.
func Selector(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}

	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := TrimmedAttr(cur, "id"); id != "" && plainIdent.MatchString(id) {
			parts = append(parts, "#"+id)
			break
		}
		parts = append(parts, cur.Data+nthOfType(cur))
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// nthOfType returns ":nth-of-type(k)" when n has same-tag siblings.
func nthOfType(n *html.Node) string {
	if n.Parent == nil {
		return ""
	}
	index, total := 0, 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == n.Data {
			total++
			if c == n {
				index = total
			}
		}
	}
	if total <= 1 {
		return ""
	}
	return fmt.Sprintf(":nth-of-type(%d)", index)
}

// Snippet renders the outer HTML of n, truncated to MaxSnippetLength.
func Snippet(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	s := strings.TrimSpace(buf.String())
	if len(s) <= MaxSnippetLength {
		return s
	}
	cut := MaxSnippetLength - 3
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// Rename replaces n with a new element named tag at the same position.
// Attributes are copied except those listed in skip; children are moved.
func Rename(n *html.Node, tag string, skip ...string) *html.Node {
	drop := make(map[string]bool, len(skip))
	for _, k := range skip {
		drop[strings.ToLower(k)] = true
	}

	repl := NewElement(tag)
	for _, a := range n.Attr {
		if drop[strings.ToLower(a.Key)] {
			continue
		}
		repl.Attr = append(repl.Attr, a)
	}

	moveChildren(n, repl)
	if n.Parent != nil {
		n.Parent.InsertBefore(repl, n)
		n.Parent.RemoveChild(n)
	}
	return repl
}

// Wrap inserts a new tag element at n's position and moves n into it.
func Wrap(n *html.Node, tag string) *html.Node {
	wrapper := NewElement(tag)
	if n.Parent != nil {
		n.Parent.InsertBefore(wrapper, n)
		n.Parent.RemoveChild(n)
	}
	wrapper.AppendChild(n)
	return wrapper
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}

// Remove detaches n from the tree.
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func moveChildren(from, to *html.Node) {
	for c := from.FirstChild; c != nil; {
		next := c.NextSibling
		from.RemoveChild(c)
		to.AppendChild(c)
		c = next
	}
}
