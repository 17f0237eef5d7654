package dom

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Document is a parsed fragment or page owned by a single scan or fix call.
type Document struct {
	root  *html.Node
	query *goquery.Document

	// authoredTbody records whether the source spelled out <tbody>; when it
	// did not, the tbody elements the tree builder adds are unwrapped again.
	authoredTbody bool

	// authored holds the html, head and body tags present in a full page.
	// Wrappers the parser had to add are stripped on Serialize.
	authored map[atom.Atom]bool
}

// Parse builds a Document from raw markup. Input that opens with a doctype
// or an html, head or body tag is parsed as a full page; anything else is a
// body fragment. It never fails.
func Parse(raw string) *Document {
	lower := strings.ToLower(raw)
	doc := &Document{authoredTbody: strings.Contains(lower, "<tbody")}

	if isFullDocument(lower) {
		if root := parseDocument(raw); root != nil {
			doc.root = root
			doc.authored = map[atom.Atom]bool{
				atom.Html: hasOpenTag(lower, "html"),
				atom.Head: hasOpenTag(lower, "head"),
				atom.Body: hasOpenTag(lower, "body"),
			}
		}
	}

	if doc.root == nil {
		doc.root = &html.Node{Type: html.DocumentNode}
		for _, n := range parseFragment(raw) {
			doc.root.AppendChild(n)
		}
	}

	doc.query = goquery.NewDocumentFromNode(doc.root)
	return doc
}

// ParseBytes decodes raw bytes to UTF-8 using charset detection and parses the result.
func ParseBytes(data []byte) *Document {
	return Parse(Decode(data))
}

// IsPage reports whether the document was parsed as a full page.
func (d *Document) IsPage() bool {
	return d.authored != nil
}

// isFullDocument looks past a BOM, whitespace and comments for a leading
// doctype or document-level tag.
func isFullDocument(lower string) bool {
	s := strings.TrimPrefix(lower, "\ufeff")
	for {
		s = strings.TrimLeft(s, " \t\r\n\f")
		if !strings.HasPrefix(s, "<!--") {
			break
		}
		end := strings.Index(s, "-->")
		if end < 0 {
			return false
		}
		s = s[end+3:]
	}
	if strings.HasPrefix(s, "<!doctype") {
		return true
	}
	for _, tag := range []string{"html", "head", "body"} {
		if strings.HasPrefix(s, "<"+tag) && tagBoundary(s[len(tag)+1:]) {
			return true
		}
	}
	return false
}

// hasOpenTag reports whether lower contains a start tag named tag.
func hasOpenTag(lower, tag string) bool {
	open := "<" + tag
	for i := 0; ; {
		j := strings.Index(lower[i:], open)
		if j < 0 {
			return false
		}
		i += j + len(open)
		if tagBoundary(lower[i:]) {
			return true
		}
	}
}

// tagBoundary reports whether rest begins where a tag name may end, so
// "<head" does not match "<header".
func tagBoundary(rest string) bool {
	if rest == "" {
		return false
	}
	switch rest[0] {
	case ' ', '\t', '\r', '\n', '\f', '/', '>':
		return true
	}
	return false
}

// parseDocument runs the full HTML5 document algorithm. A parser panic or
// error yields nil and the caller falls back to fragment parsing.
func parseDocument(raw string) (root *html.Node) {
	defer func() {
		if r := recover(); r != nil {
			root = nil
		}
	}()

	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	return root
}

// parseFragment runs the HTML5 fragment algorithm with a <body> context.
// Parser diagnostics are not surfaced; a parser panic degrades to no nodes.
func parseFragment(raw string) (nodes []*html.Node) {
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
		}
	}()

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return nil
	}

	// Fragment nodes come back detached, but be explicit before re-parenting.
	for _, n := range parsed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return parsed
}

// Decode converts bytes in any detected charset to a UTF-8 string.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	name := DetectCharset(data)
	if name == "" || name == "utf-8" {
		return string(data)
	}

	r, err := charset.NewReader(bytes.NewReader(data), "text/html; charset="+name)
	if err != nil {
		return string(data)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// DetectCharset returns the lower-cased charset name chardet considers most likely.
func DetectCharset(data []byte) string {
	if len(data) == 0 {
		return "utf-8"
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Root returns the synthetic root node. It is a document node, so it never
// matches element selectors.
func (d *Document) Root() *html.Node {
	return d.root
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.query.Find(selector)
}

// Select returns the elements matching a CSS selector in document order.
// Invalid selectors match nothing.
func (d *Document) Select(selector string) []*html.Node {
	return d.query.Find(selector).Nodes
}

// XPath evaluates an XPath expression relative to the synthetic root.
// Invalid expressions yield no nodes.
func (d *Document) XPath(expr string) []*html.Node {
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil
	}
	return nodes
}

// Elements returns every element whose tag is one of tags, in document
// order. With no tags, all elements are returned.
func (d *Document) Elements(tags ...string) []*html.Node {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = true
	}

	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (len(want) == 0 || want[c.Data]) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// ByID returns the first element carrying id, or nil.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	for _, n := range d.Elements() {
		if v, ok := Attr(n, "id"); ok && v == id {
			return n
		}
	}
	return nil
}

// Body returns the body element of a page, or nil for a fragment.
func (d *Document) Body() *html.Node {
	if !d.IsPage() {
		return nil
	}
	if bodies := d.Elements("body"); len(bodies) > 0 {
		return bodies[0]
	}
	return nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			continue
		}
	}
	return buf.String()
}

// SetInnerHTML replaces the children of n with raw parsed in n's context.
// On a parse failure the children are left as they were.
func SetInnerHTML(n *html.Node, raw string) bool {
	nodes, err := html.ParseFragment(strings.NewReader(raw), n)
	if err != nil {
		return false
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		n.AppendChild(c)
	}
	return true
}

// Serialize renders the document back to a string. The synthetic root,
// any tbody wrappers and any html, head or body element the parser added
// are stripped; a doctype and authored page wrappers are kept.
func (d *Document) Serialize() string {
	if !d.authoredTbody {
		for _, tbody := range d.Elements("tbody") {
			Unwrap(tbody)
		}
	}

	var injected []*html.Node
	for _, n := range d.Elements("html", "head", "body") {
		if d.injected(n) {
			injected = append(injected, n)
		}
	}
	for _, n := range injected {
		Unwrap(n)
	}

	var buf bytes.Buffer
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			continue
		}
	}
	return strings.TrimSpace(buf.String())
}

// injected reports whether n is a page wrapper the source never spelled out.
func (d *Document) injected(n *html.Node) bool {
	if d.authored == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Html, atom.Head, atom.Body:
		return !d.authored[n.DataAtom]
	}
	return false
}
