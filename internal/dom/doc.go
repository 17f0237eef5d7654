// Package dom adapts golang.org/x/net/html into the document model the rule engine works on.
//
// A Document is parsed from a raw HTML fragment in <body> context and every
// resulting node is hung under a synthetic root, so callers never see the
// html/head/body wrappers the tokenizer would otherwise inject. Input that
// opens with a doctype or an html, head or body tag is a full page and goes
// through the document algorithm instead. Serialize reverses either process
// and returns trimmed markup of the same shape: wrappers the source wrote are
// kept, wrappers the parser added are not.
//
// Queries are served by specialized libraries:
//   - goquery: CSS selectors and selection helpers
//   - htmlquery: XPath for ancestor/descendant predicates
//   - chardet + x/net/html/charset: byte input decoding
//
// Parsing never fails. Malformed markup is recovered best-effort by the
// HTML5 tree builder, and a panic inside the parser yields an empty document.
//
// Example Usage:
//
//	doc := dom.Parse(`<img src="logo.png">`)
//	for _, img := range doc.Select("img[src]") { ... }
//	out := doc.Serialize()
package dom
