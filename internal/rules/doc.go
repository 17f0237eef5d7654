// Package rules holds the accessibility rule set: one detector per rule id
// and, for every detector that has one, a paired fixer sharing the same id.
//
// Rules are organized by concern:
//   - images: alt text, decorative images
//   - headings: hierarchy and empty headings
//   - aria: roles, attributes, values, references, semantic elements
//   - landmarks: main landmark presence and uniqueness
//   - links: names, generic and duplicate text, new windows, titles
//   - forms: labels, buttons, autocomplete, fieldsets
//   - tables: header cells and scope
//   - color: inline contrast
//   - keyboard: focusability, traps, tab order, gestures
//   - media: autoplay, captions, iframes, motion, refresh, zoom
//   - structure: language, ids, lists
//
// Detectors only read the document. Fixers parse their input, rewrite the
// same instances their detector flags, and serialize; inputs with nothing
// to fix come back byte-for-byte. Manual fixers are inert and exist so
// callers can tell "needs a human" apart from "resolved".
//
// Example Usage:
//
//	reg := rules.Default()
//	d, _ := reg.Detector("missing-alt-text")
//	issues := d.Detect(dom.Parse(content), a11y.NewEnv(""))
package rules
