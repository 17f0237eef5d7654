// Command a11y audits HTML for WCAG accessibility issues and repairs the
// ones that can be fixed from markup alone.
//
// Usage:
//
//	a11y scan site/**/*.html --url https://example.com/ --format json
//	a11y fix page.html --write --sanitize
//	a11y rules
//
// Configuration comes from A11Y_* environment variables, an optional rule
// profile (--profile) and flags, in increasing precedence.
package main
